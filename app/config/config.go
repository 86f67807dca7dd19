package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Limiares dias de vencimento que disparam alerta/aviso
type Limiares struct {
	AlertaDias int `yaml:"alerta_dias" json:"alerta_dias"` // ≤7: "vence em 7 dias"
	AvisoDias  int `yaml:"aviso_dias" json:"aviso_dias"`   // ≤30: "vence em 30 dias"
}

// Matching parâmetros do vínculo certificado ↔ empresa
type Matching struct {
	MinDocDigitos  int     `yaml:"min_doc_digitos" json:"min_doc_digitos"`
	JWWeight       float64 `yaml:"jw_weight" json:"jw_weight"`
	LevWeight      float64 `yaml:"lev_weight" json:"lev_weight"`
	SugestaoMinima float64 `yaml:"sugestao_minima" json:"sugestao_minima"`
}

// CacheCfg tamanhos e TTL do cache de listagens de documentos
type CacheCfg struct {
	L1Size   int `yaml:"l1_size" json:"l1_size"`
	TTLHoras int `yaml:"ttl_horas" json:"ttl_horas"`
}

// CoreCfg configuração do núcleo de normalização
type CoreCfg struct {
	Limiares Limiares `yaml:"limiares" json:"limiares"`
	Matching Matching `yaml:"matching" json:"matching"`
	Cache    CacheCfg `yaml:"cache" json:"cache"`
}

var C CoreCfg

// Load carrega a configuração YAML com overrides de ambiente
func Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &C); err != nil {
		return err
	}
	// ENV overrides
	if v := os.Getenv("CACHE_L1_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.Cache.L1Size = n
		}
	}
	return nil
}

// AlertaDias limiar curto de vencimento (default 7)
func AlertaDias() int {
	if C.Limiares.AlertaDias > 0 {
		return C.Limiares.AlertaDias
	}
	return 7
}

// AvisoDias limiar longo de vencimento (default 30)
func AvisoDias() int {
	if C.Limiares.AvisoDias > 0 {
		return C.Limiares.AvisoDias
	}
	return 30
}

// MinDocDigitos tamanho mínimo de documento indexável (default 11, CPF)
func MinDocDigitos() int {
	if C.Matching.MinDocDigitos > 0 {
		return C.Matching.MinDocDigitos
	}
	return 11
}

// JWWeight peso Jaro-Winkler no score de sugestão (default 0.6)
func JWWeight() float64 {
	if C.Matching.JWWeight > 0 {
		return C.Matching.JWWeight
	}
	return 0.6
}

// LevWeight peso Levenshtein no score de sugestão (default 0.4)
func LevWeight() float64 {
	if C.Matching.LevWeight > 0 {
		return C.Matching.LevWeight
	}
	return 0.4
}

// SugestaoMinima score mínimo para sugerir vínculo (default 0.85)
func SugestaoMinima() float64 {
	if C.Matching.SugestaoMinima > 0 {
		return C.Matching.SugestaoMinima
	}
	return 0.85
}

// L1Size tamanho do cache LRU em memória (default 10000)
func L1Size() int {
	if C.Cache.L1Size > 0 {
		return C.Cache.L1Size
	}
	return 10000
}

// CacheTTL TTL do cache de documentos (default 24h). Invalidação continua
// explícita por escrita; o TTL só protege contra entradas órfãs.
func CacheTTL() time.Duration {
	if C.Cache.TTLHoras > 0 {
		return time.Duration(C.Cache.TTLHoras) * time.Hour
	}
	return 24 * time.Hour
}

// RequestTimeout timeout de chamadas ao backend legado
func RequestTimeout() time.Duration { return 15 * time.Second }
