package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/empresa-normalizer/app/models"
)

// fração "atual/total" embutida no texto; os colchetes de borda impedem
// casar pedaços de datas (05/03/2024 não produz fração)
var reFracao = regexp.MustCompile(`(?:^|[^/\d])(\d+)\s*/\s*(\d+)(?:[^/\d]|$)`)

// frasesExatas mapeia frases conhecidas diretamente para categoria. Tem
// prioridade sobre as regras de contenção para resolver substrings ambíguas.
var frasesExatas = map[string]models.StatusCategory{
	"em analise":    models.CategoryWarning,
	"em andamento":  models.CategoryWarning,
	"em exigencia":  models.CategoryWarning,
	"deferido":      models.CategorySuccess,
	"indeferido":    models.CategoryDanger,
	"concluido":     models.CategorySuccess,
	"isento":        models.CategorySuccess,
	"nao se aplica": models.CategoryOutline,
}

// regraStatus predicado de contenção → categoria, avaliado de cima para baixo
type regraStatus struct {
	Palavra   string
	Categoria models.StatusCategory
}

// regrasOrdenadas lista explícita de regras em ordem de prioridade. A ordem é
// invariante de corretude: palavras específicas antes das genéricas que elas
// contêm ("irregular" antes de "regular", "nao pago" antes de "pago").
var regrasOrdenadas = []regraStatus{
	{"irregular", models.CategoryDanger},
	{"vencid", models.CategoryDanger},
	{"nao pago", models.CategoryDanger},
	{"negad", models.CategoryDanger},
	{"indefer", models.CategoryDanger},
	{"cancelad", models.CategoryDanger},
	{"inativ", models.CategoryDanger},
	{"invalid", models.CategoryDanger},
	{"suspens", models.CategoryWarning},
	{"pendente", models.CategoryWarning},
	{"vence", models.CategoryWarning},
	{"abert", models.CategoryWarning},
	{"analise", models.CategoryWarning},
	{"andamento", models.CategoryWarning},
	{"aguardando", models.CategoryWarning},
	{"exigencia", models.CategoryWarning},
	{"regular", models.CategorySuccess},
	{"pago", models.CategorySuccess},
	{"deferid", models.CategorySuccess},
	{"aprovad", models.CategorySuccess},
	{"concluid", models.CategorySuccess},
	{"emitid", models.CategorySuccess},
	{"possui", models.CategorySuccess},
	{"ativ", models.CategorySuccess},
	{"valid", models.CategorySuccess},
}

// palavrasAlerta conjunto fixo que marca o status como exigindo atenção,
// independente da categoria de exibição
var palavrasAlerta = []string{"vencid", "vence", "nao pago", "negad", "indefer", "abert"}

// placeholders de status em branco, chaveados pela forma normalizada.
// unidecode dobra o travessão "—" para "--", então é essa a grafia indexada.
var placeholders = map[string]bool{
	"*":  true,
	"-":  true,
	"--": true,
}

// exibições literais com rótulo especial (chave normalizada)
var exibicoesEspeciais = map[string]string{
	"isento": "Isento",
	"*":      "—",
	"-":      "—",
	"--":     "—",
}

// Classify mapeia um status livre para exatamente uma categoria canônica.
// Função total e determinística: texto desconhecido cai em neutral.
func Classify(status any) models.Classification {
	original := strings.TrimSpace(AsString(status))
	chave := Normalize(original)

	// 1. Vazio / placeholder → outline, nunca alerta
	if chave == "" || placeholders[chave] {
		return models.Classification{Categoria: models.CategoryOutline, Texto: "—"}
	}

	texto := FormatDisplay(original)

	// 2. Fração numérica "atual/total"
	if atual, total, ok := extrairFracao(chave); ok {
		if total > 0 && atual >= total {
			return models.Classification{Categoria: models.CategorySuccess, Texto: texto}
		}
		// incompleta ou malformada conta como alerta
		return models.Classification{Categoria: models.CategoryWarning, Alerta: true, Texto: texto}
	}

	alerta := IsAlert(original)

	// 3. Frases exatas conhecidas
	if cat, ok := frasesExatas[chave]; ok {
		return models.Classification{Categoria: cat, Alerta: alerta, Texto: texto}
	}

	// 4. Regras de contenção em ordem fixa
	for _, regra := range regrasOrdenadas {
		if strings.Contains(chave, regra.Palavra) {
			return models.Classification{Categoria: regra.Categoria, Alerta: alerta, Texto: texto}
		}
	}

	// 5. Default
	return models.Classification{Categoria: models.CategoryNeutral, Alerta: alerta, Texto: texto}
}

// IsAlert predicado de alerta: palavras-chave fixas ou fração não resolvida.
// Independente da categoria de exibição.
func IsAlert(status any) bool {
	chave := Normalize(status)
	if chave == "" {
		return false
	}
	for _, p := range palavrasAlerta {
		if strings.Contains(chave, p) {
			return true
		}
	}
	if atual, total, ok := extrairFracao(chave); ok {
		return total <= 0 || atual < total
	}
	return false
}

// FormatDisplay texto de exibição: trim + casos literais especiais. Deliberadamente
// desacoplado da classificação para que rótulos de exibição nunca precisem casar
// com palavras-chave.
func FormatDisplay(status any) string {
	s := strings.TrimSpace(AsString(status))
	if s == "" {
		return "—"
	}
	if rotulo, ok := exibicoesEspeciais[Normalize(s)]; ok {
		return rotulo
	}
	return s
}

// extrairFracao devolve (atual, total, achou). Total zero ou negativo é
// malformação e fica a cargo do chamador.
func extrairFracao(s string) (int, int, bool) {
	m := reFracao.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	atual, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, true // achou fração mas malformada
	}
	return atual, total, true
}

// VocabConflict conflito de contenção entre palavras-chave do vocabulário
type VocabConflict struct {
	Contida    string `json:"contida"`
	Contendo   string `json:"contendo"`
	IdxContida int    `json:"idx_contida"`
	IdxContem  int    `json:"idx_contem"`
}

// CheckVocabulary varre a lista ordenada e aponta pares onde uma palavra
// genérica seria avaliada antes de outra que a contém — a armadilha
// regular/irregular. Usado antes de publicar vocabulário novo.
func CheckVocabulary(extras ...string) []VocabConflict {
	palavras := make([]string, 0, len(regrasOrdenadas)+len(extras))
	for _, r := range regrasOrdenadas {
		palavras = append(palavras, r.Palavra)
	}
	for _, e := range extras {
		palavras = append(palavras, Normalize(e))
	}

	conflitos := []VocabConflict{}
	for i, generica := range palavras {
		for j := i + 1; j < len(palavras); j++ {
			if generica != palavras[j] && strings.Contains(palavras[j], generica) {
				conflitos = append(conflitos, VocabConflict{
					Contida:    generica,
					Contendo:   palavras[j],
					IdxContida: i,
					IdxContem:  j,
				})
			}
		}
	}
	return conflitos
}
