package pivot

import (
	"github.com/empresa-normalizer/app/models"
	"github.com/empresa-normalizer/internal/normalizer"
)

// Colunas canônicas de tipo de taxa no formato wide
const (
	ColISS        = "iss"
	ColTFE        = "tfe"
	ColTPI        = "tpi"
	ColAlvara     = "alvara"
	ColVigilancia = "vigilancia_sanitaria"
	ColBombeiros  = "bombeiros"
	ColGeral      = "status_geral"
)

// colunasWide todas as colunas de taxa produzidas pelo pivô
var colunasWide = []string{ColISS, ColTFE, ColTPI, ColAlvara, ColVigilancia, ColBombeiros}

// colunasMonitoradas subconjunto que entra no status geral. TPI e bombeiros
// ficam de fora, assim como a própria coluna geral.
var colunasMonitoradas = []string{ColISS, ColTFE, ColAlvara, ColVigilancia}

// tipoParaColuna tabela imutável rótulo-normalizado → coluna canônica
var tipoParaColuna = map[string]string{
	"iss":                    ColISS,
	"imposto sobre servicos": ColISS,
	"tfe":                    ColTFE,
	"taxa de fiscalizacao":   ColTFE,
	"taxa de licenca":        ColTFE,
	"tpi":                    ColTPI,
	"taxa de publicidade":    ColTPI,
	"alvara":                 ColAlvara,
	"alvara de funcionamento": ColAlvara,
	"vigilancia sanitaria":   ColVigilancia,
	"visa":                   ColVigilancia,
	"bombeiros":              ColBombeiros,
	"avcb":                   ColBombeiros,
	"taxa de incendio":       ColBombeiros,
}

// camposIdentidade ordem de resolução da identidade da empresa numa linha long
var camposIdentidade = []string{"empresa_id", "empresaId", "id_empresa", "id"}

// NormalizeTaxCollection detecta o formato recebido e só pivota quando
// necessário. Formato long: alguma linha carrega `tipo` e nenhuma expõe as
// colunas wide. Reexecutar sobre a própria saída wide é no-op.
func NormalizeTaxCollection(rows []models.RawRecord) []models.RawRecord {
	if formatoLong(rows) {
		rows = pivotar(rows)
	} else {
		rows = copiarLinhas(rows)
	}
	for _, row := range rows {
		row[ColGeral] = statusGeral(row)
	}
	return rows
}

// formatoLong true quando o payload está no formato relacional (uma linha por
// empresa × tipo de taxa)
func formatoLong(rows []models.RawRecord) bool {
	temTipo := false
	for _, row := range rows {
		if row.Has("tipo") {
			temTipo = true
		}
		for _, col := range colunasWide {
			if row.Has(col) {
				return false
			}
		}
	}
	return temTipo
}

// pivotar agrupa linhas long por identidade de empresa e produz uma linha
// wide por empresa. Primeiro valor não vazio vence por coluna; o vencimento é
// a exceção: valor conhecido pode substituir nulo, nunca o contrário.
func pivotar(rows []models.RawRecord) []models.RawRecord {
	grupos := make(map[int64]models.RawRecord)
	ordem := []int64{}

	for _, row := range rows {
		id, ok := row.Int64(camposIdentidade...)
		if !ok {
			// sem identidade a linha não contribui para grupo algum
			continue
		}

		wide, existe := grupos[id]
		if !existe {
			wide = models.RawRecord{
				"empresa_id": id,
				"empresa":    row.String("empresa", "razao_social", "razaoSocial", "nome"),
				"cnpj":       row.String("cnpj", "cpf_cnpj", "cpfCnpj"),
			}
			grupos[id] = wide
			ordem = append(ordem, id)
		}

		col, ok := tipoParaColuna[normalizer.Normalize(row.String("tipo"))]
		if ok {
			valor := row.String("status", "situacao", "valor")
			if valor != "" {
				if _, preenchida := wide[col]; !preenchida {
					wide[col] = valor
				}
			}
		}

		// vencimento: informação vence ausência, nunca sobrescreve valor conhecido
		if venc := row.String("vencimento", "data_vencimento", "dataVencimento"); venc != "" {
			if _, tem := wide["vencimento"]; !tem {
				wide["vencimento"] = venc
			}
		}
	}

	saida := make([]models.RawRecord, 0, len(ordem))
	for _, id := range ordem {
		saida = append(saida, grupos[id])
	}
	return saida
}

// statusGeral "Irregular" quando alguma coluna monitorada reporta valor em
// aberto — pela mesma heurística fração-ou-palavra-chave do status geral, não
// pela categoria de exibição
func statusGeral(row models.RawRecord) string {
	for _, col := range colunasMonitoradas {
		if valor := row.String(col); valor != "" && normalizer.IsAlert(valor) {
			return "Irregular"
		}
	}
	return "Regular"
}

func copiarLinhas(rows []models.RawRecord) []models.RawRecord {
	saida := make([]models.RawRecord, 0, len(rows))
	for _, row := range rows {
		copia := make(models.RawRecord, len(row))
		for k, v := range row {
			copia[k] = v
		}
		saida = append(saida, copia)
	}
	return saida
}
