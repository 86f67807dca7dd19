package normalizer

import (
	"github.com/empresa-normalizer/app/models"
)

// NormalizeAlerta coage campos numéricos e transforma identificadores opacos
// em string estável para chaves de lista na camada de apresentação
func NormalizeAlerta(raw models.RawRecord) models.Alerta {
	empresaID, _ := raw.Int64("empresa_id", "empresaId", "id_empresa")

	mensagem := raw.String("mensagem", "message", "descricao", "texto")
	tipo := raw.String("tipo", "tipo_alerta", "tipoAlerta")

	// classifica pela mensagem, recuando para o tipo
	base := mensagem
	if base == "" {
		base = tipo
	}
	cls := Classify(base)

	return models.Alerta{
		ID:        raw.String("id", "alerta_id", "alertaId", "uuid"),
		EmpresaID: empresaID,
		Empresa:   raw.String("empresa", "razao_social", "razaoSocial"),
		Tipo:      tipo,
		Mensagem:  mensagem,
		Data:      FormatValidade(ParseFlexibleDate(raw.String("data", "criado_em", "criadoEm", "created_at"))),
		Categoria: cls.Categoria,
	}
}
