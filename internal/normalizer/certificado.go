package normalizer

import (
	"fmt"
	"time"

	"github.com/empresa-normalizer/app/config"
	"github.com/empresa-normalizer/app/models"
)

// NormalizeCertificado transforma o payload bruto de certificado digital.
// Resolve a credencial entre vários nomes de campo possíveis, aplica a regra
// pessoa-vs-empresa ao titular e recalcula a situação pelos dias restantes —
// mas só sobrescreve situações ambíguas do backend, nunca as específicas.
func NormalizeCertificado(raw models.RawRecord, agora time.Time) models.Certificado {
	id, _ := raw.Int64("id", "certificado_id", "certificadoId")

	var empresaID *int64
	if v, ok := raw.Int64("empresa_id", "empresaId", "id_empresa"); ok {
		empresaID = &v
	}

	titular := raw.String("titular", "nome_titular", "nomeTitular")
	if empresaID == nil {
		// sem empresa associada o titular é assumido pessoa física
		titular = TitleCaseNome(titular)
	}

	validade := ParseFlexibleDate(raw.String("validade", "vencimento", "data_vencimento", "dataVencimento"))
	var dias *int
	if validade != nil {
		dias = DaysUntilFrom(*validade, agora)
	}

	situacao := raw.String("situacao", "status")
	situacao = recalcularSituacao(situacao, dias)

	cls := Classify(situacao)

	return models.Certificado{
		ID:            id,
		EmpresaID:     empresaID,
		Titular:       titular,
		Documento:     raw.String("documento", "cpf_cnpj", "cpfCnpj", "cnpj", "cpf"),
		Senha:         raw.String("senha", "senha_certificado", "senhaCertificado", "password"),
		Validade:      FormatValidade(validade),
		DiasRestantes: dias,
		Situacao:      cls.Texto,
		Categoria:     cls.Categoria,
		Alerta:        cls.Alerta,
	}
}

// recalcularSituacao deriva a situação dos dias restantes quando a situação
// vinda do backend é ambígua (vencido/válido genérico ou vazia)
func recalcularSituacao(situacao string, dias *int) string {
	if dias == nil || !situacaoAmbigua(situacao) {
		return situacao
	}
	switch {
	case *dias < 0:
		return "Vencido"
	case *dias <= config.AlertaDias():
		return fmt.Sprintf("Vence em %d dias", config.AlertaDias())
	case *dias <= config.AvisoDias():
		return fmt.Sprintf("Vence em %d dias", config.AvisoDias())
	default:
		return "Válido"
	}
}

func situacaoAmbigua(situacao string) bool {
	switch Normalize(situacao) {
	case "", "vencido", "vencida", "valido", "valida", "vigente", "ativo", "ativa":
		return true
	}
	return false
}
