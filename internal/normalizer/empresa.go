package normalizer

import (
	"github.com/empresa-normalizer/app/models"
)

// NormalizeEmpresa transforma o payload bruto de empresa num registro
// totalmente populado. Identidade inteira: primeiro campo com número finito
// vence; nome do responsável recebe Title Case preservando conectivos.
func NormalizeEmpresa(raw models.RawRecord) models.Empresa {
	id, _ := raw.Int64("id", "empresa_id", "empresaId", "codigo")

	status := raw.String("status", "situacao", "status_geral", "statusGeral")
	cls := Classify(status)

	return models.Empresa{
		ID:           id,
		CNPJ:         raw.String("cnpj", "cpf_cnpj", "cpfCnpj", "documento"),
		RazaoSocial:  raw.String("razao_social", "razaoSocial", "nome", "name"),
		NomeFantasia: raw.String("nome_fantasia", "nomeFantasia", "fantasia"),
		Responsavel:  TitleCaseNome(raw.String("responsavel", "nome_responsavel", "nomeResponsavel")),
		Municipio:    raw.String("municipio", "cidade"),
		Status:       cls.Texto,
		Categoria:    cls.Categoria,
		Alerta:       cls.Alerta,
	}
}

// AttachCertificado enriquece a empresa com o certificado vinculado pelo
// IdentityMatcher. Ausência de certificado é a situação default, não erro.
func AttachCertificado(e *models.Empresa, c *models.Certificado) {
	if e == nil || c == nil {
		return
	}
	e.CertificadoSituacao = c.Situacao
	e.CertificadoValidade = c.Validade
	e.CertificadoDias = c.DiasRestantes
}
