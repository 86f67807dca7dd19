package models

// Empresa registro de empresa totalmente populado após normalização
type Empresa struct {
	ID           int64          `json:"id"`
	CNPJ         string         `json:"cnpj"`
	RazaoSocial  string         `json:"razao_social"`
	NomeFantasia string         `json:"nome_fantasia"`
	Responsavel  string         `json:"responsavel"`
	Municipio    string         `json:"municipio"`
	Status       string         `json:"status"`
	Categoria    StatusCategory `json:"categoria"`
	Alerta       bool           `json:"alerta"`

	// Enriquecimento via IdentityMatcher (certificado digital vinculado)
	CertificadoSituacao string `json:"certificado_situacao,omitempty"`
	CertificadoValidade string `json:"certificado_validade,omitempty"`
	CertificadoDias     *int   `json:"certificado_dias_restantes,omitempty"`
}

// Licenca registro de licença normalizado
type Licenca struct {
	ID            int64          `json:"id"`
	EmpresaID     int64          `json:"empresa_id"`
	Empresa       string         `json:"empresa"`
	Tipo          string         `json:"tipo"`
	Status        string         `json:"status"`
	Obs           string         `json:"obs"`
	Validade      string         `json:"validade,omitempty"` // DD/MM/YYYY
	DiasRestantes *int           `json:"dias_restantes"`
	Categoria     StatusCategory `json:"categoria"`
	Alerta        bool           `json:"alerta"`
}

// Certificado registro de certificado digital normalizado
type Certificado struct {
	ID            int64          `json:"id"`
	EmpresaID     *int64         `json:"empresa_id,omitempty"`
	Titular       string         `json:"titular"`
	Documento     string         `json:"documento"`
	Senha         string         `json:"senha,omitempty"`
	Validade      string         `json:"validade,omitempty"` // DD/MM/YYYY
	DiasRestantes *int           `json:"dias_restantes"`
	Situacao      string         `json:"situacao"`
	Categoria     StatusCategory `json:"categoria"`
	Alerta        bool           `json:"alerta"`
}

// Alerta registro de alerta com campos coagidos para chaves estáveis de lista
type Alerta struct {
	ID        string         `json:"id"`
	EmpresaID int64          `json:"empresa_id"`
	Empresa   string         `json:"empresa"`
	Tipo      string         `json:"tipo"`
	Mensagem  string         `json:"mensagem"`
	Data      string         `json:"data,omitempty"`
	Categoria StatusCategory `json:"categoria"`
}
