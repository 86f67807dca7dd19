package requests

// ListOptions parâmetros de listagem aceitos por todos os recursos
type ListOptions struct {
	Page           int    `form:"page" json:"page"`
	Size           int    `form:"size" json:"size"`
	Busca          string `form:"busca" json:"busca"`
	SomenteAlertas bool   `form:"somente_alertas" json:"somente_alertas"`
}

// VocabularioRequest palavras novas a validar contra o vocabulário existente
type VocabularioRequest struct {
	Palavras []string `json:"palavras" binding:"required"`
}

// InvalidateCacheRequest chave de documento a invalidar
type InvalidateCacheRequest struct {
	Documento string `json:"documento"`
}
