package models

// Envelope coleção normalizada + metadados de paginação. Substitui o hábito
// do backend legado de pendurar total/page/size no próprio array.
type Envelope[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// NewEnvelope cria envelope sintetizando metadados a partir do slice quando
// o backend devolveu um array puro (total = len, página única).
func NewEnvelope[T any](items []T, total, page, size int) Envelope[T] {
	if items == nil {
		items = []T{}
	}
	if total <= 0 {
		total = len(items)
	}
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = len(items)
	}
	return Envelope[T]{Items: items, Total: total, Page: page, Size: size}
}

// Empty envelope vazio válido (usado na tolerância a 404 de listagens).
func Empty[T any]() Envelope[T] {
	return Envelope[T]{Items: []T{}, Total: 0, Page: 1, Size: 0}
}
