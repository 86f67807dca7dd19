package services

import (
	"context"

	"github.com/empresa-normalizer/app/models"
)

// CacheStats estatísticas do cache de listagens de documentos
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService contrato do cache de listagens de documentos, chaveado por
// documento normalizado (apenas dígitos). Sem invalidação por timer: entradas
// saem por Delete explícito após uma escrita bem-sucedida.
type ICacheService interface {
	// Get busca a listagem pelo documento
	Get(ctx context.Context, key string) (*models.DocumentoListing, bool, error)

	// Set grava a listagem resolvida
	Set(ctx context.Context, key string, listing *models.DocumentoListing) error

	// Delete remove a chave (refresh forçado pós-emissão)
	Delete(ctx context.Context, key string) error

	// Clear esvazia o cache
	Clear(ctx context.Context) error

	// GetStats estatísticas agregadas
	GetStats(ctx context.Context) (*CacheStats, error)

	// Close encerra conexões quando aplicável
	Close() error
}
