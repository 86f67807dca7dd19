package services

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/empresa-normalizer/app/models"
)

// MemoryCacheService cache em memória com LRU, usado quando Redis/MongoDB não
// estão configurados (e como default em desenvolvimento)
type MemoryCacheService struct {
	cache *lru.Cache[string, *models.DocumentoListing]

	hits   int64
	misses int64
}

// NewMemoryCacheService cria o cache em memória com o tamanho dado
func NewMemoryCacheService(size int) (*MemoryCacheService, error) {
	cache, err := lru.New[string, *models.DocumentoListing](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCacheService{cache: cache}, nil
}

// Get busca a listagem pelo documento
func (mcs *MemoryCacheService) Get(ctx context.Context, key string) (*models.DocumentoListing, bool, error) {
	if listing, ok := mcs.cache.Get(key); ok {
		atomic.AddInt64(&mcs.hits, 1)
		return listing, true, nil
	}
	atomic.AddInt64(&mcs.misses, 1)
	return nil, false, nil
}

// Set grava a listagem resolvida
func (mcs *MemoryCacheService) Set(ctx context.Context, key string, listing *models.DocumentoListing) error {
	mcs.cache.Add(key, listing)
	return nil
}

// Delete remove a chave
func (mcs *MemoryCacheService) Delete(ctx context.Context, key string) error {
	mcs.cache.Remove(key)
	return nil
}

// Clear esvazia o cache
func (mcs *MemoryCacheService) Clear(ctx context.Context) error {
	mcs.cache.Purge()
	return nil
}

// GetStats estatísticas agregadas
func (mcs *MemoryCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits := atomic.LoadInt64(&mcs.hits)
	misses := atomic.LoadInt64(&mcs.misses)
	stats := &CacheStats{
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(mcs.cache.Len()),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats, nil
}

// Close no-op para cache em memória
func (mcs *MemoryCacheService) Close() error { return nil }
