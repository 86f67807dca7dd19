package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/models"
)

// HybridCacheService combina Redis (L1, rápido) com MongoDB (L2, persistente)
type HybridCacheService struct {
	redisCache *RedisCacheService
	mongoCache *MongoCacheService
	logger     *zap.Logger
}

// NewHybridCacheService cria o cache híbrido
func NewHybridCacheService(redisCache *RedisCacheService, mongoCache *MongoCacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{
		redisCache: redisCache,
		mongoCache: mongoCache,
		logger:     logger,
	}
}

// Get Redis primeiro; em miss consulta o MongoDB e ressincroniza o L1
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.DocumentoListing, bool, error) {
	listing, found, err := hcs.redisCache.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("erro no Redis, recuando para MongoDB", zap.Error(err))
	} else if found {
		return listing, true, nil
	}

	listing, found, err = hcs.mongoCache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hcs.redisCache.Set(bgCtx, key, listing); err != nil {
			hcs.logger.Warn("erro ao sincronizar MongoDB→Redis", zap.Error(err), zap.String("key", key))
		}
	}()

	return listing, true, nil
}

// Set grava nos dois níveis em paralelo
func (hcs *HybridCacheService) Set(ctx context.Context, key string, listing *models.DocumentoListing) error {
	return hcs.emParalelo(
		func() error { return hcs.redisCache.Set(ctx, key, listing) },
		func() error { return hcs.mongoCache.Set(ctx, key, listing) },
	)
}

// Delete remove dos dois níveis
func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	return hcs.emParalelo(
		func() error { return hcs.redisCache.Delete(ctx, key) },
		func() error { return hcs.mongoCache.Delete(ctx, key) },
	)
}

// Clear esvazia os dois níveis
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	return hcs.emParalelo(
		func() error { return hcs.redisCache.Clear(ctx) },
		func() error { return hcs.mongoCache.Clear(ctx) },
	)
}

// GetStats combina estatísticas dos dois níveis
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	redisStats, redisErr := hcs.redisCache.GetStats(ctx)
	mongoStats, mongoErr := hcs.mongoCache.GetStats(ctx)

	if redisErr != nil && mongoErr != nil {
		return nil, fmt.Errorf("Redis e MongoDB indisponíveis: %v, %v", redisErr, mongoErr)
	}
	if redisErr != nil {
		return mongoStats, nil
	}
	if mongoErr != nil {
		return redisStats, nil
	}

	combined := &CacheStats{
		TotalHits:  redisStats.TotalHits + mongoStats.TotalHits,
		TotalMiss:  redisStats.TotalMiss + mongoStats.TotalMiss,
		TotalItems: redisStats.TotalItems + mongoStats.TotalItems,
	}
	if total := combined.TotalHits + combined.TotalMiss; total > 0 {
		combined.HitRate = float64(combined.TotalHits) / float64(total)
	}
	return combined, nil
}

// Close encerra os dois níveis
func (hcs *HybridCacheService) Close() error {
	return hcs.emParalelo(hcs.redisCache.Close, hcs.mongoCache.Close)
}

func (hcs *HybridCacheService) emParalelo(fns ...func() error) error {
	errCh := make(chan error, len(fns))
	for _, fn := range fns {
		go func(f func() error) { errCh <- f() }(fn)
	}

	var errs []error
	for range fns {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("erros de cache: %v", errs)
	}
	return nil
}
