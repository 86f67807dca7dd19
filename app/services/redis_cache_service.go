package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/config"
	"github.com/empresa-normalizer/app/models"
)

// RedisCacheService cache de listagens de documentos em Redis (L1 do híbrido)
type RedisCacheService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	hits   int64
	misses int64
}

// NewRedisCacheService cria o cache Redis e testa a conexão
func NewRedisCacheService(redisURL string, logger *zap.Logger) (*RedisCacheService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("erro ao interpretar a URL do Redis: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("não foi possível conectar ao Redis: %w", err)
	}

	return &RedisCacheService{
		client: client,
		logger: logger,
		prefix: "doc_listing:",
		ttl:    config.CacheTTL(),
	}, nil
}

// Get busca a listagem pelo documento
func (rcs *RedisCacheService) Get(ctx context.Context, key string) (*models.DocumentoListing, bool, error) {
	cacheKey := rcs.prefix + key

	val, err := rcs.client.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		atomic.AddInt64(&rcs.misses, 1)
		return nil, false, nil
	}
	if err != nil {
		rcs.logger.Error("erro ao ler do Redis", zap.Error(err), zap.String("key", cacheKey))
		return nil, false, err
	}

	var listing models.DocumentoListing
	if err := json.Unmarshal([]byte(val), &listing); err != nil {
		rcs.logger.Error("erro ao decodificar entrada do cache", zap.Error(err))
		return nil, false, err
	}

	atomic.AddInt64(&rcs.hits, 1)
	rcs.logger.Debug("Redis cache hit", zap.String("key", key))
	return &listing, true, nil
}

// Set grava a listagem resolvida
func (rcs *RedisCacheService) Set(ctx context.Context, key string, listing *models.DocumentoListing) error {
	cacheKey := rcs.prefix + key

	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("erro ao codificar entrada do cache: %w", err)
	}

	if err := rcs.client.Set(ctx, cacheKey, data, rcs.ttl).Err(); err != nil {
		rcs.logger.Error("erro ao gravar no Redis", zap.Error(err), zap.String("key", cacheKey))
		return err
	}
	return nil
}

// Delete remove a chave
func (rcs *RedisCacheService) Delete(ctx context.Context, key string) error {
	if err := rcs.client.Del(ctx, rcs.prefix+key).Err(); err != nil {
		rcs.logger.Error("erro ao remover do Redis", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

// Clear remove todas as chaves com o prefixo do serviço
func (rcs *RedisCacheService) Clear(ctx context.Context) error {
	keys, err := rcs.client.Keys(ctx, rcs.prefix+"*").Result()
	if err != nil {
		return fmt.Errorf("erro ao listar chaves: %w", err)
	}
	if len(keys) > 0 {
		if err := rcs.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("erro ao limpar cache: %w", err)
		}
	}
	rcs.logger.Info("cache Redis limpo", zap.Int("chaves", len(keys)))
	return nil
}

// GetStats estatísticas agregadas
func (rcs *RedisCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	keys, err := rcs.client.Keys(ctx, rcs.prefix+"*").Result()
	if err != nil {
		return nil, err
	}

	hits := atomic.LoadInt64(&rcs.hits)
	misses := atomic.LoadInt64(&rcs.misses)
	stats := &CacheStats{
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(len(keys)),
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats, nil
}

// Close encerra a conexão com o Redis
func (rcs *RedisCacheService) Close() error {
	return rcs.client.Close()
}
