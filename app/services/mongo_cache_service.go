package services

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/models"
)

// MongoCacheService cache persistente (L2) de listagens de documentos em
// MongoDB com LRU em memória na frente
type MongoCacheService struct {
	db         *mongo.Database
	collection *mongo.Collection
	l1Cache    *lru.Cache[string, *models.DocumentoListing]
	logger     *zap.Logger

	totalHits int64
	totalMiss int64
}

// NewMongoCacheService cria o cache Mongo e os índices da coleção
func NewMongoCacheService(db *mongo.Database, l1Size int, logger *zap.Logger) (*MongoCacheService, error) {
	l1Cache, err := lru.New[string, *models.DocumentoListing](l1Size)
	if err != nil {
		return nil, fmt.Errorf("não foi possível criar o cache LRU: %w", err)
	}

	collection := db.Collection("documento_cache")

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "fingerprint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "documento", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "last_accessed", Value: 1}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("não foi possível criar índices de documento_cache", zap.Error(err))
	}

	return &MongoCacheService{
		db:         db,
		collection: collection,
		l1Cache:    l1Cache,
		logger:     logger,
	}, nil
}

// Get busca a listagem (L1 → MongoDB)
func (mcs *MongoCacheService) Get(ctx context.Context, key string) (*models.DocumentoListing, bool, error) {
	if listing, found := mcs.l1Cache.Get(key); found {
		atomic.AddInt64(&mcs.totalHits, 1)
		return listing, true, nil
	}

	var entry models.DocumentoCache
	filter := bson.M{"fingerprint": mcs.fingerprint(key)}

	err := mcs.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			atomic.AddInt64(&mcs.totalMiss, 1)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("erro ao consultar documento_cache: %w", err)
	}

	atomic.AddInt64(&mcs.totalHits, 1)
	go mcs.updateAccessStats(entry.ID)
	mcs.l1Cache.Add(key, &entry.Listing)

	return &entry.Listing, true, nil
}

// Set grava a listagem (L1 + MongoDB, upsert por fingerprint)
func (mcs *MongoCacheService) Set(ctx context.Context, key string, listing *models.DocumentoListing) error {
	mcs.l1Cache.Add(key, listing)

	fingerprint := mcs.fingerprint(key)
	agora := time.Now()

	update := bson.M{
		"$set": bson.M{
			"fingerprint":   fingerprint,
			"documento":     key,
			"listing":       listing,
			"last_accessed": agora,
		},
		"$setOnInsert": bson.M{"created_at": agora},
		"$inc":         bson.M{"access_count": int64(1)},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := mcs.collection.UpdateOne(ctx, bson.M{"fingerprint": fingerprint}, update, opts); err != nil {
		return fmt.Errorf("erro ao gravar em documento_cache: %w", err)
	}
	return nil
}

// Delete remove a chave dos dois níveis
func (mcs *MongoCacheService) Delete(ctx context.Context, key string) error {
	mcs.l1Cache.Remove(key)
	if _, err := mcs.collection.DeleteOne(ctx, bson.M{"fingerprint": mcs.fingerprint(key)}); err != nil {
		return fmt.Errorf("erro ao remover de documento_cache: %w", err)
	}
	return nil
}

// Clear esvazia L1 e a coleção
func (mcs *MongoCacheService) Clear(ctx context.Context) error {
	mcs.l1Cache.Purge()
	if _, err := mcs.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("erro ao limpar documento_cache: %w", err)
	}
	mcs.logger.Info("cache MongoDB limpo")
	return nil
}

// GetStats estatísticas agregadas
func (mcs *MongoCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	count, err := mcs.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	hits := atomic.LoadInt64(&mcs.totalHits)
	misses := atomic.LoadInt64(&mcs.totalMiss)
	stats := &CacheStats{
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: count,
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats, nil
}

// WarmUp carrega as entradas mais acessadas para o L1
func (mcs *MongoCacheService) WarmUp(ctx context.Context, limit int) error {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "access_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := mcs.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("erro no warm-up do cache: %w", err)
	}
	defer cursor.Close(ctx)

	carregadas := 0
	for cursor.Next(ctx) {
		var entry models.DocumentoCache
		if err := cursor.Decode(&entry); err != nil {
			continue
		}
		listing := entry.Listing
		mcs.l1Cache.Add(entry.Documento, &listing)
		carregadas++
	}

	mcs.logger.Info("warm-up do cache concluído", zap.Int("entradas", carregadas))
	return nil
}

// Close não fecha o *mongo.Database (propriedade do bootstrap)
func (mcs *MongoCacheService) Close() error { return nil }

func (mcs *MongoCacheService) fingerprint(key string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

func (mcs *MongoCacheService) updateAccessStats(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"last_accessed": time.Now()},
		"$inc": bson.M{"access_count": int64(1)},
	}
	if _, err := mcs.collection.UpdateByID(ctx, id, update); err != nil {
		mcs.logger.Debug("erro ao atualizar estatísticas de acesso", zap.Error(err))
	}
}
