package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/empresa-normalizer/app/config"
	"github.com/empresa-normalizer/app/controllers"
	"github.com/empresa-normalizer/app/services"
	"github.com/empresa-normalizer/internal/backend"
	"github.com/empresa-normalizer/internal/search"
	"github.com/empresa-normalizer/routes"
)

func main() {
	// 1. Load configuration
	loadConfig()

	// 2. Inicializa o logger
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting Empresa Normalizer Service")

	// 3. Carrega limiares de negócio do yaml
	if err := config.Load(viper.GetString("config.limiares")); err != nil {
		logger.Warn("Config de limiares não carregada, usando defaults", zap.Error(err))
	}

	// 4. Cliente do backend legado
	backendURL := getEnv("BACKEND_URL", "http://localhost:8000")
	backendClient := backend.NewClient(backendURL, logger)
	logger.Info("Backend configurado", zap.String("url", backendURL))

	// 5. Meilisearch opcional para o filtro de busca de empresas
	var searcher *search.EmpresaSearcher
	if host := viper.GetString("meilisearch.url"); host != "" {
		searchConfig := search.SearchConfig{
			Host:      host,
			APIKey:    viper.GetString("meilisearch.master_key"),
			IndexName: "empresas",
			Timeout:   30 * time.Second,
			Limit:     50,
		}
		s, err := search.NewEmpresaSearcher(searchConfig, logger)
		if err != nil {
			logger.Warn("Meilisearch indisponível, busca degrada para filtro local", zap.Error(err))
		} else {
			searcher = s
		}
	}

	// 6. Cache de listagens de documentos
	cacheService := initCache(logger)
	defer cacheService.Close()

	// 7. Services
	recordService := services.NewRecordService(backendClient, searcher, logger)
	documentoService := services.NewDocumentoService(backendClient, cacheService, logger)

	// 8. Controllers
	recordsController := controllers.NewRecordsController(recordService, documentoService, logger)
	adminController := controllers.NewAdminController(recordService, documentoService, cacheService, logger)

	// 9. Gin router
	router := gin.New()

	// 10. Routes
	routes.SetupAllRoutes(router, recordsController, adminController)

	// 11. Inicia o servidor
	port := getEnv("APP_PORT", "8080")
	logger.Info("Empresa Normalizer Service starting", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// initCache monta a pilha de cache conforme CACHE_BACKEND:
// memory (default), redis, mongo ou hybrid (Redis L1 + MongoDB L2)
func initCache(logger *zap.Logger) services.ICacheService {
	backendKind := getEnv("CACHE_BACKEND", "memory")
	l1Size := getEnvInt("L1_CACHE_SIZE", config.L1Size())

	switch backendKind {
	case "redis":
		redisCache, err := services.NewRedisCacheService(getEnv("REDIS_URL", "redis://localhost:6379"), logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis cache", zap.Error(err))
		}
		return redisCache

	case "mongo":
		mongoCache, err := services.NewMongoCacheService(initMongoDB(logger), l1Size, logger)
		if err != nil {
			logger.Fatal("Failed to initialize MongoDB cache", zap.Error(err))
		}
		warmUp(mongoCache, l1Size, logger)
		return mongoCache

	case "hybrid":
		redisCache, err := services.NewRedisCacheService(getEnv("REDIS_URL", "redis://localhost:6379"), logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis cache", zap.Error(err))
		}
		mongoCache, err := services.NewMongoCacheService(initMongoDB(logger), l1Size, logger)
		if err != nil {
			logger.Fatal("Failed to initialize MongoDB cache", zap.Error(err))
		}
		warmUp(mongoCache, l1Size, logger)
		return services.NewHybridCacheService(redisCache, mongoCache, logger)

	default:
		memCache, err := services.NewMemoryCacheService(l1Size)
		if err != nil {
			logger.Fatal("Failed to initialize memory cache", zap.Error(err))
		}
		return memCache
	}
}

// warmUp pré-carrega o L1 com as chaves mais acessadas
func warmUp(mongoCache *services.MongoCacheService, l1Size int, logger *zap.Logger) {
	if err := mongoCache.WarmUp(context.Background(), l1Size/2); err != nil {
		logger.Warn("Failed to warm up cache", zap.Error(err))
	}
}

// loadConfig load configuration do arquivo e env vars
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	// Set defaults
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("config.limiares", "./config/limiares.yaml")
	viper.SetDefault("meilisearch.url", "")
	viper.SetDefault("meilisearch.master_key", "")
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/empresa_normalizer")
	viper.SetDefault("cache.l1_size", 10000)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}
}

// initLogger inicializa o structured logger
func initLogger() *zap.Logger {
	env := getEnv("APP_ENV", "development")

	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}

	return logger
}

// initMongoDB inicializa a conexão MongoDB
func initMongoDB(logger *zap.Logger) *mongo.Database {
	mongoURL := getEnv("MONGO_URL", viper.GetString("mongo.url"))

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	dbName := "empresa_normalizer"
	clientOpts := options.Client().ApplyURI(mongoURL)
	if clientOpts.Auth != nil && clientOpts.Auth.AuthSource != "" {
		dbName = clientOpts.Auth.AuthSource
	}

	db := client.Database(dbName)
	logger.Info("Connected to MongoDB", zap.String("database", dbName))

	return db
}

// getEnv lê environment variable com default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt lê environment variable como int com default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
