package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ammark2003/Pizzeria-app/internal/cache"
	"github.com/Ammark2003/Pizzeria-app/internal/catalog"
	h "github.com/Ammark2003/Pizzeria-app/internal/http"
	"github.com/Ammark2003/Pizzeria-app/internal/reconciler"
	"github.com/Ammark2003/Pizzeria-app/internal/store"
	"github.com/Ammark2003/Pizzeria-app/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort          string
	MongoURI          string
	MongoDBName       string
	RedisAddr         string
	RedisPassword     string
	StoreDriver       string
	CartID            string
	CatalogDBPath     string
	CatalogMigrations string
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "pizzeriadb"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		StoreDriver:       getEnv("STORE_DRIVER", "mongo"),
		CartID:            getEnv("CART_ID", "default"),
		CatalogDBPath:     getEnv("CATALOG_DB_PATH", "pizzeria.db"),
		CatalogMigrations: getEnv("CATALOG_MIGRATIONS_PATH", "migrations/catalog"),
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	logger := telemetry.InitLogger()
	ctx := context.Background()

	// Catalog (read-only reference data)
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		logger.Error("failed to open catalog database", "error", err)
		os.Exit(1)
	}
	defer catalogRepo.Close()

	if err := catalogRepo.RunMigrations(cfg.CatalogMigrations); err != nil {
		logger.Error("failed to run catalog migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog ready", "path", cfg.CatalogDBPath)

	// Cart store
	var cartStore store.CartStore
	switch cfg.StoreDriver {
	case "memory":
		cartStore = store.NewMemoryStore()
		logger.Info("using in-memory cart store")
	default:
		mongoDB, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			logger.Error("failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer mongoDB.Client().Disconnect(ctx)

		mongoStore := store.NewMongoStore(mongoDB)
		if err := mongoStore.CreateIndexes(ctx); err != nil {
			logger.Error("failed to create cart indexes", "error", err)
			os.Exit(1)
		}
		cartStore = mongoStore
		logger.Info("connected to MongoDB", "uri", cfg.MongoURI)
	}
	cartStore = store.NewBreakerStore(cartStore, logger)

	// Snapshot cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("Redis connection failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Redis ping succeeded", "addr", cfg.RedisAddr)

	cartCache := cache.NewRedisCache(redisClient)

	rec := reconciler.New(cartStore, cartCache, cfg.CartID, logger)
	if _, err := rec.Resync(ctx); err != nil {
		// Not fatal: the index self-heals on the next successful read.
		logger.Warn("initial cart resync failed", "error", err)
	}

	menuHandler := h.NewMenuHandler(catalogRepo, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(catalogRepo, rec, cfg.RequestTimeout)
	router := h.NewRouter(menuHandler, cartHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("pizzeria server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}
