package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/storefront-api/internal/config"
	"github.com/iliyamo/storefront-api/internal/database"
	"github.com/iliyamo/storefront-api/internal/handler"
	"github.com/iliyamo/storefront-api/internal/middleware"
	"github.com/iliyamo/storefront-api/internal/queue"
	"github.com/iliyamo/storefront-api/internal/repository"
	"github.com/iliyamo/storefront-api/internal/router"
	"github.com/iliyamo/storefront-api/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real environments set vars directly

	zl, _ := zap.NewProduction()
	defer func() { _ = zl.Sync() }()
	logger := zl.Sugar()

	cfg := config.Load()

	db, client, err := database.Connect(cfg.MongoURI, cfg.MongoDB, logger)
	if err != nil {
		logger.Fatalw("database connect failed", "err", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Fatalw("index bootstrap failed", "err", err)
		}
	}

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	skus := service.NewSKUGenerator(products, cfg.SKUMaxAttempts)
	events := service.NewPublisher(logger)

	userHandler := handler.NewUserHandler(cfg, users)
	productHandler := handler.NewProductHandler(cfg, users, products, skus, events)

	// Catalog event audit trail; keeps retrying the broker in the
	// background and never blocks request serving.
	go queue.StartCatalogConsumer(logger)

	cache := middleware.ResponseCache(config.LoadCacheConfig(), config.NewRedisClient())

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterUsers(e, userHandler)
	router.RegisterCatalog(e, productHandler, cfg.AccessSecret, users, cache)

	addr := ":" + cfg.Port
	logger.Infow("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		logger.Fatalw("server stopped", "err", err)
	}
}
