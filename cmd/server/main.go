package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/sttmarket/backend/api/handler"
	"github.com/sttmarket/backend/domain"
	"github.com/sttmarket/backend/internal/config"
	"github.com/sttmarket/backend/internal/infrastructure/monitor"
	pgInfra "github.com/sttmarket/backend/internal/infrastructure/postgres"
	redisInfra "github.com/sttmarket/backend/internal/infrastructure/redis"
	"github.com/sttmarket/backend/internal/middleware"
	"github.com/sttmarket/backend/internal/router"
	"github.com/sttmarket/backend/internal/services"
	"github.com/sttmarket/backend/internal/services/lifecycle"
	"github.com/sttmarket/backend/pkg/httpcontext"
	"github.com/sttmarket/backend/pkg/ident"
	"github.com/sttmarket/backend/pkg/logger"
	"github.com/sttmarket/backend/repository"
	bboltRepo "github.com/sttmarket/backend/repository/bbolt"
	"github.com/sttmarket/backend/repository/postgres"
	redisRepo "github.com/sttmarket/backend/repository/redis"
	authUC "github.com/sttmarket/backend/usecase/auth"
	catalogUC "github.com/sttmarket/backend/usecase/catalog"
	"github.com/sttmarket/backend/usecase/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	var kv repository.KVStore
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		redisClient, err := redisInfra.NewClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		kv = redisRepo.NewKVStore(redisClient, cfg.Storage.KeyPrefix)
	default:
		boltStore, err := bboltRepo.Open(cfg.Storage.BoltPath, "merchant")
		if err != nil {
			zapLogger.Fatal("failed to open storage substrate", zap.Error(err))
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return boltStore.Close()
		})
		kv = boltStore
	}

	var storagePinger monitor.Pinger
	if pinger, ok := kv.(monitor.Pinger); ok {
		storagePinger = pinger
	}
	mon := monitor.New(pool, storagePinger, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	store := session.New(kv, ident.New(), zapLogger)
	initCtx, initCancel := context.WithTimeout(appCtx, 10*time.Second)
	if err := store.Initialize(initCtx); err != nil {
		initCancel()
		zapLogger.Fatal("session store initialization failed", zap.Error(err))
	}
	initCancel()

	tokens := authUC.New(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, cfg.JWT.AdminEmails, zapLogger)

	catalogRepo := postgres.NewCatalogRepository(pool)
	catalogUseCase := catalogUC.New(catalogRepo, zapLogger)

	if cfg.Sync.Enabled {
		catalogSync, err := services.NewCatalogSync(kv, catalogRepo, mon, zapLogger, services.SyncConfig{
			Interval: cfg.Sync.Interval,
		})
		if err != nil {
			zapLogger.Fatal("catalog sync setup failed", zap.Error(err))
		}
		catalogSync.Start()
		manager.Register("catalog_sync", func(ctx context.Context) error {
			catalogSync.Stop(ctx)
			return nil
		})
	}

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:     apiHandler.NewAuthHandler(store, tokens, ctxAdapter, zapLogger),
		Merchant: apiHandler.NewMerchantHandler(store, ctxAdapter, zapLogger),
		Venue:    apiHandler.NewVenueHandler(store, ctxAdapter, zapLogger),
		Event:    apiHandler.NewEventHandler(store, ctxAdapter, zapLogger),
		Catalog:  apiHandler.NewCatalogHandler(catalogUseCase, ctxAdapter, zapLogger),
		Admin:    apiHandler.NewAdminHandler(catalogUseCase, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Auth(tokens, zapLogger)
	superAdmin := middleware.RequireRole(domain.RoleSuperAdmin, zapLogger)
	r := router.New(handlers, authMiddleware, superAdmin)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
