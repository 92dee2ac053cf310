package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	invapp "github.com/imaps/backend/internal/application/inventory"
	partnerapp "github.com/imaps/backend/internal/application/partner"
	"github.com/imaps/backend/internal/domain/inventory"
	"github.com/imaps/backend/internal/infrastructure/auth"
	"github.com/imaps/backend/internal/infrastructure/cache"
	"github.com/imaps/backend/internal/infrastructure/config"
	"github.com/imaps/backend/internal/infrastructure/logger"
	"github.com/imaps/backend/internal/infrastructure/persistence"
	"github.com/imaps/backend/internal/interfaces/http/handler"
	"github.com/imaps/backend/internal/interfaces/http/middleware"
	"github.com/imaps/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewFromSettings(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting IMAPS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	usageRepo := persistence.NewGormUsageRecordRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Report cache: Redis when enabled, in-memory otherwise
	cacheFactory := cache.NewReportCacheFactory(cfg.Redis, cache.WithLogger(log))
	reportCache, err := cacheFactory.Create()
	if err != nil {
		log.Fatal("Failed to initialize report cache", zap.Error(err))
	}
	defer func() {
		if closer, ok := reportCache.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Error("Error closing report cache", zap.Error(err))
			}
		}
	}()

	// Application services
	thresholds := inventory.StatusThresholds{
		ExpiryWindowDays: cfg.Inventory.ExpiryWindowDays,
		LowQuantityUnits: decimal.NewFromInt(int64(cfg.Inventory.LowQuantityUnits)),
		LowPercent:       decimal.NewFromInt(int64(cfg.Inventory.LowPercent)),
	}
	codeGen := inventory.NewBatchCodeGenerator()

	supplierService := partnerapp.NewSupplierService(supplierRepo)

	batchService := invapp.NewBatchService(txScope, batchRepo, supplierRepo, reportRepo, codeGen)
	batchService.SetStatusThresholds(thresholds)
	batchService.SetCodeRetryLimit(cfg.Auth.CodeRetryLimit)
	batchService.SetReportCache(reportCache)

	usageService := invapp.NewUsageService(txScope, usageRepo, codeGen)
	usageService.SetStatusThresholds(thresholds)
	usageService.SetCodeRetryLimit(cfg.Auth.CodeRetryLimit)
	usageService.SetReportCache(reportCache)

	reportService := invapp.NewReportService(reportRepo)
	reportService.SetCache(reportCache, cfg.Cache.ReportTTL)

	// Admin guard for mutating endpoints
	authorizer := auth.NewSharedSecretAuthorizer(cfg.Auth.AdminSecret)
	adminGuard := middleware.AdminGuard(authorizer)
	if cfg.Auth.AdminSecret == "" {
		log.Warn("Admin secret not configured; update and delete endpoints will reject all requests")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID first so recovery and the request
	// logger can both tag their output with it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(db)
	systemHandler.RegisterProbes(engine)

	router.NewRouter(engine).
		Register(handler.NewSupplierHandler(supplierService, adminGuard)).
		Register(handler.NewBatchHandler(batchService, adminGuard)).
		Register(handler.NewUsageHandler(usageService, adminGuard)).
		Register(handler.NewReportHandler(reportService)).
		Register(systemHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
