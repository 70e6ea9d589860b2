package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	httpadp "p2p-lending-backend/internal/adapter/http"
	"p2p-lending-backend/internal/adapter/middleware"
	"p2p-lending-backend/internal/adapter/repository/mysql"
	"p2p-lending-backend/internal/config"
	"p2p-lending-backend/internal/domain/events"
	"p2p-lending-backend/internal/infrastructure/cache"
	"p2p-lending-backend/internal/infrastructure/db"
	natsevents "p2p-lending-backend/internal/infrastructure/events"
	"p2p-lending-backend/internal/infrastructure/logging"
	"p2p-lending-backend/internal/infrastructure/rates"
	"p2p-lending-backend/internal/usecase/ledger"
	"p2p-lending-backend/internal/usecase/loan"
	"p2p-lending-backend/internal/usecase/marketplace"
	"p2p-lending-backend/internal/usecase/stats"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gdb, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Fatal("open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		logger.Fatal("open redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	var pub events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		nc, err := natsevents.Connect(cfg.NATSURL, logger)
		if err != nil {
			logger.Fatal("connect nats", zap.Error(err))
		}
		defer nc.Close()
		pub = nc
	} else {
		logger.Info("NATS_URL empty, domain events disabled")
	}

	rateProvider := rates.NewRedisCached(rdb, rates.Fixed{Rate: cfg.BTCUSDRate}, cfg.RateCacheTTL, logger)

	loans := mysql.NewLoanRepository(gdb)
	entries := mysql.NewTransactionRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	ledgerUC := ledger.NewUsecase(loans, entries, tx, rateProvider, pub, logger)
	handlers := httpadp.Handlers{
		Health:      httpadp.NewHandler(),
		Loans:       httpadp.NewLoanHandler(loan.NewUsecase(loans, entries, tx, rateProvider, pub, logger), logger),
		Marketplace: httpadp.NewMarketplaceHandler(marketplace.NewUsecase(tx, ledgerUC, pub, logger), logger),
		Ledger:      httpadp.NewLedgerHandler(ledgerUC, stats.NewUsecase(loans, entries), logger),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.PanicRecovery(logger), middleware.RequestLogger(logger))

	api := e.Group("/api",
		middleware.CallerIdentity(),
		middleware.IdempotencyMiddleware(rdb, cfg.IdempTTL(), logger),
	)
	handlers.Register(e, api)

	addr := ":" + cfg.AppPort
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Error("close redis", zap.Error(err))
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
