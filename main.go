package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/AnnaCarter465/cargo-calc/calc"
	"github.com/AnnaCarter465/cargo-calc/config"
	"github.com/AnnaCarter465/cargo-calc/database"
	"github.com/AnnaCarter465/cargo-calc/fixed"
	"github.com/AnnaCarter465/cargo-calc/handler"
	"github.com/AnnaCarter465/cargo-calc/ledger"
	"github.com/AnnaCarter465/cargo-calc/logger"
	"github.com/AnnaCarter465/cargo-calc/tax"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type stores struct {
	history ledger.Store
	fixed   fixed.Store
	db      handler.Pinger
}

func newServer(s stores, log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	vl := handler.NewValidator()
	calculator := calc.NewCalculator(tax.DefaultBrackets)

	health := handler.NewHealthHandler(s.db, log)
	calculations := handler.NewCalculationHandler(vl, calculator)
	history := handler.NewHistoryHandler(vl, calculator, ledger.New(s.history, log), log)
	fixedExpenses := handler.NewFixedExpenseHandler(vl, fixed.NewRegistry(s.fixed), log)

	e.GET("/health", health.Healthcheck)

	e.POST("/calculations", calculations.Calculate)
	e.POST("/calculations/csv", calculations.CalculateWithCSV)

	e.POST("/history", history.Save)
	e.GET("/history", history.List)
	e.GET("/history/export.csv", history.Export)
	e.GET("/history/:index", history.Get)
	e.DELETE("/history/:index", history.Delete)
	e.DELETE("/history", history.Clear)

	e.GET("/fixed-expenses", fixedExpenses.List)
	e.POST("/fixed-expenses", fixedExpenses.Add)
	e.DELETE("/fixed-expenses/:id", fixedExpenses.Delete)
	e.POST("/fixed-expenses/:id/promote", fixedExpenses.Promote)

	return e
}

func openStores(cfg *config.Config, log *zap.Logger) (stores, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, history is lost on restart")
		return stores{history: ledger.NewMemoryStore(), fixed: fixed.NewMemoryStore()}, func() {}, nil
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			return stores{}, nil, err
		}
	}

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, err
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}

	return stores{history: database.NewHistoryStore(db), fixed: db, db: db}, closeDB, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := tax.ValidateBrackets(tax.DefaultBrackets); err != nil {
		log.Fatal("invalid income tax brackets", zap.Error(err))
	}

	s, closeStores, err := openStores(cfg, log)
	if err != nil {
		log.Fatal("Cannot connection to database", zap.Error(err))
	}
	defer closeStores()

	e := newServer(s, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown

	log.Info("shutting down the server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("shutdown failed", zap.Error(err))
	}
}
