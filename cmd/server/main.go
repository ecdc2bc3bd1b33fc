package main

import (
	"log"

	"route-ledger/internal/auth"
	"route-ledger/internal/config"
	"route-ledger/internal/database"
	"route-ledger/internal/ledger"
	"route-ledger/internal/logger"
	"route-ledger/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zaplog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("[FATAL] LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	defer zaplog.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		zaplog.Fatal("database unavailable", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zaplog.Fatal("migration failed", zap.Error(err))
	}
	if err := auth.EnsureAdmin(db, cfg.AdminEmail, cfg.AdminPassword, zaplog); err != nil {
		zaplog.Fatal("admin bootstrap failed", zap.Error(err))
	}

	l := ledger.New(db,
		ledger.WithLogger(zaplog.Named("ledger")),
		ledger.WithLocation(cfg.Location()),
		ledger.WithMaxRetries(cfg.TxMaxRetries),
	)

	app := server.NewApp(server.Deps{
		Config: cfg,
		DB:     db,
		Ledger: l,
		Log:    zaplog,
	})

	zaplog.Info("server listening", zap.String("port", cfg.HTTPPort), zap.String("timezone", cfg.Timezone))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zaplog.Fatal("server stopped", zap.Error(err))
	}
}
