package main

import (
	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging

	"wallet_console/internal/config"     // Custom package for configuration
	"wallet_console/internal/ledgerfake" // Dev ledger
)

// Main function to set up and run the dev ledger
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl) // Level from LOG_LEVEL
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := []ledgerfake.Option{ledgerfake.WithJWTSecret(cfg.LedgerJWTSecret)} // JWT protected when a secret is configured
	// Use MySQL when a DSN is configured, otherwise an in-memory database
	if cfg.DevLedgerDSN != "" {
		db, err := ledgerfake.OpenMySQL(cfg.DevLedgerDSN)
		if err != nil {
			logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
		}
		opts = append(opts, ledgerfake.WithDB(db))
		logrus.Info("Dev ledger using MySQL") // Log storage backend
	}

	srv, err := ledgerfake.New(opts...) // Migrate and build routes
	if err != nil {
		logrus.Fatalf("dev ledger setup failed: %v", err) // Log fatal error if migration fails
	}
	defer srv.Close()

	logrus.Info("Dev ledger running on " + cfg.DevLedgerPort) // Log server start
	if err := srv.Run(":" + cfg.DevLedgerPort); err != nil {
		logrus.Fatalf("dev ledger stopped: %v", err) // Fatal error if the listener fails
	}
}
