package main

import (
	"context"  // Context for ledger and Redis operations
	"net/http" // HTTP transport for the ledger client
	"os"       // Log file
	"time"     // Token lifetime

	tea "github.com/charmbracelet/bubbletea" // Terminal UI runtime
	"github.com/redis/go-redis/v9"           // Redis client for the theme store
	"github.com/sirupsen/logrus"             // Logrus for structured logging

	"wallet_console/internal/config"    // Custom package for configuration
	"wallet_console/internal/console"   // Console commands
	"wallet_console/internal/feedback"  // Notices and session log
	"wallet_console/internal/gateway"   // Ledger API client
	"wallet_console/internal/prefs"     // Theme preference
	"wallet_console/internal/transfer"  // Transfer form
	"wallet_console/internal/tui"       // Terminal front end
	"wallet_console/internal/viewstate" // View state cache
)

const tokenTTL = 15 * time.Minute // Lifetime of minted bearer tokens

// setupLogger sends logrus output to a file so it does not draw over the UI
func setupLogger(cfg *config.Config) *os.File {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl) // Level from LOG_LEVEL
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.Fatalf("failed to open log file: %v", err) // Fatal error if the log cannot be opened
	}
	logrus.SetOutput(f)
	return f
}

// themeStore picks the preference backend from THEME_STORE
func themeStore(ctx context.Context, cfg *config.Config) prefs.Store {
	if cfg.ThemeStore != "redis" {
		return prefs.NewFileStore(cfg.ThemeFile) // Local file by default
	}
	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	// Test Redis connection, fall back to the file store if it is down
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("Redis unavailable, using file theme store")
		return prefs.NewFileStore(cfg.ThemeFile)
	}
	return prefs.NewRedisStore(redisClient, prefs.DefaultRedisKey)
}

// Main function to wire the console and run the terminal UI
func main() {
	cfg := config.LoadConfig() // Load configuration
	logFile := setupLogger(cfg)
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := feedback.NewChannel(feedback.WithNoticeTiming(cfg.NoticeTTL, cfg.NoticeFade)) // Notices and session log

	// Ledger client; a JWT secret takes precedence over a static token
	opts := []gateway.Option{gateway.WithHTTPClient(&http.Client{Timeout: cfg.LedgerTimeout})}
	if cfg.LedgerJWTSecret != "" {
		opts = append(opts, gateway.WithJWT(cfg.ClientName, cfg.LedgerJWTSecret, tokenTTL))
	} else {
		opts = append(opts, gateway.WithBearerToken(cfg.LedgerToken))
	}
	client := gateway.New(cfg.LedgerBaseURL, channel, opts...)

	surfaces := tui.NewSurfaces(tui.TabUsers) // Which listings are on screen
	cache := viewstate.New(client, surfaces)  // View state
	ctrl := console.New(client, cache, channel, console.WithReloadDelay(cfg.WalletReloadDelay))
	orch := transfer.New(client, channel, transfer.WithBalanceRefresher(ctrl)) // Transfer form
	ctrl.UseTransferForm(orch)

	preferences := prefs.NewPreferences(themeStore(ctx, cfg))
	preferences.Load(ctx) // Saved theme, or dark

	model := tui.New(ctx, tui.Deps{
		Commands:  ctrl,        // Console commands
		Transfers: orch,        // Transfer form
		Views:     cache,       // View state
		Feedback:  channel,     // Notices and log
		Theme:     preferences, // Theme toggle
		Surfaces:  surfaces,    // Visible listings
	})

	logrus.WithField("ledger", cfg.LedgerBaseURL).Info("Console started") // Log start
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		logrus.Fatalf("console exited: %v", err)
	}
}
