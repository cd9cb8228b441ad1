package config

import (
	"os"            // For environment variables
	"path/filepath" // For the default theme file location
	"strconv"       // For string to int conversion
	"time"          // For duration settings

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	LedgerBaseURL     string        // Base path of the ledger API
	LedgerTimeout     time.Duration // Transport timeout for ledger calls
	LedgerToken       string        // Static bearer token
	LedgerJWTSecret   string        // Secret for minting bearer tokens
	ClientName        string        // JWT subject identifying this client
	NoticeTTL         time.Duration // How long a notice stays before fading
	NoticeFade        time.Duration // Fade duration before a notice is removed
	WalletReloadDelay time.Duration // Delay before reloading wallets after create
	ThemeStore        string        // "file" or "redis"
	ThemeFile         string        // Theme file path for the file store
	RedisAddr         string        // Redis server address
	RedisPass         string        // Redis password
	RedisDB           int           // Redis database number
	LogLevel          string        // Logrus level
	LogFile           string        // Client log destination
	DevLedgerPort     string        // Dev ledger listen port
	DevLedgerDSN      string        // MySQL DSN for the dev ledger; empty keeps it in memory
	IsProd            bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		LedgerBaseURL:     getEnv("LEDGER_BASE_URL", "http://localhost:8000/api/v1"), // Ledger API base
		LedgerTimeout:     getDuration("LEDGER_TIMEOUT", 30*time.Second),             // Transport timeout
		LedgerToken:       os.Getenv("LEDGER_TOKEN"),                                 // Static bearer
		LedgerJWTSecret:   os.Getenv("LEDGER_JWT_SECRET"),                            // JWT secret
		ClientName:        getEnv("CLIENT_NAME", "walletctl"),                        // JWT subject
		NoticeTTL:         getDuration("NOTICE_TTL", 4*time.Second),                  // Notice lifetime
		NoticeFade:        getDuration("NOTICE_FADE", 300*time.Millisecond),          // Notice fade
		WalletReloadDelay: getDuration("WALLET_RELOAD_DELAY", 100*time.Millisecond),  // Wallet reload delay
		ThemeStore:        getEnv("THEME_STORE", "file"),                             // Theme backend
		ThemeFile:         getEnv("THEME_FILE", defaultThemeFile()),                  // Theme file
		RedisAddr:         os.Getenv("REDIS_ADDR"),                                   // Redis server address
		RedisPass:         os.Getenv("REDIS_PASS"),                                   // Redis password
		RedisDB:           redisDB,                                                   // Redis database number
		LogLevel:          getEnv("LOG_LEVEL", "info"),                               // Log level
		LogFile:           getEnv("LOG_FILE", "walletctl.log"),                       // Log file
		DevLedgerPort:     getEnv("DEV_LEDGER_PORT", "8000"),                         // Dev ledger port
		DevLedgerDSN:      os.Getenv("DEV_LEDGER_DSN"),                               // Dev ledger database
		IsProd:            os.Getenv("IS_PROD") == "true",                            // Is production environment
	}
}

// getEnv returns the variable or def when it is unset or empty
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getDuration parses a Go duration, falling back to def on absence or error
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}

// defaultThemeFile places the theme under the user config dir, or the working dir if unknown
func defaultThemeFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "theme.json"
	}
	return filepath.Join(dir, "walletctl", "theme.json")
}
