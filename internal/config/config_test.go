package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"LEDGER_BASE_URL", "LEDGER_TIMEOUT", "NOTICE_TTL", "NOTICE_FADE", "WALLET_RELOAD_DELAY", "THEME_STORE", "REDIS_DB", "IS_PROD", "DEV_LEDGER_DSN"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "http://localhost:8000/api/v1", cfg.LedgerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.LedgerTimeout)
	assert.Equal(t, 4*time.Second, cfg.NoticeTTL)
	assert.Equal(t, 300*time.Millisecond, cfg.NoticeFade)
	assert.Equal(t, 100*time.Millisecond, cfg.WalletReloadDelay)
	assert.Equal(t, "file", cfg.ThemeStore)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.IsProd)
	assert.NotEmpty(t, cfg.ThemeFile)
	assert.Empty(t, cfg.DevLedgerDSN)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LEDGER_BASE_URL", "http://ledger:9000/api/v1")
	t.Setenv("LEDGER_TIMEOUT", "5s")
	t.Setenv("NOTICE_TTL", "not-a-duration")
	t.Setenv("THEME_STORE", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IS_PROD", "true")
	t.Setenv("DEV_LEDGER_DSN", "root:pw@tcp(localhost:3306)/ledger?parseTime=true")

	cfg := LoadConfig()

	assert.Equal(t, "http://ledger:9000/api/v1", cfg.LedgerBaseURL)
	assert.Equal(t, 5*time.Second, cfg.LedgerTimeout)
	assert.Equal(t, 4*time.Second, cfg.NoticeTTL, "invalid durations fall back to the default")
	assert.Equal(t, "redis", cfg.ThemeStore)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.IsProd)
	assert.Equal(t, "root:pw@tcp(localhost:3306)/ledger?parseTime=true", cfg.DevLedgerDSN)
}
