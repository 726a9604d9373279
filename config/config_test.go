package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 60, cfg.Server.RateLimit.Capacity)
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.Refill)
	assert.Empty(t, cfg.Cache.RedisAddr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "permissive", cfg.Loan.Validation)
	assert.Equal(t, "₹", cfg.Loan.CurrencySymbol)
	assert.Equal(t, "en-IN", cfg.Loan.Locale)
}

func TestLoad_ValidYAML_PopulatesFields(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "emi.yaml")
	content := `server:
  addr: "127.0.0.1:9090"
  shutdown_timeout: 3s
  rate_limit:
    capacity: 5
    refill: 30s
cache:
  redis_addr: "localhost:6379"
  ttl: 5m
log:
  level: debug
  format: json
loan:
  validation: strict
  currency_symbol: "$"
  locale: en-US`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5, cfg.Server.RateLimit.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Server.RateLimit.Refill)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 1024, cfg.Cache.Size)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "strict", cfg.Loan.Validation)
	assert.Equal(t, "$", cfg.Loan.CurrencySymbol)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("EMI_SERVER_ADDR", ":7070")
	t.Setenv("EMI_LOAN_VALIDATION", "strict")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "strict", cfg.Loan.Validation)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := `log:
  format: xml
loan:
  validation: lenient`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "loan.validation")
}
