package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_WithValidConfig(t *testing.T) {
	setEnv(t, "ETHERSCAN_API_KEY", "testkey123")
	setEnv(t, "PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DefaultEtherscanURL, cfg.EtherscanURL)
	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, int64(DefaultChainID), cfg.ChainID)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
}

func TestLoad_MissingEtherscanKey(t *testing.T) {
	setEnv(t, "ETHERSCAN_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ETHERSCAN_API_KEY is required")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "valid config",
			config: Config{
				EtherscanAPIKey: "testkey123",
				RPCURL:          "https://eth.llamarpc.com",
				CacheSize:       256,
			},
			wantErr: "",
		},
		{
			name: "missing etherscan key",
			config: Config{
				RPCURL:    "https://eth.llamarpc.com",
				CacheSize: 256,
			},
			wantErr: "ETHERSCAN_API_KEY is required",
		},
		{
			name: "missing RPC URL",
			config: Config{
				EtherscanAPIKey: "testkey123",
				CacheSize:       256,
			},
			wantErr: "RPC_URL is required",
		},
		{
			name: "non-positive cache size",
			config: Config{
				EtherscanAPIKey: "testkey123",
				RPCURL:          "https://eth.llamarpc.com",
				CacheSize:       0,
			},
			wantErr: "CACHE_SIZE must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_CommentaryEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.CommentaryEnabled())

	cfg.GeminiAPIKey = "gk"
	assert.True(t, cfg.CommentaryEnabled())
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestGetEnv(t *testing.T) {
	setEnv(t, "TEST_VAR", "custom_value")

	assert.Equal(t, "custom_value", getEnv("TEST_VAR", "default"))
	assert.Equal(t, "default", getEnv("NONEXISTENT_VAR", "default"))
}

func TestGetEnvInt64(t *testing.T) {
	setEnv(t, "TEST_INT", "42")
	setEnv(t, "TEST_INVALID", "not_a_number")

	assert.Equal(t, int64(42), getEnvInt64("TEST_INT", 0))
	assert.Equal(t, int64(99), getEnvInt64("NONEXISTENT_VAR", 99))
	assert.Equal(t, int64(99), getEnvInt64("TEST_INVALID", 99)) // Falls back on parse error
}

func TestGetEnvDuration(t *testing.T) {
	setEnv(t, "TEST_DUR", "30s")
	setEnv(t, "TEST_DUR_BAD", "soon")

	assert.Equal(t, 30*time.Second, getEnvDuration("TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, getEnvDuration("NONEXISTENT_VAR", time.Minute))
	assert.Equal(t, time.Minute, getEnvDuration("TEST_DUR_BAD", time.Minute)) // Falls back on parse error
}
