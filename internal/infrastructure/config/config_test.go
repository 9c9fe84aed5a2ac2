package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"POS_APP_NAME":                 os.Getenv("POS_APP_NAME"),
		"POS_APP_ENV":                  os.Getenv("POS_APP_ENV"),
		"POS_APP_PORT":                 os.Getenv("POS_APP_PORT"),
		"POS_DATABASE_HOST":            os.Getenv("POS_DATABASE_HOST"),
		"POS_DATABASE_PORT":            os.Getenv("POS_DATABASE_PORT"),
		"POS_DATABASE_PASSWORD":        os.Getenv("POS_DATABASE_PASSWORD"),
		"POS_DATABASE_SSLMODE":         os.Getenv("POS_DATABASE_SSLMODE"),
		"POS_DATABASE_MAX_OPEN_CONNS":  os.Getenv("POS_DATABASE_MAX_OPEN_CONNS"),
		"POS_DATABASE_MAX_IDLE_CONNS":  os.Getenv("POS_DATABASE_MAX_IDLE_CONNS"),
		"POS_SHOPIFY_SHOP_URL":         os.Getenv("POS_SHOPIFY_SHOP_URL"),
		"POS_SHOPIFY_ACCESS_TOKEN":     os.Getenv("POS_SHOPIFY_ACCESS_TOKEN"),
		"POS_WEBHOOK_SECRET":           os.Getenv("POS_WEBHOOK_SECRET"),
		"POS_WEBHOOK_ALLOW_UNVERIFIED": os.Getenv("POS_WEBHOOK_ALLOW_UNVERIFIED"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pos-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "pos", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "2024-10", cfg.Shopify.APIVersion)
		assert.Equal(t, 30, cfg.Shopify.TimeoutSeconds)
		assert.False(t, cfg.Webhook.AllowUnverified)
	})

	t.Run("loads values from environment variables with POS prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_APP_NAME", "test-app")
		os.Setenv("POS_APP_PORT", "9000")
		os.Setenv("POS_DATABASE_HOST", "testdb.local")
		os.Setenv("POS_DATABASE_PORT", "5433")
		os.Setenv("POS_SHOPIFY_SHOP_URL", "test-store.myshopify.com")
		os.Setenv("POS_SHOPIFY_ACCESS_TOKEN", "shpat_test")
		os.Setenv("POS_WEBHOOK_SECRET", "whsec_test")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "test-store.myshopify.com", cfg.Shopify.ShopURL)
		assert.Equal(t, "shpat_test", cfg.Shopify.AccessToken)
		assert.Equal(t, "whsec_test", cfg.Webhook.Secret)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("POS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("production requires store credentials and webhook secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_APP_ENV", "production")
		os.Setenv("POS_DATABASE_PASSWORD", "secret")
		os.Setenv("POS_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "shopify")

		os.Setenv("POS_SHOPIFY_SHOP_URL", "test-store.myshopify.com")
		os.Setenv("POS_SHOPIFY_ACCESS_TOKEN", "shpat_test")

		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webhook.secret")

		os.Setenv("POS_WEBHOOK_SECRET", "whsec_test")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("production rejects unverified webhooks", func(t *testing.T) {
		clearEnv()
		os.Setenv("POS_APP_ENV", "production")
		os.Setenv("POS_DATABASE_PASSWORD", "secret")
		os.Setenv("POS_DATABASE_SSLMODE", "require")
		os.Setenv("POS_SHOPIFY_SHOP_URL", "test-store.myshopify.com")
		os.Setenv("POS_SHOPIFY_ACCESS_TOKEN", "shpat_test")
		os.Setenv("POS_WEBHOOK_SECRET", "whsec_test")
		os.Setenv("POS_WEBHOOK_ALLOW_UNVERIFIED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allow_unverified")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "pos",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.local", Port: 6380}
	assert.Equal(t, "redis.local:6380", cfg.Addr())
}
