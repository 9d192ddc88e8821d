package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wom/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "wom", cfg.App.Name)
	assert.Equal(t, 720*time.Hour, cfg.Settlement.PaymentTerms)
	assert.Equal(t, 24*time.Hour, cfg.Redis.EventTTL)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "books")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("PAYMENT_TERMS", "48h")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, cfg.Settlement.PaymentTerms)
	assert.Equal(t, "postgres://postgres:@db.internal:6543/books?sslmode=require", cfg.ConnectionString())
}

func TestLoad_RejectsNonPositiveTerms(t *testing.T) {
	t.Setenv("PAYMENT_TERMS", "0s")

	_, err := config.Load()
	assert.Error(t, err)
}
