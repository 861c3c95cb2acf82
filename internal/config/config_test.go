package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sangkips/devis-api/pkg/layout"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

func TestLoadLayoutDefaults(t *testing.T) {
	cfg, err := loadLayout(envViper())
	require.NoError(t, err)

	assert.Equal(t, layout.QuoteProfile(), cfg.Quote)
	assert.Equal(t, layout.InvoiceProfile(), cfg.Invoice)
	assert.Len(t, cfg.Profiles(), 2)
}

func TestLoadLayoutEnvOverrides(t *testing.T) {
	t.Setenv("LAYOUT_QUOTE_FIRST_HEIGHT", "380")
	t.Setenv("LAYOUT_INVOICE_CONTINUATION_ITEMS", "20")
	t.Setenv("LAYOUT_INVOICE_PACK_THRESHOLD", "6")

	cfg, err := loadLayout(envViper())
	require.NoError(t, err)

	assert.Equal(t, 380.0, cfg.Quote.First.MaxHeight)
	assert.Equal(t, 10, cfg.Quote.First.MaxItems)
	assert.Equal(t, 20, cfg.Invoice.Continuation.MaxItems)
	assert.Equal(t, 6, cfg.Invoice.PackThreshold)
	assert.Equal(t, layout.InvoiceProfile().First, cfg.Invoice.First)
}

func TestLoadLayoutProfilesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `
quote:
  kind: invoice
  trailing_height: 200
  continuation:
    max_height: 620
invoice:
  first:
    max_items: 14
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LAYOUT_PROFILES_FILE", path)
	t.Setenv("LAYOUT_QUOTE_TRAILING_HEIGHT", "190")

	cfg, err := loadLayout(envViper())
	require.NoError(t, err)

	assert.Equal(t, layout.KindQuote, cfg.Quote.Kind)
	assert.Equal(t, 190.0, cfg.Quote.TrailingHeight, "environment wins over the file")
	assert.Equal(t, 620.0, cfg.Quote.Continuation.MaxHeight)
	assert.Equal(t, 15, cfg.Quote.Continuation.MaxItems)
	assert.Equal(t, 14, cfg.Invoice.First.MaxItems)
	assert.Equal(t, 450.0, cfg.Invoice.First.MaxHeight)
	assert.True(t, cfg.Quote.HasBanking)
}

func TestLoadLayoutRejectsInvalidProfiles(t *testing.T) {
	t.Setenv("LAYOUT_QUOTE_FIRST_ITEMS", "0")

	_, err := loadLayout(envViper())
	assert.ErrorIs(t, err, layout.ErrInvalidProfile)
}

func TestLoadLayoutMissingFile(t *testing.T) {
	t.Setenv("LAYOUT_PROFILES_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := loadLayout(envViper())
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host: "db", Port: "5432", Name: "devis", User: "app",
		Password: "secret", SSLMode: "disable", Timezone: "Europe/Paris",
	}
	assert.Equal(t,
		"host=db user=app password=secret dbname=devis port=5432 sslmode=disable TimeZone=Europe/Paris",
		db.DSN())
}
