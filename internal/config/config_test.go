package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kain/internal/shop"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDatabase, EnvLocale, EnvWhatsApp, EnvTranslateURL, EnvCatalog, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Nil(t, cfg.Translator(slog.Default()))
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("testdata/kain.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Toko Kain Sari", cfg.ShopName)
	assert.Equal(t, "0811-2233-4455", cfg.WhatsApp)
	assert.Equal(t, shop.LocaleIndonesian, cfg.Locale)
	assert.Equal(t, "/var/lib/kain/kain.db", cfg.Database)
	assert.Equal(t, "/etc/kain/catalog", cfg.Catalog)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, 2*time.Second, cfg.Translate.Timeout)
	assert.NotNil(t, cfg.Translator(slog.Default()))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDatabase, "/tmp/other.db")
	t.Setenv(EnvLocale, "en")
	t.Setenv(EnvWhatsApp, "62800000000")
	t.Setenv(EnvCatalog, "./products")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("testdata/kain.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.Database)
	assert.Equal(t, shop.LocaleEnglish, cfg.Locale)
	assert.Equal(t, "62800000000", cfg.WhatsApp)
	assert.Equal(t, "./products", cfg.Catalog)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.Equal(t, "Toko Kain Sari", cfg.ShopName, "file value kept")
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	clearEnv(t)

	_, err := Load("testdata/unknown.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whatsap")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownLocaleFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLocale, "fr")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, shop.DefaultLocale, cfg.Locale)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Database = " "
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Translate.Timeout = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, Config{LogLevel: in}.Level(), in)
	}
}
