// Package config loads kain's settings from an optional YAML file and the
// environment. Environment variables win over the file; the file wins over
// defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kain/internal/shop"
	"github.com/roach88/kain/internal/translate"
)

// Environment variables read by Load.
const (
	EnvDatabase     = "KAIN_DB"
	EnvLocale       = "KAIN_LOCALE"
	EnvWhatsApp     = "KAIN_WHATSAPP"
	EnvTranslateURL = "KAIN_TRANSLATE_URL"
	EnvCatalog      = "KAIN_CATALOG"
	EnvLogLevel     = "KAIN_LOG_LEVEL"
)

// Config holds all settings.
type Config struct {
	ShopName  string          `yaml:"shop_name"`
	WhatsApp  string          `yaml:"whatsapp"`
	Locale    shop.Locale     `yaml:"locale"`
	Database  string          `yaml:"database"`
	Catalog   string          `yaml:"catalog"`
	LogLevel  string          `yaml:"log_level"`
	Translate TranslateConfig `yaml:"translate"`
}

// TranslateConfig configures catalog auto-translation. An empty URL
// disables it.
type TranslateConfig struct {
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		ShopName: "Kain",
		Locale:   shop.DefaultLocale,
		Database: "kain.db",
		Catalog:  "catalog",
		LogLevel: "info",
		Translate: TranslateConfig{
			Timeout: translate.DefaultTimeout,
		},
	}
}

// Load reads path (if non-empty) over the defaults and then applies
// environment overrides. A missing file is an error only when path was
// given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	cfg.Locale = shop.ParseLocale(string(cfg.Locale))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode unmarshals YAML over cfg, rejecting unknown keys.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Database = getEnv(EnvDatabase, cfg.Database)
	cfg.Locale = shop.Locale(getEnv(EnvLocale, string(cfg.Locale)))
	cfg.WhatsApp = getEnv(EnvWhatsApp, cfg.WhatsApp)
	cfg.Translate.URL = getEnv(EnvTranslateURL, cfg.Translate.URL)
	cfg.Catalog = getEnv(EnvCatalog, cfg.Catalog)
	cfg.LogLevel = getEnv(EnvLogLevel, cfg.LogLevel)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("config: database path is empty")
	}
	if c.Translate.Timeout < 0 {
		return fmt.Errorf("config: translate.timeout %s is negative", c.Translate.Timeout)
	}
	return nil
}

// Level parses LogLevel. Unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Translator builds the catalog translator, or nil when translation is
// not configured.
func (c Config) Translator(logger *slog.Logger) *translate.Client {
	if c.Translate.URL == "" {
		return nil
	}
	opts := []translate.Option{translate.WithLogger(logger)}
	if c.Translate.Timeout > 0 {
		opts = append(opts, translate.WithTimeout(c.Translate.Timeout))
	}
	if c.Translate.APIKey != "" {
		opts = append(opts, translate.WithAPIKey(c.Translate.APIKey))
	}
	return translate.New(c.Translate.URL, opts...)
}
