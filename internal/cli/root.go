package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/kain/internal/config"
	"github.com/roach88/kain/internal/shop"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	LogJSON    bool
	ConfigPath string
	Database   string
	Locale     string

	// Resolved by the root's PersistentPreRunE.
	cfg    *config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the kain CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kain",
		Short: "kain - fabric storefront cart",
		Long: `A shopping cart for a fabric storefront.

Products come from a CUE catalog, the cart is kept in a local SQLite
database, and checkout renders a WhatsApp order message.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.resolve(cmd.ErrOrStderr())
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.LogJSON, "log-json", false, "write logs as JSON")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "database path (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Locale, "locale", "", "display locale: en|id (overrides config)")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads the config, applies flag overrides and installs the
// default logger.
func (o *RootOptions) resolve(logOut io.Writer) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading config", err)
	}
	if o.Database != "" {
		cfg.Database = o.Database
	}
	if o.Locale != "" {
		cfg.Locale = shop.ParseLocale(o.Locale)
	}
	o.cfg = &cfg

	level := cfg.Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = newLogger(logOut, level, o.LogJSON)
	slog.SetDefault(o.logger)
	return nil
}

// settings returns the resolved config. Subcommands built without the
// root (as in tests) get the defaults plus flag overrides.
func (o *RootOptions) settings() config.Config {
	if o.cfg != nil {
		return *o.cfg
	}
	cfg := config.Default()
	if o.Database != "" {
		cfg.Database = o.Database
	}
	if o.Locale != "" {
		cfg.Locale = shop.ParseLocale(o.Locale)
	}
	return cfg
}

func (o *RootOptions) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return slog.Default()
}

func newLogger(w io.Writer, level slog.Level, asJSON bool) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
