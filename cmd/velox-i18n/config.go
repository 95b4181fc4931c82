package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/syssam/velox-i18n/dialect"
)

// envPrefix prefixes the environment variables of the configuration.
const envPrefix = "VELOX_I18N_"

// Config holds the command configuration. Values are read from the
// environment (and an optional .env file) and overridden by flags.
type Config struct {
	Dialect  string `env:"DIALECT" envDefault:"sqlite"`
	DSN      string `env:"DSN"`
	Target   string `env:"TARGET" envDefault:"i18n"`
	Package  string `env:"PACKAGE" envDefault:"i18n"`
	Workers  int    `env:"WORKERS"`
	GoModel  string `env:"GO_MODEL"` // Go package of the generated types, bound in the SDL
	SDLFile  string `env:"SDL_FILE"` // written to stdout when empty
	GQLGen   string `env:"GQLGEN"`   // gqlgen.yml to add the bindings to
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Set by flags only.
	Command          string
	Paths            []string
	Watch            bool
	TranslationsOnly bool
}

// loadConfig reads the configuration from the environment and parses the
// command line. An .env file in the working directory is loaded first and
// never overrides variables already set.
func loadConfig(args []string, stderr io.Writer) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	fs := flag.NewFlagSet("velox-i18n", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Dialect, "dialect", cfg.Dialect, "SQL dialect: sqlite, postgres or mysql")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "data source name of the database to apply to")
	fs.StringVar(&cfg.Target, "target", cfg.Target, "directory of the generated Go package")
	fs.StringVar(&cfg.Package, "package", cfg.Package, "name of the generated Go package")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of files generated in parallel")
	fs.StringVar(&cfg.GoModel, "gomodel", cfg.GoModel, "Go package bound with @goModel in the SDL")
	fs.StringVar(&cfg.SDLFile, "sdl", cfg.SDLFile, "file the SDL is written to")
	fs.StringVar(&cfg.GQLGen, "gqlgen", cfg.GQLGen, "gqlgen.yml to bind the translation types in")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.Watch, "watch", false, "regenerate when a declaration file changes")
	fs.BoolVar(&cfg.TranslationsOnly, "translations-only", false, "only emit the translation tables")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: velox-i18n [flags] <validate|ddl|apply|sdl|gen> [paths...]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return nil, errors.New("missing command")
	}
	cfg.Command = fs.Arg(0)
	cfg.Paths = fs.Args()[1:]
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"schema"}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Command {
	case "validate", "ddl", "sdl", "gen":
	case "apply":
		if c.DSN == "" {
			return fmt.Errorf("%sDSN or -dsn is required by apply", envPrefix)
		}
	default:
		return fmt.Errorf("unknown command %q", c.Command)
	}
	if c.Watch && c.Command != "gen" && c.Command != "sdl" {
		return fmt.Errorf("-watch is supported by gen and sdl, not %s", c.Command)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return dialect.Validate(c.Dialect)
}

// level returns the slog level named by LogLevel.
func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return l, nil
}
