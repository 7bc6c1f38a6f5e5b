package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AllowOrigin  string
}

// ClientConfig configures intakectl.
type ClientConfig struct {
	StoreURL   string
	Timeout    time.Duration
	GroupOrder string
	Verbose    bool
}

// LoadEnv reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("exam-intake", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.AllowOrigin, "origin", "", "Allowed CORS origin (default: echo request origin)")
	fs.StringVar(&envFile, "env", ".env", "Environment file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := LoadEnv(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("unknown database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:exam-intake.db"
	}

	if cfg.AllowOrigin == "" {
		cfg.AllowOrigin = os.Getenv("ALLOW_ORIGIN")
	}

	return cfg, nil
}

// ParseClientFlags parses intakectl's global flags and returns the
// remaining arguments (the subcommand and its own flags).
func ParseClientFlags(args []string) (ClientConfig, []string, error) {
	var cfg ClientConfig
	var envFile string

	fs := flag.NewFlagSet("intakectl", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreURL, "store", "", "Store URL (env STORE_URL)")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Per-call timeout (env TIMEOUT)")
	fs.StringVar(&cfg.GroupOrder, "order", "", "Ranked sheet order: male-first or female-first (env GROUP_ORDER)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Debug logging")
	fs.StringVar(&envFile, "env", ".env", "Environment file")

	if err := fs.Parse(args); err != nil {
		return ClientConfig{}, nil, err
	}
	if err := LoadEnv(envFile); err != nil {
		return ClientConfig{}, nil, err
	}

	if cfg.StoreURL == "" {
		cfg.StoreURL = os.Getenv("STORE_URL")
	}
	if cfg.StoreURL == "" {
		cfg.StoreURL = "http://localhost:3318/exec"
	}

	if cfg.Timeout == 0 {
		if s := os.Getenv("TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return ClientConfig{}, nil, errors.New("invalid TIMEOUT env variable")
			}
			cfg.Timeout = d
		} else {
			cfg.Timeout = 15 * time.Second
		}
	}

	if cfg.GroupOrder == "" {
		cfg.GroupOrder = os.Getenv("GROUP_ORDER")
	}

	return cfg, fs.Args(), nil
}
