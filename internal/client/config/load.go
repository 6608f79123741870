package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sealdrop/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// LoadConfig builds a Config from defaults, the environment, the JSON file
// and flags, in that order of increasing precedence. fs may be nil, in which
// case the JSON path is looked up in os.Args and no flags are applied.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if path := jsonPath(fs); path != "" {
		if err := parseJson(cfg, path); err != nil {
			return nil, err
		}
	}

	if fs != nil {
		if err := applyFlags(cfg, fs); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadDotEnv reads SEALDROP_ENV_FILE or ./.env. Variables already present in
// the environment win; a missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(EnvPrefix + "_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func jsonPath(fs *pflag.FlagSet) string {
	if fs == nil {
		if p := flagx.JsonConfigPath(os.Args[1:]); p != "" {
			return p
		}
	} else if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return os.Getenv(EnvPrefix + "_CONFIG")
}
