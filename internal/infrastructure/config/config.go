package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/mtrack/internal/util"
)

// Database holds libsql configuration. An empty URL selects a local file
// in the XDG data directory.
type Database struct {
	URL       string `envconfig:"DATABASE_URL"`
	AuthToken string `envconfig:"AUTH_TOKEN"`
}

// Log holds logger configuration.
type Log struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	Dev   bool   `envconfig:"LOG_DEV" default:"false"`
	File  string `envconfig:"LOG_FILE"`
}

// OTEL holds metrics exporter configuration.
type OTEL struct {
	Enabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	Endpoint string `envconfig:"OTEL_ENDPOINT"`
	Insecure bool   `envconfig:"OTEL_INSECURE" default:"false"`
}

// Config is the full mtrack configuration, read from MTRACK_* variables.
type Config struct {
	Database Database
	Log      Log
	OTEL     OTEL
	DataDir  string `ignored:"true"`
}

const prefix = "MTRACK"

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(prefix, &cfg.Database); err != nil {
		return nil, err
	}
	if err := envconfig.Process(prefix, &cfg.Log); err != nil {
		return nil, err
	}
	if err := envconfig.Process(prefix, &cfg.OTEL); err != nil {
		return nil, err
	}

	dataDir, err := util.DataDir()
	if err != nil {
		return nil, err
	}
	cfg.DataDir = dataDir

	if cfg.Database.URL == "" {
		cfg.Database.URL = "file:" + filepath.Join(dataDir, "mtrack.db")
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dataDir, "mtrack.log")
	}

	return &cfg, nil
}
