package config

import (
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config is read from POS_* environment variables
type Config struct {
	DataDir        string `envconfig:"DATA_DIR" default:"./data"`
	DBDriver       string `envconfig:"DB_DRIVER" default:"sqlite"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	SeedSampleData bool   `envconfig:"SEED_SAMPLE_DATA" default:"true"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"text"`
	BackupDir      string `envconfig:"BACKUP_DIR" default:"./backups"`
	DriveFolderID  string `envconfig:"DRIVE_FOLDER_ID"`

	// Shared with other tools, so read without the prefix
	GoogleCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS" ignored:"true"`
	ChromePath        string `envconfig:"CHROME_PATH" ignored:"true"`
}

type unprefixed struct {
	GoogleCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	ChromePath        string `envconfig:"CHROME_PATH"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("pos", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read POS configuration")
	}

	var shared unprefixed
	if err := envconfig.Process("", &shared); err != nil {
		return nil, errors.Wrap(err, "failed to read shared configuration")
	}
	cfg.GoogleCredentials = shared.GoogleCredentials
	cfg.ChromePath = shared.ChromePath

	switch cfg.DBDriver {
	case "sqlite", "pgx", "postgres":
	default:
		return nil, errors.Errorf("unsupported POS_DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDriver != "sqlite" && cfg.DatabaseURL == "" {
		return nil, errors.New("POS_DATABASE_URL is required for the postgres driver")
	}
	return &cfg, nil
}

// StorageDir holds the persisted key/value entries, database image included
func (c *Config) StorageDir() string {
	return filepath.Join(c.DataDir, "storage")
}

// WorkDir holds the temporary working database file
func (c *Config) WorkDir() string {
	return filepath.Join(c.DataDir, "work")
}

// ImageCacheDir holds optimized product photos
func (c *Config) ImageCacheDir() string {
	return filepath.Join(c.DataDir, "images")
}

// DriverName maps the configured driver to the database/sql driver name
func (c *Config) DriverName() string {
	if c.DBDriver == "postgres" {
		return "pgx"
	}
	return c.DBDriver
}
