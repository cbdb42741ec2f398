package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type Config struct {
	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Cache struct {
		RedisURL   string `toml:"redis_url"`
		TTLSeconds int    `toml:"ttl_seconds"`
	} `toml:"cache"`

	Rollup struct {
		// Cron spec for the scheduled pre-aggregation job, e.g. "0 2 * * *".
		Schedule string `toml:"schedule"`
	} `toml:"rollup"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("Database DSN is not specified in config")
	}
	if config.Rollup.Schedule == "" {
		config.Rollup.Schedule = "0 2 * * *"
	}

	logger.Debug.Printf("Loaded config for server on %s", config.Server.Port)

	return &config, nil
}
