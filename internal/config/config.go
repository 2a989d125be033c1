// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the realmserver configuration.
type Config struct {
	Port         int           `env:"REALMWAR_PORT" envDefault:"8080"`
	DBPath       string        `env:"REALMWAR_DB" envDefault:"data/realmwar.db"`
	AdminKey     string        `env:"REALMWAR_ADMIN_KEY"`
	Seed         int64         `env:"REALMWAR_SEED" envDefault:"0"`
	NumKingdoms  int           `env:"REALMWAR_KINGDOMS" envDefault:"12"`
	TurnInterval time.Duration `env:"REALMWAR_TURN_INTERVAL" envDefault:"2m"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
