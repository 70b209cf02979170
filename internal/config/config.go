// Package config reads the store configuration from flags and environment
// variables, with the environment taking precedence.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config selects and parameterizes the persistence backend.
type Config struct {
	StoreBackend string `env:"POCKETBANK_STORE"`
	StorePath    string `env:"POCKETBANK_STORE_PATH"`
	RedisAddr    string `env:"POCKETBANK_REDIS_ADDR"`
	DatabaseURI  string `env:"POCKETBANK_DATABASE_URI"`
}

// Parse reads configuration from command-line flags and environment
// variables.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envStoreBackend := cfg.StoreBackend
	envStorePath := cfg.StorePath
	envRedisAddr := cfg.RedisAddr
	envDatabaseURI := cfg.DatabaseURI

	flag.StringVar(&cfg.StoreBackend, "s", "memory", "store backend: memory, file, redis or postgres")
	flag.StringVar(&cfg.StorePath, "f", "pocketbank.json", "snapshot path for the file backend")
	flag.StringVar(&cfg.RedisAddr, "r", "localhost:6379", "redis address for the redis backend")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI for the postgres backend")

	flag.Parse()

	if envStoreBackend != "" {
		cfg.StoreBackend = envStoreBackend
	}
	if envStorePath != "" {
		cfg.StorePath = envStorePath
	}
	if envRedisAddr != "" {
		cfg.RedisAddr = envRedisAddr
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}

	return cfg, nil
}
