package config

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Neo4j Neo4jConfig
}

// Neo4jConfig carries the connection settings for the graph database. The
// defaults match a local out-of-the-box installation; production deployments
// must override all three credentials.
type Neo4jConfig struct {
	URI      string `env:"NEO4J_URI,      default=bolt://localhost:7687"`
	Username string `env:"NEO4J_USERNAME, default=neo4j"`
	Password string `env:"NEO4J_PASSWORD, default=password"`
	Database string `env:"NEO4J_DATABASE"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
