package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort         string `mapstructure:"SERVER_PORT"`
	DBHost             string `mapstructure:"POSTGRES_HOST"`
	DBPort             string `mapstructure:"POSTGRES_PORT"`
	DBUser             string `mapstructure:"POSTGRES_USER"`
	DBPassword         string `mapstructure:"POSTGRES_PASSWORD"`
	DBName             string `mapstructure:"POSTGRES_DB"`
	DBSSLMode          string `mapstructure:"POSTGRES_SSLMODE"`
	MigrationsPath     string `mapstructure:"MIGRATIONS_PATH"`
	MaxOrdersPerWindow int    `mapstructure:"MAX_ORDERS_PER_WINDOW"`
	SessionTTLHours    int    `mapstructure:"SESSION_TTL_HOURS"`
}

// Load reads configuration from an optional .env file, with real environment
// variables taking precedence over file values and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "")
	v.SetDefault("POSTGRES_DB", "baykery")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("MIGRATIONS_PATH", "migrations")
	v.SetDefault("MAX_ORDERS_PER_WINDOW", 50)
	v.SetDefault("SESSION_TTL_HOURS", 168)

	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}
