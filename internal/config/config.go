// Package config loads the ambient settings of the campaign cleaner from
// environment variables. The cleaning pipeline itself is not configurable:
// input and output locations and column names are fixed. Only logging and the
// optional PostgreSQL sink are tuned here.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds settings for the optional PostgreSQL sink.
// The sink is disabled when URL is empty.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Supports DATABASE_URL and DB_URL.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// LoadTimeout bounds the whole load transaction (default: 5m)
	LoadTimeout time.Duration `env:"DB_LOAD_TIMEOUT" default:"5m"`
}

// Enabled reports whether the PostgreSQL sink should run.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
