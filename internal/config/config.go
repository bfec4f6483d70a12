// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Flat snake_case keys, so that OTT_DB_HOST maps onto db_host.
// - Defaults come from New; Load layers an optional YAML file and env on top.
// - Credentials are never defaulted to real values; supply them via env or file.
package config

import (
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// DBHost and DBPort locate the MySQL server.
	DBHost string `koanf:"db_host"`
	DBPort int    `koanf:"db_port"`

	// DBUser and DBPassword authenticate against MySQL.
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`

	// DBName selects the schema holding the OTT tables and procedures.
	DBName string `koanf:"db_name"`

	// DBMaxOpenConns bounds the connection pool; 0 means unlimited.
	DBMaxOpenConns int `koanf:"db_max_open_conns"`

	// DBMaxIdleConns bounds idle pooled connections.
	DBMaxIdleConns int `koanf:"db_max_idle_conns"`

	// DBConnMaxLifetimeSec recycles pooled connections after this many seconds.
	DBConnMaxLifetimeSec int `koanf:"db_conn_max_lifetime_sec"`

	// DBConnectTimeoutSec bounds dialing and the startup ping.
	DBConnectTimeoutSec int `koanf:"db_connect_timeout_sec"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":5000",
		DBHost:               "localhost",
		DBPort:               3306,
		DBUser:               "root",
		DBPassword:           "",
		DBName:               "ott",
		DBMaxOpenConns:       10,
		DBMaxIdleConns:       5,
		DBConnMaxLifetimeSec: 300,
		DBConnectTimeoutSec:  5,
	}
}

// ConnMaxLifetime returns DBConnMaxLifetimeSec as a duration.
func (c *Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.DBConnMaxLifetimeSec) * time.Second
}

// ConnectTimeout returns DBConnectTimeoutSec as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.DBConnectTimeoutSec) * time.Second
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBHost == "":
		return fmt.Errorf("%w: db_host must not be empty", ErrInvalidConfig)
	case c.DBName == "":
		return fmt.Errorf("%w: db_name must not be empty", ErrInvalidConfig)
	case c.DBPort <= 0 || c.DBPort > 65535:
		return fmt.Errorf("%w: db_port out of range: %d", ErrInvalidConfig, c.DBPort)
	case c.DBMaxOpenConns < 0, c.DBMaxIdleConns < 0, c.DBConnMaxLifetimeSec < 0, c.DBConnectTimeoutSec < 0:
		return fmt.Errorf("%w: pool settings must not be negative", ErrInvalidConfig)
	}
	return nil
}
