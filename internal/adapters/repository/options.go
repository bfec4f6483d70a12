package repository

import (
	"time"

	"github.com/go-sql-driver/mysql"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithMaxOpenConns bounds the number of open connections in the pool.
func WithMaxOpenConns(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithMaxIdleConns bounds the number of idle connections kept in the pool.
func WithMaxIdleConns(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.maxIdleConns = n
		}
	}
}

// WithConnMaxLifetime recycles pooled connections after d.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.connMaxLifetime = d
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background pool metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *Store) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithMySQLConfig sets the driver configuration used by New.
func WithMySQLConfig(cfg *mysql.Config) Option {
	return func(s *Store) {
		if cfg != nil {
			s.mysqlConfig = cfg
		}
	}
}
