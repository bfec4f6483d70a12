// Package service provides the application service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	repository "github.com/okian/ott/internal/adapters/repository"
	"github.com/okian/ott/internal/domain/model"
	"github.com/okian/ott/pkg/logger"
)

// ErrNotStarted is returned by operations that need an open store.
var ErrNotStarted = errors.New("service not started")

// Database is the data-access surface the service delegates to.
// *repository.Store satisfies it.
type Database interface {
	CallProcedure(ctx context.Context, name string, args ...any) model.Result
	Query(ctx context.Context, query string, args ...any) model.Result
	AddRating(ctx context.Context, r model.Rating) model.Result
	Ping(ctx context.Context) error
	Stats() sql.DBStats
	Close() error
}

// Service implements the API dependencies for the catalogue.
type Service struct {
	mu sync.RWMutex

	db Database

	// Configuration
	mysqlConfig     *mysql.Config
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatabase injects an already opened store. Start will not open another.
func WithDatabase(db Database) Option {
	return func(s *Service) {
		if db != nil {
			s.db = db
		}
	}
}

// WithMySQLConfig sets the driver configuration used when Start opens the store.
func WithMySQLConfig(cfg *mysql.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.mysqlConfig = cfg
		}
	}
}

// WithPool sets the connection pool bounds.
func WithPool(maxOpen, maxIdle int, lifetime time.Duration) Option {
	return func(s *Service) {
		if maxOpen > 0 {
			s.maxOpenConns = maxOpen
		}
		if maxIdle >= 0 {
			s.maxIdleConns = maxIdle
		}
		if lifetime > 0 {
			s.connMaxLifetime = lifetime
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		mysqlConfig:     repository.DefaultMySQLConfig(),
		maxOpenConns:    10,
		maxIdleConns:    5,
		connMaxLifetime: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the store unless one was injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.db == nil {
		s.logger.Info(ctx, "opening database pool",
			logger.String("addr", s.mysqlConfig.Addr),
			logger.String("database", s.mysqlConfig.DBName),
			logger.Int("maxOpenConns", s.maxOpenConns),
		)
		store, err := repository.New(ctx,
			repository.WithMySQLConfig(s.mysqlConfig),
			repository.WithMaxOpenConns(s.maxOpenConns),
			repository.WithMaxIdleConns(s.maxIdleConns),
			repository.WithConnMaxLifetime(s.connMaxLifetime),
		)
		if err != nil {
			return fmt.Errorf("start service: %w", err)
		}
		s.db = store
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "catalogue service started")

	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping catalogue service...")

	if err := s.db.Close(); err != nil && !errors.Is(err, repository.ErrClosed) {
		s.logger.Warn(ctx, "closing database pool", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "catalogue service stopped")
}

func (s *Service) database() (Database, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db, s.started
}

// CallProcedure runs a stored procedure and logs failures.
func (s *Service) CallProcedure(ctx context.Context, name string, args ...any) model.Result {
	db, ok := s.database()
	if !ok {
		return model.Failure(ErrNotStarted.Error())
	}
	res := db.CallProcedure(ctx, name, args...)
	if res.IsError() {
		s.logger.Error(ctx, "stored procedure failed",
			logger.String("procedure", name),
			logger.String("message", res.Message),
		)
	}
	return res
}

// Query runs a read statement and logs failures.
func (s *Service) Query(ctx context.Context, query string, args ...any) model.Result {
	db, ok := s.database()
	if !ok {
		return model.Failure(ErrNotStarted.Error())
	}
	res := db.Query(ctx, query, args...)
	if res.IsError() {
		s.logger.Error(ctx, "query failed",
			logger.String("query", query),
			logger.String("message", res.Message),
		)
	}
	return res
}

// AddRating stores a rating and logs failures.
func (s *Service) AddRating(ctx context.Context, r model.Rating) model.Result {
	db, ok := s.database()
	if !ok {
		return model.Failure(ErrNotStarted.Error())
	}
	res := db.AddRating(ctx, r)
	if res.IsError() {
		s.logger.Error(ctx, "add rating failed",
			logger.Int64("profileID", r.ProfileID),
			logger.Int64("contentID", r.ContentID),
			logger.String("message", res.Message),
		)
	}
	return res
}

// Ping reports whether the database is reachable.
func (s *Service) Ping(ctx context.Context) error {
	db, ok := s.database()
	if !ok {
		return ErrNotStarted
	}
	return db.Ping(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"maxOpenConns": s.maxOpenConns,
		"maxIdleConns": s.maxIdleConns,
	}

	if s.started {
		pool := s.db.Stats()
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		stats["openConnections"] = pool.OpenConnections
		stats["inUse"] = pool.InUse
		stats["idle"] = pool.Idle
		stats["waitCount"] = pool.WaitCount
		stats["waitDurationMs"] = pool.WaitDuration.Milliseconds()
	}

	return stats
}
