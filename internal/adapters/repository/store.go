// Package repository is the data-access helper for the OTT MySQL schema.
// Every call borrows one pooled connection, runs a single unit of work and
// reports its outcome as a model.Result; driver errors never escape as Go errors.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/okian/ott/internal/domain/model"
	"github.com/okian/ott/pkg/metrics"
)

// Store runs stored procedures and raw statements against a pooled *sql.DB.
type Store struct {
	db          *sql.DB
	mysqlConfig *mysql.Config

	maxOpenConns          int
	maxIdleConns          int
	connMaxLifetime       time.Duration
	metricsUpdateInterval time.Duration

	wg        sync.WaitGroup
	stopChan  chan struct{}
	closeOnce sync.Once
}

// DefaultMySQLConfig returns the driver configuration used when none is given.
func DefaultMySQLConfig() *mysql.Config {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = "localhost:3306"
	cfg.User = "root"
	cfg.DBName = "ott"
	cfg.ParseTime = true
	return cfg
}

func newStore(opts ...Option) *Store {
	s := &Store{
		mysqlConfig:           DefaultMySQLConfig(),
		maxOpenConns:          10,
		maxIdleConns:          5,
		connMaxLifetime:       5 * time.Minute,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New opens a connection pool from the configured driver settings and
// verifies it with a ping. ctx bounds only the ping; the pool outlives it.
func New(ctx context.Context, opts ...Option) (*Store, error) {
	s := newStore(opts...)

	connector, err := mysql.NewConnector(s.mysqlConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if err := s.open(ctx, sql.OpenDB(connector)); err != nil {
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an already opened handle.
func NewWithDB(db *sql.DB, opts ...Option) *Store {
	s := newStore(opts...)
	s.attach(db)
	s.startMetricsUpdater()
	return s
}

// open attaches db, pings it and starts the pool metrics updater, which runs
// until Close regardless of ctx.
func (s *Store) open(ctx context.Context, db *sql.DB) error {
	s.attach(db)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("%w: %w", ErrPing, err)
	}
	s.startMetricsUpdater()
	return nil
}

func (s *Store) attach(db *sql.DB) {
	db.SetMaxOpenConns(s.maxOpenConns)
	db.SetMaxIdleConns(s.maxIdleConns)
	db.SetConnMaxLifetime(s.connMaxLifetime)
	s.db = db
}

// CallProcedure runs CALL name(args...) inside a transaction on one
// connection, concatenates the rows of every result set in order and commits.
// A call that yields no rows is reported as model.Ack.
func (s *Store) CallProcedure(ctx context.Context, name string, args ...any) model.Result {
	start := time.Now()
	rows, err := s.callProcedure(ctx, model.NewProcedureCall(name, args...))
	if err != nil {
		return s.fail(opProcedure, name, start, err)
	}
	if len(rows) == 0 {
		s.record(opProcedure, name, metrics.OutcomeAck, start)
		return model.Ack()
	}
	s.record(opProcedure, name, metrics.OutcomeRows, start)
	return model.Rows(rows)
}

func (s *Store) callProcedure(ctx context.Context, call model.ProcedureCall) (out []model.Row, err error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx, call.Statement(), call.Args...)
	if err != nil {
		return nil, err
	}
	if out, err = collect(rows); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Query runs a single read statement. Unlike CallProcedure an empty result
// stays an empty row sequence.
func (s *Store) Query(ctx context.Context, query string, args ...any) model.Result {
	start := time.Now()
	name := statementName(query)

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return s.fail(opQuery, name, start, err)
	}
	s.record(opQuery, name, metrics.OutcomeRows, start)
	return model.Rows(rows)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]model.Row, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// AddRating stores a rating under the next free id. The id lookup locks the
// ratings index so concurrent inserts cannot pick the same value. On an empty
// table both lookups share a gap lock and InnoDB aborts one insert with a
// deadlock; that transaction is retried once.
func (s *Store) AddRating(ctx context.Context, r model.Rating) model.Result {
	start := time.Now()
	err := s.addRating(ctx, r)
	if isDeadlock(err) {
		metrics.RecordErrorByType("deadlock", "medium")
		err = s.addRating(ctx, r)
	}
	if err != nil {
		return s.fail(opRating, statementName(StmtInsertRating), start, err)
	}
	s.record(opRating, statementName(StmtInsertRating), metrics.OutcomeAck, start)
	return model.Ack()
}

func (s *Store) addRating(ctx context.Context, r model.Rating) (err error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var nextID int64
	err = tx.QueryRowContext(ctx, QueryNextRatingID).Scan(&nextID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		nextID, err = 1, nil
	case err != nil:
		return err
	}

	if _, err = tx.ExecContext(ctx, StmtInsertRating, nextID, r.ProfileID, r.ContentID, r.Rating, r.Review); err != nil {
		return err
	}
	return tx.Commit()
}

// Ping verifies that a connection can be established.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Stats returns the pool statistics.
func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}

// Close stops the metrics updater and closes the pool. It is safe to call
// more than once; later calls return ErrClosed.
func (s *Store) Close() error {
	err := ErrClosed
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// startMetricsUpdater mirrors pool statistics into gauges until Close.
func (s *Store) startMetricsUpdater() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateDBPoolStats(s.db.Stats())
			}
		}
	}()
}

func (s *Store) record(operation, name, outcome string, start time.Time) {
	metrics.RecordDBCall(operation, name, outcome, float64(time.Since(start).Milliseconds()))
}

func (s *Store) fail(operation, name string, start time.Time, err error) model.Result {
	elapsed := float64(time.Since(start).Milliseconds())
	metrics.RecordDBCall(operation, name, metrics.OutcomeError, elapsed)
	metrics.RecordErrorByType(errorType(err), "high")
	metrics.RecordErrorLatency("repository", errorType(err), elapsed)
	return model.Failure(err.Error())
}

// isDeadlock reports whether InnoDB rolled the transaction back to break a deadlock.
func isDeadlock(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == errDeadlock
}

// errorType buckets driver errors into a small label set.
func errorType(err error) string {
	var myErr *mysql.MySQLError
	switch {
	case errors.As(err, &myErr):
		return "mysql"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, mysql.ErrInvalidConn):
		return "connection"
	default:
		return "driver"
	}
}
