// Package store loads the derived campaign tables into PostgreSQL.
//
// Loading mirrors the CSV emission: each run replaces the previous contents of
// the three tables. Rows are sent with the COPY protocol using the typed pgtype
// values of the records, so missing values arrive as NULL.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/campaigns/internal/config"
	"github.com/JonMunkholm/campaigns/internal/core"
	"github.com/JonMunkholm/campaigns/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx used by Load.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// schemaDDL creates the sink tables. Column names match the CSV headers.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS campaign_client (
		client_id      BIGINT PRIMARY KEY,
		age            BIGINT,
		job            TEXT NOT NULL,
		marital        TEXT NOT NULL,
		education      TEXT,
		credit_default SMALLINT NOT NULL,
		mortgage       SMALLINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_contact (
		client_id                  BIGINT PRIMARY KEY,
		number_contacts            BIGINT,
		contact_duration           BIGINT,
		previous_campaign_contacts BIGINT,
		previous_outcome           SMALLINT NOT NULL,
		campaign_outcome           SMALLINT NOT NULL,
		last_contact_date          TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_economics (
		client_id            BIGINT PRIMARY KEY,
		cons_price_idx       DOUBLE PRECISION,
		euribor_three_months DOUBLE PRECISION
	)`,
}

// EnsureSchema creates the sink tables if they do not exist.
func EnsureSchema(ctx context.Context, db DBTX) error {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// LoadResult reports the rows copied per table key.
type LoadResult struct {
	Rows     map[string]int64
	Duration time.Duration
}

// Load replaces the contents of the sink tables with ds.
// Callers should run it inside a transaction so a failure leaves the
// previous contents in place.
func Load(ctx context.Context, db DBTX, ds *core.Dataset) (*LoadResult, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	if err := EnsureSchema(ctx, db); err != nil {
		return nil, err
	}

	result := &LoadResult{Rows: make(map[string]int64)}

	for _, t := range ds.Tables() {
		info := t.Info()
		ident := pgx.Identifier{info.SQLName}

		if _, err := db.Exec(ctx, "TRUNCATE TABLE "+ident.Sanitize()); err != nil {
			return nil, fmt.Errorf("truncate %s: %w", info.SQLName, err)
		}

		n, err := db.CopyFrom(ctx, ident, info.Columns, pgx.CopyFromSlice(t.Len(), func(i int) ([]any, error) {
			return t.Values(i), nil
		}))
		if err != nil {
			return nil, fmt.Errorf("copy into %s: %w", info.SQLName, err)
		}
		if n != int64(t.Len()) {
			return nil, fmt.Errorf("copy into %s: copied %d rows, expected %d", info.SQLName, n, t.Len())
		}

		logger.Debug("table loaded", "table", info.SQLName, "rows", n)
		result.Rows[info.Key] = n
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Sink is a PostgreSQL destination backed by a connection pool.
type Sink struct {
	pool *pgxpool.Pool
	cfg  config.DatabaseConfig
}

// Connect opens and verifies a pool for the configured database.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Sink, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Sink{pool: pool, cfg: cfg}, nil
}

// Close releases the pool.
func (s *Sink) Close() {
	s.pool.Close()
}

// Publish loads ds in a single transaction bounded by the configured timeout.
func (s *Sink) Publish(ctx context.Context, ds *core.Dataset) (*LoadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.LoadTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	result, err := Load(ctx, tx, ds)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}
