// Package database is a thin wrapper over a pgx connection pool. Statements
// take their values as named parameters, bound with pgx.NamedArgs, so user
// input never becomes part of the SQL text.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vitalvas/workopia/internal/database"

// ErrNoRows is returned by FetchOne when the statement matched no row.
var ErrNoRows = errors.New("database: no rows in result set")

// Params maps placeholder names (written as @name in SQL) to values.
type Params map[string]any

// Config configures the connection pool.
type Config struct {
	URL      string
	MaxConns int32
}

// Querier runs a statement that returns rows.
type Querier interface {
	Query(ctx context.Context, sql string, params Params) (pgx.Rows, error)
}

// pool is the subset of *pgxpool.Pool used by DB.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Close()
}

// DB executes parameterized statements and traces every call.
type DB struct {
	pool   pool
	tracer trace.Tracer
}

// Open creates a pgx pool for cfg.URL and verifies it with a ping.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return newDB(p), nil
}

func newDB(p pool) *DB {
	return &DB{
		pool:   p,
		tracer: otel.Tracer(tracerName),
	}
}

// Close releases every pooled connection.
func (db *DB) Close() {
	db.pool.Close()
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	ctx, span := db.start(ctx, "ping", "SELECT 1")
	defer span.End()

	return db.finish(span, db.pool.Ping(ctx))
}

// Query runs a statement and returns its rows. The caller must close them.
func (db *DB) Query(ctx context.Context, sql string, params Params) (pgx.Rows, error) {
	ctx, span := db.start(ctx, "query", sql)
	defer span.End()

	rows, err := db.pool.Query(ctx, sql, pgx.NamedArgs(params))
	if err != nil {
		return nil, db.finish(span, fmt.Errorf("query: %w", err))
	}

	return rows, nil
}

// Exec runs a statement that returns no rows and reports the number of rows
// affected.
func (db *DB) Exec(ctx context.Context, sql string, params Params) (int64, error) {
	ctx, span := db.start(ctx, "exec", sql)
	defer span.End()

	tag, err := db.pool.Exec(ctx, sql, pgx.NamedArgs(params))
	if err != nil {
		return 0, db.finish(span, fmt.Errorf("exec: %w", err))
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tag.RowsAffected()))

	return tag.RowsAffected(), nil
}

// Insert runs an INSERT ... RETURNING id statement and returns the
// generated primary key.
func (db *DB) Insert(ctx context.Context, sql string, params Params) (int64, error) {
	ctx, span := db.start(ctx, "insert", sql)
	defer span.End()

	var id int64
	if err := db.pool.QueryRow(ctx, sql, pgx.NamedArgs(params)).Scan(&id); err != nil {
		return 0, db.finish(span, fmt.Errorf("insert: %w", err))
	}

	return id, nil
}

// FetchAll runs a statement and scans every row into T by column name.
// An empty result is an empty, non-nil slice.
func FetchAll[T any](ctx context.Context, q Querier, sql string, params Params) ([]T, error) {
	rows, err := q.Query(ctx, sql, params)
	if err != nil {
		return nil, err
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

// FetchOne runs a statement and scans the first row into T by column name.
// It returns ErrNoRows when the statement matched nothing.
func FetchOne[T any](ctx context.Context, q Querier, sql string, params Params) (T, error) {
	var zero T

	rows, err := q.Query(ctx, sql, params)
	if err != nil {
		return zero, err
	}

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrNoRows
		}
		return zero, fmt.Errorf("collect row: %w", err)
	}

	return item, nil
}

func (db *DB) start(ctx context.Context, op, sql string) (context.Context, trace.Span) {
	return db.tracer.Start(ctx, "db."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", op),
			attribute.String("db.statement", sql),
		),
	)
}

func (db *DB) finish(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
