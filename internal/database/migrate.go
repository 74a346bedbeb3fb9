package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schema string

// Schema returns the DDL applied by Migrate.
func Schema() string {
	return schema
}

// Migrate creates the tables and indexes when they do not exist yet. It is
// safe to run repeatedly. The schema holds several statements, so it is
// sent without arguments over the simple protocol.
func (db *DB) Migrate(ctx context.Context) error {
	ctx, span := db.start(ctx, "migrate", "schema.sql")
	defer span.End()

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return db.finish(span, fmt.Errorf("migrate: %w", err))
	}

	return nil
}
