// Package sqlite implements the compendium store on an embedded SQLite
// database: layered compendium tables with merged views, trigger-guarded
// mappings, dual-representation characters, and the starting-equipment
// engine.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/lorekeep/nexus/internal/errors"
	sqlitemigrate "github.com/lorekeep/nexus/internal/platform/storage/sqlitemigrate"

	"github.com/lorekeep/nexus/internal/compendium/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists the compendium and characters in SQLite. The connection
// pool is capped at one connection; callers serialize access through the
// service layer's guard.
type Store struct {
	sqlDB *sql.DB
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

// Open opens (or creates) the store at path, brings it to the current
// schema and rebuilds the derived views, triggers and indices.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, apperrors.Wrap(err, apperrors.CodeMigration, "run migrations")
	}
	return &Store{sqlDB: sqlDB}, nil
}

// migrate applies the one-shot schema files, then the guarded column adds,
// then the repeatable view/trigger/index batch. Safe on empty databases,
// current databases and databases carrying user data from older schemas.
func migrate(sqlDB *sql.DB) error {
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, "schema"); err != nil {
		return err
	}
	if err := sqlitemigrate.EnsureColumns(sqlDB, "character_inventory", []sqlitemigrate.ColumnSpec{
		{Name: "attuned", Definition: "INTEGER NOT NULL DEFAULT 0"},
		{Name: "location", Definition: "TEXT NOT NULL DEFAULT 'Body'"},
		{Name: "source", Definition: "TEXT NOT NULL DEFAULT 'manual'"},
		{Name: "is_starting_equipment", Definition: "INTEGER NOT NULL DEFAULT 0"},
	}); err != nil {
		return err
	}
	return sqlitemigrate.ApplyRepeatable(sqlDB, migrations.FS, "repeatable")
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) beginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so helpers can run inside
// or outside an explicit transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func notFound(format string, args ...any) error {
	return apperrors.Newf(apperrors.CodeNotFound, format, args...)
}

// nullStr maps "" to NULL for optional text columns.
func nullStr(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

// nullJSON maps empty raw JSON to NULL.
func nullJSON(value json.RawMessage) any {
	if len(value) == 0 {
		return nil
	}
	return string(value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func rawOrNil(value sql.NullString) json.RawMessage {
	if !value.Valid || value.String == "" {
		return nil
	}
	return json.RawMessage(value.String)
}

func strOr(value sql.NullString) string {
	if !value.Valid {
		return ""
	}
	return value.String
}
