package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bdactivity/internal/log"
	"bdactivity/internal/source"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the last imported activity table. Cells are stored
// per row as a JSON array aligned with activity_columns, so the schema stays
// open to extra columns.
type SQLiteRepository struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

var (
	_ source.Source = (*SQLiteRepository)(nil)
	_ source.Writer = (*SQLiteRepository)(nil)
)

// Import describes one ReplaceAll run.
type Import struct {
	ID         int64     `json:"id"`
	Source     string    `json:"source"`
	Rows       int       `json:"rows"`
	ImportedAt time.Time `json:"imported_at"`
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		path:   dbPath,
		logger: logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Name() string { return "sqlite" }

// Identity names the database and its latest import, so a new import is a
// new dataset.
func (r *SQLiteRepository) Identity(ctx context.Context) (string, error) {
	imp, err := r.LastImport(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	return fmt.Sprintf("sqlite:%s@%d", r.path, imp.ID), nil
}

// LastImport returns the most recent import; sql.ErrNoRows if none happened.
func (r *SQLiteRepository) LastImport(ctx context.Context) (Import, error) {
	var (
		imp Import
		at  string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source, row_count, imported_at FROM imports ORDER BY id DESC LIMIT 1`).
		Scan(&imp.ID, &imp.Source, &imp.Rows, &at)
	if err != nil {
		return Import{}, err
	}
	imp.ImportedAt, err = time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return Import{}, fmt.Errorf("parse import time: %w", err)
	}
	return imp, nil
}

func (r *SQLiteRepository) Fetch(ctx context.Context) (source.Table, error) {
	header, err := r.columns(ctx)
	if err != nil {
		return source.Table{}, err
	}
	if len(header) == 0 {
		return source.Table{}, source.ErrNoData
	}

	rows, err := r.db.QueryContext(ctx, `SELECT row_number, cells FROM activity_rows ORDER BY row_number`)
	if err != nil {
		return source.Table{}, fmt.Errorf("query activity rows: %w", err)
	}
	defer rows.Close()

	t := source.Table{Header: header}
	for rows.Next() {
		var (
			n     int64
			cells string
		)
		if err := rows.Scan(&n, &cells); err != nil {
			return source.Table{}, fmt.Errorf("scan activity row: %w", err)
		}
		var row []string
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			return source.Table{}, fmt.Errorf("decode activity row %d: %w", n, err)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return source.Table{}, fmt.Errorf("iterate activity rows: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) columns(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM activity_columns ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ReplaceAll swaps the stored table for t in a single transaction.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, t source.Table) (int, error) {
	return r.ReplaceAllFrom(ctx, "", t)
}

// ReplaceAllFrom is ReplaceAll that records where the table came from.
func (r *SQLiteRepository) ReplaceAllFrom(ctx context.Context, origin string, t source.Table) (int, error) {
	if len(t.Header) == 0 {
		return 0, source.ErrNoData
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM activity_rows`, `DELETE FROM activity_columns`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("clear activities: %w", err)
		}
	}

	for i, name := range t.Header {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO activity_columns (position, name) VALUES (?, ?)`, i, name); err != nil {
			return 0, fmt.Errorf("insert column %q: %w", name, err)
		}
	}

	insert, err := tx.PrepareContext(ctx, `INSERT INTO activity_rows (row_number, cells) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare row insert: %w", err)
	}
	defer insert.Close()

	for i, row := range t.Rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return 0, fmt.Errorf("encode row %d: %w", i+1, err)
		}
		if _, err := insert.ExecContext(ctx, i+1, string(cells)); err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (source, row_count, imported_at) VALUES (?, ?, ?)`,
		origin, len(t.Rows), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return 0, fmt.Errorf("record import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	r.logger.InfoContext(ctx, "Activities imported",
		log.FieldOperation, log.OpImport,
		log.FieldSource, origin,
		log.FieldRecords, len(t.Rows),
		log.FieldColumns, len(t.Header))

	return len(t.Rows), nil
}
