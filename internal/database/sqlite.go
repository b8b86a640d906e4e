// Package database persists the packaging audit trail in SQLite.
package database

import (
	"context"
	"database/sql"
	"fmt"

	"tp-go/internal/database/migrations"
	"tp-go/internal/model"
	"tp-go/internal/tp"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens a SQLite database at path, which can be a file
// path or ":memory:" for an in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteDatabase{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs
// the audit schema relies on. Exported for tests that need a raw handle.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every pooled connection to :memory: would get its own empty database,
	// so in-memory databases must stay on a single connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// SQLite defaults foreign keys to OFF for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return db, nil
}

// Migrate brings the schema to the latest version.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.Up(s.db)
}

// CheckMigrations verifies the schema is current without changing it.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.Check(s.db)
}

// CreateRun inserts a new packaging run record.
func (s *SQLiteDatabase) CreateRun(run *model.PackagingRun) error {
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO packaging_runs (id, account_id, source_dir, destination_dir, status, attempted, succeeded, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.AccountID, run.SourceDir, run.DestinationDir, run.Status,
		run.Attempted, run.Succeeded, run.Failed, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting packaging run: %w", err)
	}
	return nil
}

// FinishRun resolves a run with its final status and ledger counts.
func (s *SQLiteDatabase) FinishRun(id, status string, attempted, succeeded, failed int64) error {
	res, err := s.db.ExecContext(context.Background(), `
		UPDATE packaging_runs
		SET status = ?, attempted = ?, succeeded = ?, failed = ?, finished_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		status, attempted, succeeded, failed, id)
	if err != nil {
		return fmt.Errorf("finishing packaging run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing packaging run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("packaging run not found: %s", id)
	}
	return nil
}

// CreateTransfer inserts one resolved transfer outcome.
func (s *SQLiteDatabase) CreateTransfer(transfer *model.Transfer) error {
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO transfers (id, run_id, category, item_path, passed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		transfer.ID, transfer.RunID, transfer.Category, transfer.ItemPath,
		transfer.Passed, transfer.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting transfer: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteDatabase) ListRuns(limit int64) ([]*model.PackagingRun, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, account_id, source_dir, destination_dir, status, attempted, succeeded, failed, created_at, finished_at
		FROM packaging_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing packaging runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.PackagingRun
	for rows.Next() {
		var run model.PackagingRun
		if err := rows.Scan(&run.ID, &run.AccountID, &run.SourceDir, &run.DestinationDir,
			&run.Status, &run.Attempted, &run.Succeeded, &run.Failed,
			&run.CreatedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning packaging run: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing packaging runs: %w", err)
	}
	return runs, nil
}

// ListTransfers returns a run's transfers in recording order.
func (s *SQLiteDatabase) ListTransfers(runID string) ([]*model.Transfer, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT id, run_id, category, item_path, passed, created_at
		FROM transfers
		WHERE run_id = ?
		ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*model.Transfer
	for rows.Next() {
		var t model.Transfer
		if err := rows.Scan(&t.ID, &t.RunID, &t.Category, &t.ItemPath, &t.Passed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		transfers = append(transfers, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	return transfers, nil
}

// Close releases the underlying connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteDatabase implements the interface.
var _ tp.Database = (*SQLiteDatabase)(nil)
