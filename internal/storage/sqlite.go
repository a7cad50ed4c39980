package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist. ":memory:" is accepted for tests.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS embeddings (
		key TEXT PRIMARY KEY,
		model TEXT NOT NULL,
		dimensions INTEGER NOT NULL,
		vector BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_embeddings_model ON embeddings(model);
	`
	_, err := db.Exec(schema)
	return err
}

// GetEmbedding returns the cached vector for key, or ErrNotFound.
func (s *SQLiteStorage) GetEmbedding(ctx context.Context, key string) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT vector FROM embeddings WHERE key = ?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeVector(blob), nil
}

// PutEmbedding inserts or replaces a single vector.
func (s *SQLiteStorage) PutEmbedding(ctx context.Context, key, model string, vector []float32) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO embeddings (key, model, dimensions, vector, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		key, model, len(vector), encodeVector(vector), time.Now(),
	)
	return err
}

// BatchPutEmbeddings writes entries in one transaction.
func (s *SQLiteStorage) BatchPutEmbeddings(ctx context.Context, model string, entries map[string][]float32) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO embeddings (key, model, dimensions, vector, created_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for key, vec := range entries {
		if _, err := stmt.ExecContext(ctx, key, model, len(vec), encodeVector(vec), now); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// DeleteModel drops every vector produced by model.
func (s *SQLiteStorage) DeleteModel(ctx context.Context, model string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM embeddings WHERE model = ?`, model)
	return err
}

// CountEmbeddings returns the number of cached vectors.
func (s *SQLiteStorage) CountEmbeddings(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embeddings`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func encodeVector(v []float32) []byte {
	out := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(f))
	}
	return out
}

func decodeVector(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}
