package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Credentials is the persisted session state: exactly two strings, saved
// and cleared together.
type Credentials struct {
	Token    string
	Username string
}

func (c Credentials) IsZero() bool { return c.Token == "" }

// Store persists credentials between runs.
type Store interface {
	Load(ctx context.Context) (Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the session in a single-row local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the persisted credentials, or a zero value when no session
// has been saved.
func (s *SQLiteStore) Load(ctx context.Context) (Credentials, error) {
	var creds Credentials
	row := s.db.QueryRowContext(ctx, `SELECT token, username FROM session WHERE id = 1`)
	if err := row.Scan(&creds.Token, &creds.Username); err != nil {
		if err == sql.ErrNoRows {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf("load session: %w", err)
	}
	return creds, nil
}

func (s *SQLiteStore) Save(ctx context.Context, creds Credentials) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, token, username, saved_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			token = excluded.token,
			username = excluded.username,
			saved_at = excluded.saved_at`,
		creds.Token, creds.Username)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
