package trivia

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sessionSchema = `
CREATE TABLE IF NOT EXISTS trivia_sessions (
	id             TEXT PRIMARY KEY,
	question_index INTEGER NOT NULL,
	score          INTEGER NOT NULL,
	updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteStore persists trivia sessions in a SQLite database so games
// survive a process restart.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if missing) the database at path and
// applies the session schema.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping session database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sessionSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply session schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the session for the id, or ErrSessionNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT question_index, score FROM trivia_sessions WHERE id = ?`, id,
	).Scan(&sess.Index, &sess.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return &sess, nil
}

// Put creates or replaces the session for the id.
func (s *SQLiteStore) Put(ctx context.Context, id string, sess *Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trivia_sessions (id, question_index, score) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			question_index = excluded.question_index,
			score = excluded.score,
			updated_at = CURRENT_TIMESTAMP`,
		id, sess.Index, sess.Score,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// Delete removes the session for the id. Missing sessions are ignored.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trivia_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
