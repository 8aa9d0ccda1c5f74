package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/vitalgraph/mediq/internal/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	title TEXT,
	content TEXT,
	updated_at INTEGER,
	PRIMARY KEY (user_id, session_id)
)`

// Store persists chat sessions keyed by (user, session).
type Store struct {
	db *sql.DB
}

func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing session schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts a session. The content is the serialized chat transcript.
func (s *Store) Save(ctx context.Context, userID string, sess model.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, session_id, title, content, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, session_id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			updated_at = excluded.updated_at`,
		userID, sess.SessionID, sess.Title, sess.Content, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// List returns the user's sessions, most recently updated first. Content is
// omitted to keep the listing light.
func (s *Store) List(ctx context.Context, userID string) ([]model.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id, title, updated_at FROM sessions WHERE user_id = ? ORDER BY updated_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var sess model.Session
		if err := rows.Scan(&sess.SessionID, &sess.Title, &sess.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Get returns a single session with its content, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, userID, sessionID string) (model.Session, error) {
	var sess model.Session
	err := s.db.QueryRowContext(ctx,
		"SELECT session_id, title, content, updated_at FROM sessions WHERE user_id = ? AND session_id = ?",
		userID, sessionID,
	).Scan(&sess.SessionID, &sess.Title, &sess.Content, &sess.UpdatedAt)
	if err != nil {
		return model.Session{}, err
	}
	return sess, nil
}

func (s *Store) Delete(ctx context.Context, userID, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE user_id = ? AND session_id = ?", userID, sessionID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
