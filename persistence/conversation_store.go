// Package persistence stores chat sessions and OAuth credentials.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arctechlabs/iris/framework"
)

// ConversationStore persists chat histories per session.
type ConversationStore interface {
	Append(ctx context.Context, sessionID string, messages ...framework.Message) error
	History(ctx context.Context, sessionID string) (framework.Conversation, error)
	Clear(ctx context.Context, sessionID string) error
}

// MemoryConversationStore keeps histories in memory. Used by tests and the
// one-shot CLI chat mode.
type MemoryConversationStore struct {
	mu       sync.RWMutex
	sessions map[string]framework.Conversation
}

// NewMemoryConversationStore builds an empty in-memory store.
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{sessions: make(map[string]framework.Conversation)}
}

// Append stores messages for a session.
func (s *MemoryConversationStore) Append(ctx context.Context, sessionID string, messages ...framework.Message) error {
	if sessionID == "" {
		return errors.New("session id required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], messages...)
	return nil
}

// History returns a copy of the session's conversation.
func (s *MemoryConversationStore) History(ctx context.Context, sessionID string) (framework.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID].Clone(), nil
}

// Clear removes a session.
func (s *MemoryConversationStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// SQLiteStore backs both the conversation and credential stores with one
// database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("database path required")
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id);

CREATE TABLE IF NOT EXISTS credentials (
	user_id    TEXT NOT NULL,
	provider   TEXT NOT NULL,
	token      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, provider)
);`)
	return err
}

// Append stores messages for a session in order.
func (s *SQLiteStore) Append(ctx context.Context, sessionID string, messages ...framework.Message) error {
	if sessionID == "" {
		return errors.New("session id required")
	}
	if len(messages) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO messages (session_id, role, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, msg := range messages {
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, sessionID, string(msg.Role), string(payload)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// History returns the session's conversation in insertion order.
func (s *SQLiteStore) History(ctx context.Context, sessionID string) (framework.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM messages WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var conv framework.Conversation
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var msg framework.Message
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			return nil, err
		}
		conv = append(conv, msg)
	}
	return conv, rows.Err()
}

// Clear removes a session's messages.
func (s *SQLiteStore) Clear(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID)
	return err
}
