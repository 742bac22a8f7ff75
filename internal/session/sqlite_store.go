package session

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/petrijr/stepform/pkg/api"
)

// SQLiteStore is an api.Store backed by SQLite, keyed by session id.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing the
// driver, e.g.:
//
//	import _ "modernc.org/sqlite"
//
// Writes are staged in memory and flushed in one transaction by Save, so
// the bucket's persist is as atomic as SQLite allows.
type SQLiteStore struct {
	db        *sql.DB
	sessionID string

	mu     sync.Mutex
	staged map[string]any
}

// Ensure SQLiteStore implements api.Store.
var _ api.Store = (*SQLiteStore)(nil)

// NewSQLiteStore initializes the required schema in the given database and
// returns a store handle scoped to sessionID.
func NewSQLiteStore(db *sql.DB, sessionID string) (*SQLiteStore, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}

	s := &SQLiteStore{
		db:        db,
		sessionID: sessionID,
		staged:    make(map[string]any),
	}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS form_sessions (
			session_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB,
			PRIMARY KEY (session_id, key)
		);`,
	)
	return err
}

func (s *SQLiteStore) Get(key string, def any) (any, error) {
	s.mu.Lock()
	if v, ok := s.staged[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	row := s.db.QueryRow(`
		SELECT value FROM form_sessions
		WHERE session_id = ? AND key = ?`,
		s.sessionID, key,
	)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return def, nil
		}
		return nil, err
	}

	v, err := DecodeValue(raw)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return def, nil
	}
	return v, nil
}

func (s *SQLiteStore) Put(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged[key] = value
	return nil
}

func (s *SQLiteStore) Increment(key string) error {
	cur, err := s.Get(key, 0)
	if err != nil {
		return err
	}
	n, _ := asInt(cur)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged[key] = n + 1
	return nil
}

// Save flushes all staged writes in one transaction.
func (s *SQLiteStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.staged) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for key, value := range s.staged {
		raw, err := EncodeValue(value)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec(`
			INSERT INTO form_sessions (session_id, key, value)
			VALUES (?, ?, ?)
			ON CONFLICT (session_id, key) DO UPDATE SET value = excluded.value`,
			s.sessionID, key, raw,
		); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.staged = make(map[string]any)
	return nil
}
