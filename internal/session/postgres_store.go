package session

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/petrijr/stepform/pkg/api"
)

// PostgresStore is an api.Store backed by PostgreSQL, keyed by session id.
//
// It works against any database/sql driver speaking Postgres placeholders
// (pgx stdlib, lib/pq); the caller supplies the *sql.DB. The staging and
// flush behavior matches SQLiteStore.
type PostgresStore struct {
	db        *sql.DB
	sessionID string

	mu     sync.Mutex
	staged map[string]any
}

// Ensure PostgresStore implements api.Store.
var _ api.Store = (*PostgresStore)(nil)

// NewPostgresStore initializes the required schema in the given database
// and returns a store handle scoped to sessionID.
func NewPostgresStore(db *sql.DB, sessionID string) (*PostgresStore, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}

	s := &PostgresStore{
		db:        db,
		sessionID: sessionID,
		staged:    make(map[string]any),
	}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS form_sessions (
			session_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value BYTEA,
			PRIMARY KEY (session_id, key)
		);`,
	)
	return err
}

func (s *PostgresStore) Get(key string, def any) (any, error) {
	s.mu.Lock()
	if v, ok := s.staged[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	row := s.db.QueryRow(`
		SELECT value FROM form_sessions
		WHERE session_id = $1 AND key = $2`,
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

func (s *PostgresStore) Put(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.staged[key] = value
	return nil
}

func (s *PostgresStore) Increment(key string) error {
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
func (s *PostgresStore) Save() error {
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
			VALUES ($1, $2, $3)
			ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value`,
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
