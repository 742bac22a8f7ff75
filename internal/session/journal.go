package session

import (
	"database/sql"
	"sync"

	"github.com/petrijr/stepform/pkg/api"
)

// MemoryJournal is a goroutine-safe, in-memory api.Journal.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []api.JournalEntry
}

// NewMemoryJournal creates an empty MemoryJournal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

var _ api.Journal = (*MemoryJournal)(nil)

func (j *MemoryJournal) Append(entry api.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, entry)
	return nil
}

func (j *MemoryJournal) List(namespace string) ([]api.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []api.JournalEntry
	for _, e := range j.entries {
		if namespace != "" && e.Namespace != namespace {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// SQLiteJournal is an api.Journal persisted in SQLite, append-only.
type SQLiteJournal struct {
	db *sql.DB
}

var _ api.Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal initializes the journal schema and returns the journal.
func NewSQLiteJournal(db *sql.DB) (*SQLiteJournal, error) {
	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS form_journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			namespace TEXT NOT NULL,
			step INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			detail TEXT,
			at INTEGER NOT NULL
		);`,
	)
	return err
}

func (j *SQLiteJournal) Append(entry api.JournalEntry) error {
	_, err := j.db.Exec(`
		INSERT INTO form_journal (namespace, step, outcome, detail, at)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Namespace,
		entry.Step,
		string(entry.Outcome),
		entry.Detail,
		entry.UnixNano,
	)
	return err
}

func (j *SQLiteJournal) List(namespace string) ([]api.JournalEntry, error) {
	query := `
		SELECT namespace, step, outcome, detail, at
		FROM form_journal`
	var args []any

	if namespace != "" {
		query += " WHERE namespace = ?"
		args = append(args, namespace)
	}
	query += " ORDER BY id"

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []api.JournalEntry
	for rows.Next() {
		var e api.JournalEntry
		var outcome string
		if err := rows.Scan(&e.Namespace, &e.Step, &outcome, &e.Detail, &e.UnixNano); err != nil {
			return nil, err
		}
		e.Outcome = api.Outcome(outcome)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
