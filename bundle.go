package stepform

import "database/sql"

// SQLiteBundle wires a durable session store and a submission journal
// over one shared SQLite database.
//
// Typical usage:
//
//	db, _ := sql.Open("sqlite", "file:forms.db?_journal=WAL")
//	bundle, err := stepform.NewSQLiteBundle(db, sessionID)
//	ctrl := wiz.Controller(bundle.Store, validator)
type SQLiteBundle struct {
	Store   Store
	Journal Journal
}

// NewSQLiteBundle constructs the store handle for sessionID plus the
// journal, initializing both schemas in db.
func NewSQLiteBundle(db *sql.DB, sessionID string) (*SQLiteBundle, error) {
	store, err := NewSQLiteStore(db, sessionID)
	if err != nil {
		return nil, err
	}

	journal, err := NewSQLiteJournal(db)
	if err != nil {
		return nil, err
	}

	return &SQLiteBundle{
		Store:   store,
		Journal: journal,
	}, nil
}
