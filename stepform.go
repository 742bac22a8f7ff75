package stepform

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/petrijr/stepform/internal/session"
	"github.com/petrijr/stepform/internal/wizard"
	"github.com/petrijr/stepform/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Controller           = api.Controller
	ResponseKind         = api.ResponseKind
	Outcome              = api.Outcome
	StepConfig           = api.StepConfig
	StepRegistry         = api.StepRegistry
	Selector             = api.Selector
	Hook                 = api.Hook
	HookSet              = api.HookSet
	Form                 = api.Form
	Phase                = api.Phase
	Request              = api.Request
	Response             = api.Response
	Payload              = api.Payload
	ValidationError      = api.ValidationError
	Store                = api.Store
	Validator            = api.Validator
	Renderer             = api.Renderer
	Journal              = api.Journal
	JournalEntry         = api.JournalEntry
	Observer             = api.Observer
	NoopObserver         = api.NoopObserver
	CompositeObserver    = api.CompositeObserver
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
)

// Re-export common helpers and selectors.

var (
	OnStep                = api.OnStep
	AnyStep               = api.AnyStep
	NewStepRegistry       = api.NewStepRegistry
	NewHookSet            = api.NewHookSet
	NewLoggingObserver    = api.NewLoggingObserver
	NewCompositeObserver  = api.NewCompositeObserver
	NewJournalingObserver = api.NewJournalingObserver
	RenderedResponse      = api.RenderedResponse
	StructuredResponse    = api.StructuredResponse
	Redirect              = api.Redirect
	Invalid               = api.Invalid
	AsValidationError     = api.AsValidationError
)

// Re-export field and phase constants for convenience.

const (
	StepField        = api.StepField
	DefaultNamespace = api.DefaultNamespace
	BeforeValidation = api.BeforeValidation
	AfterValidation  = api.AfterValidation

	Rendered         = api.Rendered
	Structured       = api.Structured
	RedirectSelf     = api.RedirectSelf
	ValidationFailed = api.ValidationFailed

	OutcomeSaved            = api.OutcomeSaved
	OutcomeValidationFailed = api.OutcomeValidationFailed
	OutcomeShortCircuited   = api.OutcomeShortCircuited
	OutcomeAdvanced         = api.OutcomeAdvanced
	OutcomeReset            = api.OutcomeReset
)

// Config mirrors the controller configuration for callers that prefer
// explicit wiring over the builder.
type Config = wizard.Config

// NewController creates a controller from an explicit configuration.
// Most callers use the WizardBuilder instead.
func NewController(cfg Config) Controller {
	return wizard.New(cfg)
}

// Store constructors
// These wrap the internal/session package so external callers never need
// to import internal packages.

// NewMemoryStore returns a non-durable in-memory store, useful for tests
// and the Walkthrough driver.
func NewMemoryStore() Store {
	return session.NewMemoryStore()
}

// NewSQLiteStore returns a session store handle scoped to sessionID,
// persisted in a SQLite database. The caller imports the driver, e.g.
// "modernc.org/sqlite".
func NewSQLiteStore(db *sql.DB, sessionID string) (Store, error) {
	return session.NewSQLiteStore(db, sessionID)
}

// NewPostgresStore returns a session store handle scoped to sessionID,
// persisted in PostgreSQL.
func NewPostgresStore(db *sql.DB, sessionID string) (Store, error) {
	return session.NewPostgresStore(db, sessionID)
}

// NewRedisStore returns a session store handle scoped to sessionID,
// persisted in Redis under the given key prefix ("" uses a default).
func NewRedisStore(ctx context.Context, client *redis.Client, sessionID, prefix string) (Store, error) {
	return session.NewRedisStore(ctx, client, sessionID, prefix)
}

// Journal constructors

// NewMemoryJournal returns an in-memory submission journal.
func NewMemoryJournal() Journal {
	return session.NewMemoryJournal()
}

// NewSQLiteJournal returns a submission journal persisted in SQLite.
func NewSQLiteJournal(db *sql.DB) (Journal, error) {
	return session.NewSQLiteJournal(db)
}
