package api

// Store is the external session persistence contract: a durable,
// per-user-scoped key-value resource. A Store handle is request-scoped and
// sequentially accessed; writes become durable on Save.
//
// The wizard core never reaches for ambient session state. A Store is
// always injected explicitly, which keeps the core testable against an
// in-memory double.
type Store interface {
	// Get returns the value at key, or def when the key is absent.
	Get(key string, def any) (any, error)

	// Put stages value at key.
	Put(key string, value any) error

	// Increment stages an integer increment of the value at key.
	// An absent or non-integer value counts as 0.
	Increment(key string) error

	// Save flushes staged writes to durable storage.
	Save() error
}

// Validator is the external validation rule engine contract.
//
// It applies ruleset to input and returns the validated subset of input:
// only submitted fields covered by a rule appear in the result, so
// extraneous input is dropped and rule-covered fields absent from the
// submission are not manufactured. On invalid input it fails with a
// *ValidationError carrying per-field messages; messages overrides the
// engine's defaults by "field.rule" or bare rule key.
type Validator interface {
	Validate(input map[string]any, ruleset map[string]string, messages map[string]string) (map[string]any, error)
}

// Renderer is the external template renderer contract.
type Renderer interface {
	Render(template string, data map[string]any) ([]byte, error)
}

// Journal is an append-only record of pipeline outcomes, useful for audit
// trails and debugging multi-step submissions. It is fed by a journaling
// Observer and is never on the request critical path.
type Journal interface {
	Append(entry JournalEntry) error
	List(namespace string) ([]JournalEntry, error)
}

// JournalEntry is one recorded pipeline outcome.
type JournalEntry struct {
	Namespace string
	Step      int
	Outcome   Outcome
	Detail    string
	UnixNano  int64
}

// Outcome classifies how a pipeline pass ended.
type Outcome string

const (
	OutcomeSaved            Outcome = "saved"
	OutcomeValidationFailed Outcome = "validation_failed"
	OutcomeShortCircuited   Outcome = "short_circuited"
	OutcomeAdvanced         Outcome = "advanced"
	OutcomeReset            Outcome = "reset"
)
