package api

import "context"

// StepField is the reserved form field carrying the step indicator.
// Submissions may use it to explicitly override the persisted step, and the
// controller stamps the resolved step back into the bucket under this name.
const StepField = "form_step"

// DefaultNamespace is the session key prefix used when a wizard is built
// without an explicit namespace.
const DefaultNamespace = "wizard"

// StepConfig is the static configuration for one wizard step.
type StepConfig struct {
	// Rules maps field names to rule expressions understood by the
	// configured Validator, e.g. "required,email".
	Rules map[string]string

	// Messages overrides validation messages. Keys are either
	// "field.rule" or a bare rule name.
	Messages map[string]string

	// Data is supplemental render context for this step. It is surfaced
	// to the renderer and to structured responses, never persisted.
	Data map[string]any
}

// Selector identifies which step a hook is bound to: either one specific
// step number or every step (wildcard).
//
// Selectors are comparable values and are used directly as map keys in
// HookSet, so hook dispatch stays a pure lookup with no reflection.
type Selector struct {
	step     int
	wildcard bool
}

// OnStep returns a selector matching exactly the given step number.
func OnStep(step int) Selector {
	return Selector{step: step}
}

// AnyStep is the wildcard selector. A hook registered with AnyStep is
// evaluated before any step-specific hook in the same phase.
var AnyStep = Selector{wildcard: true}

// IsWildcard reports whether the selector matches every step.
func (s Selector) IsWildcard() bool { return s.wildcard }

// Step returns the specific step number; 0 for the wildcard.
func (s Selector) Step() int {
	if s.wildcard {
		return 0
	}
	return s.step
}

// Phase names the two hook pipeline phases around validation.
type Phase string

const (
	BeforeValidation Phase = "before"
	AfterValidation  Phase = "after"
)

// Hook is a user-supplied callback invoked during the submission pipeline.
// A nil return means "continue"; a non-nil Response short-circuits the
// pipeline and is returned to the caller as-is.
//
// Hooks are trusted extension points: they have no error return, and a
// panicking hook propagates to the caller unhandled.
type Hook func(f Form) *Response

// Form is the request-scoped view of the wizard handed to hooks.
//
// Field/Fields expose the raw submitted input of the current request;
// Value/Values expose the accumulated, previously validated bucket
// contents. Reset wipes the bucket and arranges for the sequence to start
// over (see Controller for the exact advance semantics).
type Form interface {
	// Namespace returns the session key prefix of this wizard instance.
	Namespace() string

	// CurrentStep returns the resolved step for this request.
	CurrentStep() (int, error)

	// LastStep returns the highest registered step number (1 if none).
	LastStep() int

	// Field returns one raw submitted value ("" if absent).
	Field(name string) string

	// Fields returns all raw submitted values of this request.
	Fields() map[string]string

	// Value returns one accumulated bucket value (nil if absent).
	Value(name string) (any, error)

	// Values returns the accumulated bucket contents.
	Values() (map[string]any, error)

	// Reset replaces the entire bucket with data (which may be empty),
	// persists immediately, and marks this request so that a subsequent
	// advance lands on step 1.
	Reset(data map[string]any) error
}

// Request is the transport-independent inbound request contract.
type Request struct {
	// Read marks a non-mutating request: render the current view of the
	// form and touch nothing. Non-read requests run the submission
	// pipeline.
	Read bool

	// Fields carries the raw submitted form input. For read requests it
	// may still carry a StepField override.
	Fields map[string]string

	// PreferJSON selects the structured {data, form} payload over a
	// templated page / redirect-to-self.
	PreferJSON bool
}

// Field returns a submitted field value, or "" when absent.
func (r Request) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// Controller drives one wizard form instance through reads and
// submissions. Implementations are stateless between requests except
// through the injected session store.
type Controller interface {
	// Handle processes one inbound request to completion and produces
	// the response. Validation failures are returned as a designed
	// ValidationFailed response with a nil error; store, renderer, and
	// hook faults propagate as errors.
	Handle(ctx context.Context, req Request) (*Response, error)

	// Namespace returns the session key prefix in use.
	Namespace() string

	// Namespaced returns a controller over the same collaborators but
	// isolated under a different session key prefix.
	Namespaced(namespace string) Controller
}
