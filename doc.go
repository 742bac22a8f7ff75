// Package stepform drives multi-page ("wizard") forms submitted across
// several HTTP round-trips, persisting partial input between steps and
// deciding, per request, what step the user is on, whether their input is
// valid, and what happens next.
//
// # Core Concepts
//
// The stepform programming model is intentionally small and idiomatic:
//
//  1. Controller
//  2. WizardBuilder
//  3. Hooks
//  4. Store
//  5. Walkthrough
//
// # Controller
//
// The Controller resolves the active step of a request (explicit override,
// else persisted value, else 1), and for submissions runs the pipeline:
//
//	before-hooks -> validate -> save -> after-hooks -> advance -> render
//
// Each stage may short-circuit by returning a response early. Validated
// fields are merged into a namespaced session bucket; the step pointer
// saturates at the highest registered step.
//
// Controllers are stateless between requests: all durable state lives in
// the injected session Store, so one wizard definition can serve any
// number of users by opening a per-request store handle.
//
// # WizardBuilder
//
// WizardBuilder provides the declarative API used to define wizards:
//
//	wiz := stepform.New("checkout").
//	    Step(1, stepform.StepConfig{Rules: map[string]string{"email": "required,email"}}).
//	    Step(2, stepform.StepConfig{Rules: map[string]string{"address": "required"}}).
//	    Before(stepform.AnyStep, requireAuth).
//	    View("checkout.html")
//
//	ctrl := wiz.Controller(store, validator)
//
// # Hooks
//
// Hooks intercept the pipeline in two phases, before and after
// validation, keyed by a specific step or the wildcard. The wildcard hook
// runs first and can veto any step; a non-nil hook response is returned
// to the caller unchanged.
//
// # Store
//
// Session persistence is pluggable behind a small key-value contract:
//
//   - In-memory (non-durable, best for tests)
//   - SQLite (embedded durability)
//   - Postgres
//   - Redis
//
// # Walkthrough
//
// Walkthrough bundles an in-memory store and a controller into a single,
// process-local helper useful for development and unit testing: it reads,
// submits, and inspects a wizard without any transport.
//
// For examples, see the /examples directory.
package stepform
