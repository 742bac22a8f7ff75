package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the wizard controller for logging and
// metrics.
//
// Implementations should be fast and non-blocking; heavy work should be
// done asynchronously so as not to delay request handling.
type Observer interface {
	// OnSubmitStart is called once per submission, after step resolution
	// and before any hook runs.
	OnSubmitStart(ctx context.Context, namespace string, step int)

	// OnHookShortCircuit is called when a hook in the given phase
	// produced a response and aborted the rest of the pipeline.
	OnHookShortCircuit(ctx context.Context, namespace string, step int, phase Phase)

	// OnValidationFailed is called when the validator rejected the
	// submission. No state was mutated.
	OnValidationFailed(ctx context.Context, namespace string, step int, verr *ValidationError)

	// OnSaved is called after validated fields were merged into the
	// bucket and persisted.
	OnSaved(ctx context.Context, namespace string, step int, fields int)

	// OnAdvanced is called after the step pointer moved. from == to at
	// the terminal step (absorbing, nothing persisted).
	OnAdvanced(ctx context.Context, namespace string, from, to int)

	// OnReset is called when a hook wiped the bucket via Form.Reset.
	OnReset(ctx context.Context, namespace string)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnSubmitStart(ctx context.Context, namespace string, step int)            {}
func (NoopObserver) OnHookShortCircuit(ctx context.Context, ns string, step int, phase Phase) {}
func (NoopObserver) OnValidationFailed(ctx context.Context, ns string, step int, verr *ValidationError) {
}
func (NoopObserver) OnSaved(ctx context.Context, namespace string, step int, fields int) {}
func (NoopObserver) OnAdvanced(ctx context.Context, namespace string, from, to int)      {}
func (NoopObserver) OnReset(ctx context.Context, namespace string)                       {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnSubmitStart(ctx context.Context, namespace string, step int) {
	for _, o := range c.observers {
		o.OnSubmitStart(ctx, namespace, step)
	}
}

func (c *CompositeObserver) OnHookShortCircuit(ctx context.Context, namespace string, step int, phase Phase) {
	for _, o := range c.observers {
		o.OnHookShortCircuit(ctx, namespace, step, phase)
	}
}

func (c *CompositeObserver) OnValidationFailed(ctx context.Context, namespace string, step int, verr *ValidationError) {
	for _, o := range c.observers {
		o.OnValidationFailed(ctx, namespace, step, verr)
	}
}

func (c *CompositeObserver) OnSaved(ctx context.Context, namespace string, step int, fields int) {
	for _, o := range c.observers {
		o.OnSaved(ctx, namespace, step, fields)
	}
}

func (c *CompositeObserver) OnAdvanced(ctx context.Context, namespace string, from, to int) {
	for _, o := range c.observers {
		o.OnAdvanced(ctx, namespace, from, to)
	}
}

func (c *CompositeObserver) OnReset(ctx context.Context, namespace string) {
	for _, o := range c.observers {
		o.OnReset(ctx, namespace)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs wizard lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnSubmitStart(ctx context.Context, namespace string, step int) {
	o.Logger.DebugContext(ctx, "wizard_submit_start",
		slog.String("namespace", namespace),
		slog.Int("step", step),
	)
}

func (o *LoggingObserver) OnHookShortCircuit(ctx context.Context, namespace string, step int, phase Phase) {
	o.Logger.InfoContext(ctx, "wizard_hook_short_circuit",
		slog.String("namespace", namespace),
		slog.Int("step", step),
		slog.String("phase", string(phase)),
	)
}

func (o *LoggingObserver) OnValidationFailed(ctx context.Context, namespace string, step int, verr *ValidationError) {
	o.Logger.InfoContext(ctx, "wizard_validation_failed",
		slog.String("namespace", namespace),
		slog.Int("step", step),
		slog.Int("fields", len(verr.Fields)),
	)
}

func (o *LoggingObserver) OnSaved(ctx context.Context, namespace string, step int, fields int) {
	o.Logger.DebugContext(ctx, "wizard_saved",
		slog.String("namespace", namespace),
		slog.Int("step", step),
		slog.Int("fields", fields),
	)
}

func (o *LoggingObserver) OnAdvanced(ctx context.Context, namespace string, from, to int) {
	o.Logger.InfoContext(ctx, "wizard_advanced",
		slog.String("namespace", namespace),
		slog.Int("from", from),
		slog.Int("to", to),
	)
}

func (o *LoggingObserver) OnReset(ctx context.Context, namespace string) {
	o.Logger.InfoContext(ctx, "wizard_reset",
		slog.String("namespace", namespace),
	)
}

// BasicMetrics collects simple counters for wizard activity.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	submitsStarted     atomic.Int64
	shortCircuits      atomic.Int64
	validationFailures atomic.Int64
	saves              atomic.Int64
	advances           atomic.Int64
	resets             atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	SubmitsStarted     int64
	ShortCircuits      int64
	ValidationFailures int64
	Saves              int64
	Advances           int64
	Resets             int64
}

func (m *BasicMetrics) OnSubmitStart(ctx context.Context, namespace string, step int) {
	m.submitsStarted.Add(1)
}

func (m *BasicMetrics) OnHookShortCircuit(ctx context.Context, namespace string, step int, phase Phase) {
	m.shortCircuits.Add(1)
}

func (m *BasicMetrics) OnValidationFailed(ctx context.Context, namespace string, step int, verr *ValidationError) {
	m.validationFailures.Add(1)
}

func (m *BasicMetrics) OnSaved(ctx context.Context, namespace string, step int, fields int) {
	m.saves.Add(1)
}

func (m *BasicMetrics) OnAdvanced(ctx context.Context, namespace string, from, to int) {
	m.advances.Add(1)
}

func (m *BasicMetrics) OnReset(ctx context.Context, namespace string) {
	m.resets.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	return BasicMetricsSnapshot{
		SubmitsStarted:     m.submitsStarted.Load(),
		ShortCircuits:      m.shortCircuits.Load(),
		ValidationFailures: m.validationFailures.Load(),
		Saves:              m.saves.Load(),
		Advances:           m.advances.Load(),
		Resets:             m.resets.Load(),
	}
}

// JournalingObserver appends pipeline outcomes to a Journal.
// Append errors are dropped: journaling is best-effort and must never
// fail a request.
type JournalingObserver struct {
	NoopObserver

	journal Journal
}

// NewJournalingObserver creates an Observer that records outcomes in j.
func NewJournalingObserver(j Journal) Observer {
	return &JournalingObserver{journal: j}
}

func (o *JournalingObserver) append(namespace string, step int, outcome Outcome, detail string) {
	_ = o.journal.Append(JournalEntry{
		Namespace: namespace,
		Step:      step,
		Outcome:   outcome,
		Detail:    detail,
		UnixNano:  time.Now().UnixNano(),
	})
}

func (o *JournalingObserver) OnHookShortCircuit(ctx context.Context, namespace string, step int, phase Phase) {
	o.append(namespace, step, OutcomeShortCircuited, string(phase))
}

func (o *JournalingObserver) OnValidationFailed(ctx context.Context, namespace string, step int, verr *ValidationError) {
	o.append(namespace, step, OutcomeValidationFailed, verr.Error())
}

func (o *JournalingObserver) OnSaved(ctx context.Context, namespace string, step int, fields int) {
	o.append(namespace, step, OutcomeSaved, "")
}

func (o *JournalingObserver) OnAdvanced(ctx context.Context, namespace string, from, to int) {
	o.append(namespace, to, OutcomeAdvanced, "")
}

func (o *JournalingObserver) OnReset(ctx context.Context, namespace string) {
	o.append(namespace, 0, OutcomeReset, "")
}
