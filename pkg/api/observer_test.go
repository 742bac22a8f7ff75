package api

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// recordingObserver counts callback invocations for fan-out tests.
type recordingObserver struct {
	NoopObserver
	events []string
}

func (r *recordingObserver) OnSubmitStart(ctx context.Context, namespace string, step int) {
	r.events = append(r.events, "submit")
}

func (r *recordingObserver) OnAdvanced(ctx context.Context, namespace string, from, to int) {
	r.events = append(r.events, "advance")
}

func TestNewCompositeObserver_Degenerate(t *testing.T) {
	if _, ok := NewCompositeObserver().(NoopObserver); !ok {
		t.Fatalf("no observers must collapse to NoopObserver")
	}
	if _, ok := NewCompositeObserver(nil, nil).(NoopObserver); !ok {
		t.Fatalf("all-nil observers must collapse to NoopObserver")
	}

	single := &recordingObserver{}
	if got := NewCompositeObserver(nil, single); got != single {
		t.Fatalf("a single observer must be returned as-is, got %T", got)
	}
}

func TestCompositeObserver_FansOut(t *testing.T) {
	a := &recordingObserver{}
	b := &recordingObserver{}

	obs := NewCompositeObserver(a, nil, b)
	obs.OnSubmitStart(context.Background(), "wizard", 1)
	obs.OnAdvanced(context.Background(), "wizard", 1, 2)

	for name, rec := range map[string]*recordingObserver{"a": a, "b": b} {
		if len(rec.events) != 2 || rec.events[0] != "submit" || rec.events[1] != "advance" {
			t.Fatalf("observer %s saw %v, expected [submit advance]", name, rec.events)
		}
	}
}

func TestLoggingObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	obs := NewLoggingObserver(logger)
	ctx := context.Background()

	obs.OnSubmitStart(ctx, "checkout", 2)
	obs.OnHookShortCircuit(ctx, "checkout", 2, BeforeValidation)
	verr := &ValidationError{}
	verr.Add("email", "the email field failed the required rule")
	obs.OnValidationFailed(ctx, "checkout", 2, verr)
	obs.OnSaved(ctx, "checkout", 2, 3)
	obs.OnAdvanced(ctx, "checkout", 2, 3)
	obs.OnReset(ctx, "checkout")

	out := buf.String()
	for _, event := range []string{
		"wizard_submit_start",
		"wizard_hook_short_circuit",
		"wizard_validation_failed",
		"wizard_saved",
		"wizard_advanced",
		"wizard_reset",
	} {
		if !strings.Contains(out, event) {
			t.Fatalf("log output missing %q:\n%s", event, out)
		}
	}
	if !strings.Contains(out, "namespace=checkout") {
		t.Fatalf("log output missing namespace attribute:\n%s", out)
	}
}

func TestBasicMetrics(t *testing.T) {
	m := &BasicMetrics{}
	ctx := context.Background()

	m.OnSubmitStart(ctx, "wizard", 1)
	m.OnSubmitStart(ctx, "wizard", 1)
	m.OnHookShortCircuit(ctx, "wizard", 1, AfterValidation)
	m.OnValidationFailed(ctx, "wizard", 1, &ValidationError{})
	m.OnSaved(ctx, "wizard", 1, 2)
	m.OnAdvanced(ctx, "wizard", 1, 2)
	m.OnReset(ctx, "wizard")

	snap := m.Snapshot()
	want := BasicMetricsSnapshot{
		SubmitsStarted:     2,
		ShortCircuits:      1,
		ValidationFailures: 1,
		Saves:              1,
		Advances:           1,
		Resets:             1,
	}
	if snap != want {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

// captureJournal records appended entries; failing makes sure journaling
// stays best-effort.
type captureJournal struct {
	entries []JournalEntry
}

func (j *captureJournal) Append(entry JournalEntry) error {
	j.entries = append(j.entries, entry)
	return nil
}

func (j *captureJournal) List(namespace string) ([]JournalEntry, error) {
	return j.entries, nil
}

func TestJournalingObserver(t *testing.T) {
	journal := &captureJournal{}
	obs := NewJournalingObserver(journal)
	ctx := context.Background()

	verr := &ValidationError{}
	verr.Add("email", "bad")

	obs.OnSubmitStart(ctx, "checkout", 1) // not journaled
	obs.OnValidationFailed(ctx, "checkout", 1, verr)
	obs.OnSaved(ctx, "checkout", 1, 2)
	obs.OnAdvanced(ctx, "checkout", 1, 2)
	obs.OnHookShortCircuit(ctx, "checkout", 2, BeforeValidation)
	obs.OnReset(ctx, "checkout")

	want := []Outcome{
		OutcomeValidationFailed,
		OutcomeSaved,
		OutcomeAdvanced,
		OutcomeShortCircuited,
		OutcomeReset,
	}
	if len(journal.entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(journal.entries))
	}
	for i, outcome := range want {
		if journal.entries[i].Outcome != outcome {
			t.Fatalf("entry %d: expected %q, got %q", i, outcome, journal.entries[i].Outcome)
		}
		if journal.entries[i].Namespace != "checkout" {
			t.Fatalf("entry %d: unexpected namespace %q", i, journal.entries[i].Namespace)
		}
		if journal.entries[i].UnixNano == 0 {
			t.Fatalf("entry %d: missing timestamp", i)
		}
	}

	if journal.entries[3].Detail != string(BeforeValidation) {
		t.Fatalf("short-circuit entry must carry the phase, got %q", journal.entries[3].Detail)
	}
}
