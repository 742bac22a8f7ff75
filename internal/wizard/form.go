package wizard

import (
	"context"
	"strconv"

	"github.com/petrijr/stepform/pkg/api"
)

// form is the request-scoped api.Form handed to hooks. It carries the
// per-request override state: the submitted step field, and the reset
// sentinel that only the advance operation understands.
type form struct {
	ctx    context.Context
	ctrl   *Controller
	bucket *Bucket
	req    api.Request

	// resetRequested is the sentinel-0 override set by Reset. Step
	// resolution ignores it; advance persists step 1 when it is set.
	resetRequested bool
}

var _ api.Form = (*form)(nil)

func (f *form) Namespace() string {
	return f.ctrl.namespace
}

func (f *form) LastStep() int {
	return f.ctrl.steps.LastStep()
}

// CurrentStep resolves the active step for this request: the explicit
// request override when present and positive, else the persisted step
// pointer, else 1. The override is read-only context; resolution never
// persists anything.
func (f *form) CurrentStep() (int, error) {
	if n, err := strconv.Atoi(f.req.Field(api.StepField)); err == nil && n > 0 {
		return n, nil
	}

	persisted, err := f.bucket.Step()
	if err != nil {
		return 0, err
	}
	if persisted > 0 {
		return persisted, nil
	}
	return 1, nil
}

func (f *form) Field(name string) string {
	return f.req.Field(name)
}

func (f *form) Fields() map[string]string {
	out := make(map[string]string, len(f.req.Fields))
	for k, v := range f.req.Fields {
		out[k] = v
	}
	return out
}

func (f *form) Value(name string) (any, error) {
	fields, err := f.bucket.Fields()
	if err != nil {
		return nil, err
	}
	return fields[name], nil
}

func (f *form) Values() (map[string]any, error) {
	fields, err := f.bucket.Fields()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out, nil
}

// Reset replaces the bucket wholesale and marks this request with the
// sentinel so the pipeline's advance lands on step 1.
func (f *form) Reset(data map[string]any) error {
	f.resetRequested = true
	if err := f.bucket.Replace(data); err != nil {
		return err
	}
	f.ctrl.observer.OnReset(f.ctx, f.ctrl.namespace)
	return nil
}
