package stepform

import (
	"context"
	"fmt"
	"strconv"

	"github.com/petrijr/stepform/pkg/api"
)

// Walkthrough bundles an in-memory store and a controller into a single,
// process-local helper for driving a wizard without any transport. It is
// intentionally non-durable and is the most convenient way to exercise a
// wizard in development and unit tests.
type Walkthrough struct {
	Store      Store
	Controller Controller
}

// NewWalkthrough builds the wizard over a fresh in-memory store.
func NewWalkthrough(b *WizardBuilder, validator Validator) *Walkthrough {
	store := NewMemoryStore()
	return &Walkthrough{
		Store:      store,
		Controller: b.Controller(store, validator),
	}
}

// Read performs a read request and returns the structured view.
func (w *Walkthrough) Read(ctx context.Context) (*Response, error) {
	return w.Controller.Handle(ctx, Request{
		Read:       true,
		PreferJSON: true,
	})
}

// Submit submits fields for the given step (0 leaves the step indicator
// to the controller's own resolution).
func (w *Walkthrough) Submit(ctx context.Context, step int, fields map[string]string) (*Response, error) {
	all := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		all[k] = v
	}
	if step > 0 {
		all[api.StepField] = strconv.Itoa(step)
	}

	return w.Controller.Handle(ctx, Request{
		Fields:     all,
		PreferJSON: true,
	})
}

// CurrentStep reports the resolved step a read request would land on.
func (w *Walkthrough) CurrentStep(ctx context.Context) (int, error) {
	resp, err := w.Read(ctx)
	if err != nil {
		return 0, err
	}
	if resp.Payload == nil {
		return 0, fmt.Errorf("read produced %s response, expected structured", resp.Kind)
	}

	step, ok := resp.Payload.Form[api.StepField].(int)
	if !ok {
		return 0, fmt.Errorf("form view holds %T step indicator", resp.Payload.Form[api.StepField])
	}
	return step, nil
}

// FormValues returns the accumulated bucket contents, step indicator
// included.
func (w *Walkthrough) FormValues(ctx context.Context) (map[string]any, error) {
	resp, err := w.Read(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Payload == nil {
		return nil, fmt.Errorf("read produced %s response, expected structured", resp.Kind)
	}
	return resp.Payload.Form, nil
}
