package stepform

import (
	"fmt"

	"github.com/petrijr/stepform/internal/wizard"
	"github.com/petrijr/stepform/pkg/api"
)

// WizardBuilder provides a fluent API for defining wizards:
//
//	wiz := stepform.New("checkout").
//	    Step(1, stepform.StepConfig{Rules: map[string]string{"email": "required,email"}}).
//	    Step(2, stepform.StepConfig{Rules: map[string]string{"address": "required"}}).
//	    Before(stepform.AnyStep, requireAuth).
//	    After(stepform.OnStep(2), recordAddress).
//	    View("checkout.html").
//	    Data(map[string]any{"title": "Checkout"})
//
//	ctrl := wiz.Controller(store, validator)
//	resp, err := ctrl.Handle(ctx, req)
//
// The builder describes the static shape of a wizard; Controller binds it
// to a per-request session store.
type WizardBuilder struct {
	namespace string
	steps     *api.StepRegistry
	before    *api.HookSet
	after     *api.HookSet
	view      string
	data      map[string]any
	renderer  api.Renderer
	observer  api.Observer
}

// New creates a new wizard builder with the given session namespace.
// An empty namespace uses DefaultNamespace.
func New(namespace string) *WizardBuilder {
	return &WizardBuilder{
		namespace: namespace,
		steps:     api.NewStepRegistry(),
		before:    api.NewHookSet(),
		after:     api.NewHookSet(),
	}
}

// Namespace returns the wizard's session namespace.
func (b *WizardBuilder) Namespace() string {
	if b.namespace == "" {
		return api.DefaultNamespace
	}
	return b.namespace
}

// Steps returns the underlying step registry.
// Typically used when interacting with lower-level APIs.
func (b *WizardBuilder) Steps() *api.StepRegistry {
	return b.steps
}

// Step registers (or overwrites) the configuration for a step number.
func (b *WizardBuilder) Step(step int, cfg StepConfig) *WizardBuilder {
	if step < 1 {
		panic(fmt.Sprintf("stepform: step numbers are positive, got %d", step))
	}
	b.steps.AddStep(step, cfg)
	return b
}

// Before binds a hook in the before-validation phase.
func (b *WizardBuilder) Before(sel Selector, hook Hook) *WizardBuilder {
	if hook == nil {
		panic("stepform: nil before-hook")
	}
	b.before.Register(sel, hook)
	return b
}

// After binds a hook in the after-validation phase.
func (b *WizardBuilder) After(sel Selector, hook Hook) *WizardBuilder {
	if hook == nil {
		panic("stepform: nil after-hook")
	}
	b.after.Register(sel, hook)
	return b
}

// View sets the template identifier used for non-structured rendering.
func (b *WizardBuilder) View(template string) *WizardBuilder {
	b.view = template
	return b
}

// Data sets extra context merged into every render.
func (b *WizardBuilder) Data(data map[string]any) *WizardBuilder {
	b.data = data
	return b
}

// Renderer sets the template renderer backing View.
func (b *WizardBuilder) Renderer(r Renderer) *WizardBuilder {
	b.renderer = r
	return b
}

// Observe sets the lifecycle observer.
func (b *WizardBuilder) Observe(o Observer) *WizardBuilder {
	b.observer = o
	return b
}

// Controller binds the wizard definition to a session store and
// validator, producing the per-request controller.
func (b *WizardBuilder) Controller(store Store, validator Validator) Controller {
	return wizard.New(wizard.Config{
		Namespace: b.namespace,
		Steps:     b.steps,
		Before:    b.before,
		After:     b.after,
		Store:     store,
		Validator: validator,
		Renderer:  b.renderer,
		Observer:  b.observer,
		View:      b.view,
		Data:      b.data,
	})
}
