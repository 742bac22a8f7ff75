package wizard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/petrijr/stepform/pkg/api"
)

// Config describes how to construct a Controller.
// Store and Validator are required; everything else has a usable default.
type Config struct {
	// Namespace is the session key prefix isolating this form instance.
	// Defaults to api.DefaultNamespace.
	Namespace string

	// Steps holds the per-step configuration.
	Steps *api.StepRegistry

	// Before and After are the two hook pipeline phases.
	Before *api.HookSet
	After  *api.HookSet

	// Store is the injected session store handle for this request scope.
	Store api.Store

	// Validator applies step rules to raw input.
	Validator api.Validator

	// Renderer produces templated pages; optional when View is empty.
	Renderer api.Renderer

	// Observer receives lifecycle callbacks. Defaults to NoopObserver.
	Observer api.Observer

	// View is the template identifier for non-structured rendering.
	// When empty, all responses fall back to the structured shape.
	View string

	// Data is extra context merged into every render.
	Data map[string]any
}

// Controller is the api.Controller implementation: it resolves the active
// step, runs the before/validate/save/after/advance pipeline for
// submissions, and renders or redirects.
//
// A Controller holds no per-request state; everything mutable lives in
// the bucket behind the injected store.
type Controller struct {
	namespace string
	steps     *api.StepRegistry
	before    *api.HookSet
	after     *api.HookSet
	store     api.Store
	validator api.Validator
	renderer  api.Renderer
	observer  api.Observer
	view      string
	data      map[string]any
}

var _ api.Controller = (*Controller)(nil)

// New creates a Controller from cfg, applying defaults for the optional
// collaborators.
func New(cfg Config) *Controller {
	if cfg.Namespace == "" {
		cfg.Namespace = api.DefaultNamespace
	}
	if cfg.Steps == nil {
		cfg.Steps = api.NewStepRegistry()
	}
	if cfg.Before == nil {
		cfg.Before = api.NewHookSet()
	}
	if cfg.After == nil {
		cfg.After = api.NewHookSet()
	}
	if cfg.Observer == nil {
		cfg.Observer = api.NoopObserver{}
	}

	return &Controller{
		namespace: cfg.Namespace,
		steps:     cfg.Steps,
		before:    cfg.Before,
		after:     cfg.After,
		store:     cfg.Store,
		validator: cfg.Validator,
		renderer:  cfg.Renderer,
		observer:  cfg.Observer,
		view:      cfg.View,
		data:      cfg.Data,
	}
}

// Namespace returns the session key prefix in use.
func (c *Controller) Namespace() string {
	return c.namespace
}

// Namespaced returns a controller over the same collaborators, isolated
// under a different session key prefix.
func (c *Controller) Namespaced(namespace string) api.Controller {
	clone := *c
	if namespace == "" {
		namespace = api.DefaultNamespace
	}
	clone.namespace = namespace
	return &clone
}

// Handle processes one inbound request to completion.
func (c *Controller) Handle(ctx context.Context, req api.Request) (*api.Response, error) {
	f := &form{
		ctx:    ctx,
		ctrl:   c,
		bucket: NewBucket(c.store, c.namespace),
		req:    req,
	}

	if req.Read {
		return c.render(f)
	}
	return c.submit(ctx, f)
}

// submit runs the ordered submission pipeline. Each stage may
// short-circuit by returning early; once save has run, its bucket
// mutation stands even when a later stage aborts (the store contract has
// no transactions to roll back with).
func (c *Controller) submit(ctx context.Context, f *form) (*api.Response, error) {
	step, err := f.CurrentStep()
	if err != nil {
		return nil, err
	}
	c.observer.OnSubmitStart(ctx, c.namespace, step)

	// 1. Before-phase hooks: nothing validated, nothing mutated yet.
	if resp := c.before.Dispatch(step, f); resp != nil {
		c.observer.OnHookShortCircuit(ctx, c.namespace, step, api.BeforeValidation)
		return resp, nil
	}

	// 2. Validate. A before-hook may have reset the bucket, so the step
	// is resolved fresh here.
	validated, verr, err := c.validate(f)
	if err != nil {
		return nil, err
	}
	if verr != nil {
		failedStep, serr := f.CurrentStep()
		if serr != nil {
			failedStep = step
		}
		c.observer.OnValidationFailed(ctx, c.namespace, failedStep, verr)
		return api.Invalid(verr), nil
	}

	// 3. Save: merge validated fields, stamp the resolved step, persist.
	resolved, err := f.CurrentStep()
	if err != nil {
		return nil, err
	}
	if err := f.bucket.Merge(validated, resolved); err != nil {
		return nil, err
	}
	c.observer.OnSaved(ctx, c.namespace, resolved, len(validated))

	// 4. After-phase hooks. The merge above is not rolled back when one
	// of these aborts.
	if resp := c.after.Dispatch(resolved, f); resp != nil {
		c.observer.OnHookShortCircuit(ctx, c.namespace, resolved, api.AfterValidation)
		return resp, nil
	}

	// 5. Advance the state machine.
	if err := c.advance(ctx, f); err != nil {
		return nil, err
	}

	// 6. Render: structured callers get the post-advance payload,
	// everyone else re-renders via a subsequent read. The persisted
	// pointer is read back rather than re-resolving the request, whose
	// step override still names the step just submitted.
	if f.req.PreferJSON {
		landed, err := f.bucket.Step()
		if err != nil {
			return nil, err
		}
		return c.structuredAt(f, landed)
	}
	return api.Redirect(""), nil
}

// advance moves the persisted step pointer:
//
//   - reset sentinel pending: persist 1, so the next pass starts over;
//   - non-terminal: persist resolved+1 (via the store's increment when
//     the resolved step is the persisted one, a plain put otherwise);
//   - terminal: persist nothing, the last step is absorbing.
func (c *Controller) advance(ctx context.Context, f *form) error {
	if f.resetRequested {
		if err := f.bucket.SetStep(1); err != nil {
			return err
		}
		c.observer.OnAdvanced(ctx, c.namespace, 0, 1)
		return nil
	}

	step, err := f.CurrentStep()
	if err != nil {
		return err
	}
	last := c.steps.LastStep()
	if step >= last {
		c.observer.OnAdvanced(ctx, c.namespace, step, step)
		return nil
	}

	persisted, err := f.bucket.Step()
	if err != nil {
		return err
	}
	if step == persisted {
		if err := f.bucket.IncrementStep(); err != nil {
			return err
		}
	} else {
		if err := f.bucket.SetStep(step + 1); err != nil {
			return err
		}
	}

	c.observer.OnAdvanced(ctx, c.namespace, step, step+1)
	return nil
}

// validate builds the effective ruleset (the step's declared rules plus
// the mandatory numeric range rule on the step field) and delegates to
// the external validator. The returned map holds only fields covered by
// rules; a *api.ValidationError comes back as verr, anything else as err.
func (c *Controller) validate(f *form) (validated map[string]any, verr *api.ValidationError, err error) {
	step, err := f.CurrentStep()
	if err != nil {
		return nil, nil, err
	}
	stepCfg := c.steps.Config(step)
	last := c.steps.LastStep()

	rules := make(map[string]string, len(stepCfg.Rules)+1)
	for field, rule := range stepCfg.Rules {
		rules[field] = rule
	}
	rules[api.StepField] = fmt.Sprintf("required,numeric,gte=1,lte=%d", last)

	input := make(map[string]any, len(f.req.Fields)+1)
	for field, value := range f.req.Fields {
		input[field] = value
	}
	// The step indicator validates as a number. An unparsable submitted
	// value stays raw so the numeric rule rejects it; an absent one
	// falls back to the resolved step.
	if raw := f.req.Field(api.StepField); raw == "" {
		input[api.StepField] = step
	} else if n, aerr := strconv.Atoi(raw); aerr == nil {
		input[api.StepField] = n
	} else {
		input[api.StepField] = raw
	}

	validated, err = c.validator.Validate(input, rules, stepCfg.Messages)
	if err != nil {
		if v, ok := api.AsValidationError(err); ok {
			return nil, v, nil
		}
		return nil, nil, err
	}

	// The step indicator is stamped by save, not merged as data.
	delete(validated, api.StepField)
	return validated, nil, nil
}

// render produces the current view of the form for read requests.
func (c *Controller) render(f *form) (*api.Response, error) {
	if f.req.PreferJSON || c.view == "" || c.renderer == nil {
		return c.structured(f)
	}

	step, err := f.CurrentStep()
	if err != nil {
		return nil, err
	}
	formView, err := c.formView(f, step)
	if err != nil {
		return nil, err
	}

	context := mergeMaps(c.data, c.steps.Config(step).Data)
	context["form"] = formView
	context["step"] = step
	context["last_step"] = c.steps.LastStep()

	body, err := c.renderer.Render(c.view, context)
	if err != nil {
		return nil, err
	}
	return api.RenderedResponse(body), nil
}

// structured produces the {data, form} payload for the resolved step.
func (c *Controller) structured(f *form) (*api.Response, error) {
	step, err := f.CurrentStep()
	if err != nil {
		return nil, err
	}
	return c.structuredAt(f, step)
}

func (c *Controller) structuredAt(f *form, step int) (*api.Response, error) {
	formView, err := c.formView(f, step)
	if err != nil {
		return nil, err
	}

	data := mergeMaps(c.data, c.steps.Config(step).Data)
	return api.StructuredResponse(data, formView), nil
}

// formView is the bucket's current content with the step indicator
// composed back in.
func (c *Controller) formView(f *form, step int) (map[string]any, error) {
	fields, err := f.bucket.Fields()
	if err != nil {
		return nil, err
	}

	view := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		view[k] = v
	}
	view[api.StepField] = step
	return view, nil
}

func mergeMaps(maps ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
