package api

import "sync"

// StepRegistry holds per-step configuration keyed by step number.
// Step numbers are positive integers; registering the same step twice
// overwrites the earlier configuration.
type StepRegistry struct {
	mu    sync.RWMutex
	steps map[int]StepConfig
}

// NewStepRegistry creates an empty registry.
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{
		steps: make(map[int]StepConfig),
	}
}

// AddStep registers (or overwrites) the configuration for a step number.
func (r *StepRegistry) AddStep(step int, cfg StepConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.steps[step] = cfg
}

// Config returns the configuration for the given step. Unregistered steps
// are not an error: the zero StepConfig is returned and all dependent
// lookups (rules, messages, extra data) degrade to empty.
func (r *StepRegistry) Config(step int) StepConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.steps[step]
}

// LastStep returns the maximum registered step number, or 1 when the
// registry is empty. This value gates both the legal step range during
// validation and the terminal condition for advancement.
func (r *StepRegistry) LastStep() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	last := 0
	for step := range r.steps {
		if step > last {
			last = step
		}
	}
	if last == 0 {
		return 1
	}
	return last
}

// Len returns the number of registered steps.
func (r *StepRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.steps)
}
