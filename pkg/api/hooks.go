package api

// HookSet maps selectors to callbacks for one pipeline phase. Each
// selector holds at most one callback; the last registration for a given
// selector wins. Two independent sets exist per wizard, one per Phase.
type HookSet struct {
	hooks map[Selector]Hook
}

// NewHookSet creates an empty hook set.
func NewHookSet() *HookSet {
	return &HookSet{
		hooks: make(map[Selector]Hook),
	}
}

// Register binds hook to sel, replacing any earlier binding for sel.
// A nil hook removes the binding.
func (h *HookSet) Register(sel Selector, hook Hook) {
	if hook == nil {
		delete(h.hooks, sel)
		return
	}
	h.hooks[sel] = hook
}

// Dispatch evaluates the hooks bound for step.
//
// The wildcard callback runs first; if it produces a non-nil response,
// that response is returned immediately and the step-specific callback is
// not invoked. Only when the wildcard is absent or returns nil does the
// step-specific callback run. This wildcard-over-specific precedence lets
// cross-cutting hooks (auth checks and the like) veto any step, and a
// wildcard response deliberately masks the specific hook.
func (h *HookSet) Dispatch(step int, f Form) *Response {
	if hook, ok := h.hooks[AnyStep]; ok {
		if resp := hook(f); resp != nil {
			return resp
		}
	}
	if hook, ok := h.hooks[OnStep(step)]; ok {
		if resp := hook(f); resp != nil {
			return resp
		}
	}
	return nil
}

// Len returns the number of bound selectors.
func (h *HookSet) Len() int {
	return len(h.hooks)
}
