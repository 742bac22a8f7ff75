package stepform

// Helper hook constructors for common interception patterns.

// RedirectHook returns a hook that unconditionally short-circuits the
// pipeline with a redirect. Useful as a wildcard auth-style veto:
//
//	wiz.Before(stepform.AnyStep, stepform.GuardHook(isAnonymous,
//	    stepform.RedirectHook("/login")))
func RedirectHook(target string) Hook {
	return func(f Form) *Response {
		return Redirect(target)
	}
}

// GuardHook runs hook only when cond holds; otherwise the pipeline
// continues.
func GuardHook(cond func(f Form) bool, hook Hook) Hook {
	return func(f Form) *Response {
		if cond(f) {
			return hook(f)
		}
		return nil
	}
}

// ChainHooks composes hooks into one: each runs in order until the first
// non-nil response, which short-circuits the rest. A selector holds at
// most one callback, so chaining is how several concerns share a step.
func ChainHooks(hooks ...Hook) Hook {
	return func(f Form) *Response {
		for _, h := range hooks {
			if h == nil {
				continue
			}
			if resp := h(f); resp != nil {
				return resp
			}
		}
		return nil
	}
}
