package api

// ResponseKind discriminates the shapes a pipeline pass can produce.
type ResponseKind string

const (
	// Rendered carries a templated page body.
	Rendered ResponseKind = "rendered"

	// Structured carries the {data, form} payload for callers that
	// prefer machine-readable responses.
	Structured ResponseKind = "structured"

	// RedirectSelf tells non-structured callers to re-render via a
	// subsequent read request. Location may name an explicit target;
	// empty means "self".
	RedirectSelf ResponseKind = "redirect"

	// ValidationFailed carries the per-field error set of a rejected
	// submission. No state was mutated.
	ValidationFailed ResponseKind = "validation_failed"
)

// Payload is the structured (non-templated) response shape.
type Payload struct {
	// Data is merge(constructor data, current step's extra data).
	Data map[string]any `json:"data"`

	// Form is the bucket's current content, step indicator included.
	Form map[string]any `json:"form"`
}

// Response is the transport-independent outcome of handling one request.
// Hooks return *Response to short-circuit the pipeline; nil means
// "continue".
type Response struct {
	Kind ResponseKind

	// Body is the rendered page for Kind == Rendered.
	Body []byte

	// Payload is set for Kind == Structured.
	Payload *Payload

	// Location is the redirect target for Kind == RedirectSelf
	// ("" = self).
	Location string

	// Errors is set for Kind == ValidationFailed.
	Errors *ValidationError
}

// RenderedResponse wraps a page body.
func RenderedResponse(body []byte) *Response {
	return &Response{Kind: Rendered, Body: body}
}

// StructuredResponse wraps a {data, form} payload.
func StructuredResponse(data, form map[string]any) *Response {
	return &Response{Kind: Structured, Payload: &Payload{Data: data, Form: form}}
}

// Redirect signals a redirect; target "" means redirect-to-self.
func Redirect(target string) *Response {
	return &Response{Kind: RedirectSelf, Location: target}
}

// Invalid wraps a validation error set.
func Invalid(verr *ValidationError) *Response {
	return &Response{Kind: ValidationFailed, Errors: verr}
}
