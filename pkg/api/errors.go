package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError is the one designed, caller-recoverable failure: the
// external validator rejected a submission. It carries the per-field
// message set unchanged; no wizard state was mutated.
//
// Every other fault (store, renderer, hook) is infrastructure-level and
// propagates as a plain error.
type ValidationError struct {
	// Fields maps field names to one or more messages.
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Sprintf("validation failed on %s", strings.Join(names, ", "))
}

// Add appends a message for a field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// AsValidationError returns (verr, true) if err is a validation failure.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
