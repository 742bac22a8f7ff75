// Package rules implements the api.Validator contract on top of
// go-playground/validator's map validation. Rule expressions use the
// validator tag syntax, e.g. "required,email" or "numeric,gte=1,lte=10".
package rules

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/petrijr/stepform/pkg/api"
)

// MapValidator validates a flat field map against per-field rule
// expressions and reports failures as *api.ValidationError.
type MapValidator struct {
	v *validator.Validate
}

var _ api.Validator = (*MapValidator)(nil)

// New creates a MapValidator with the default rule set.
func New() *MapValidator {
	return &MapValidator{v: validator.New()}
}

// Engine exposes the underlying validator instance so callers can
// register custom rules.
func (m *MapValidator) Engine() *validator.Validate {
	return m.v
}

// Validate applies ruleset to input and returns the validated subset:
// only submitted fields covered by a rule appear in the result, so
// extraneous input is dropped and omitted fields are not manufactured.
// Absent fields are still checked against their rules, so "required"
// fails on them while "omitempty" rules pass. On failure it returns a
// *api.ValidationError with one message per failing rule; messages
// overrides defaults, keyed "field.rule" or by bare rule name.
func (m *MapValidator) Validate(input map[string]any, ruleset map[string]string, messages map[string]string) (map[string]any, error) {
	if len(ruleset) == 0 {
		return map[string]any{}, nil
	}

	data := make(map[string]any, len(ruleset))
	rules := make(map[string]any, len(ruleset))
	for field, rule := range ruleset {
		rules[field] = rule
		if v, ok := input[field]; ok {
			data[field] = v
		}
	}

	// ValidateMap walks the rules, so fields missing from data are
	// validated as nil without ending up in the result.
	failures := m.v.ValidateMap(data, rules)
	if len(failures) == 0 {
		return data, nil
	}

	verr := &api.ValidationError{}

	// Deterministic message order regardless of map iteration.
	fields := make([]string, 0, len(failures))
	for field := range failures {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		ferrs, ok := failures[field].(validator.ValidationErrors)
		if !ok {
			verr.Add(field, fmt.Sprintf("the %s field is invalid", field))
			continue
		}
		for _, fe := range ferrs {
			verr.Add(field, message(field, fe, messages))
		}
	}

	return nil, verr
}

func message(field string, fe validator.FieldError, messages map[string]string) string {
	tag := fe.Tag()
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := messages[tag]; ok {
		return msg
	}
	if param := fe.Param(); param != "" {
		return fmt.Sprintf("the %s field failed the %s:%s rule", field, tag, param)
	}
	return fmt.Sprintf("the %s field failed the %s rule", field, tag)
}
