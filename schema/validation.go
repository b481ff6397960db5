package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a single argument that failed validation.
type ValidationError struct {
	Path    string // argument name
	Message string // human-readable reason
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range e {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// FieldErrors returns argument name to message, for structured error data.
func (e ValidationErrors) FieldErrors() map[string]string {
	out := make(map[string]string, len(e))
	for _, err := range e {
		out[err.Path] = err.Message
	}
	return out
}

// Values holds validated, type-coerced arguments. Numbers are float64,
// integers int64, strings string and booleans bool.
type Values map[string]any

// Has reports whether the argument was supplied.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// String returns a string argument, or "" when absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Number returns a number argument.
func (v Values) Number(name string) (float64, bool) {
	n, ok := v[name].(float64)
	return n, ok
}

// Integer returns an integer argument.
func (v Values) Integer(name string) (int64, bool) {
	n, ok := v[name].(int64)
	return n, ok
}

// Bool returns a boolean argument.
func (v Values) Bool(name string) (bool, bool) {
	b, ok := v[name].(bool)
	return b, ok
}

// ValidateOption configures Validate.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	rejectUnknown bool
}

// RejectUnknown makes Validate fail on arguments that are not declared.
// By default they are dropped.
func RejectUnknown() ValidateOption {
	return func(c *validateConfig) {
		c.rejectUnknown = true
	}
}

// Validate checks in against the declared arguments and returns the coerced
// values. A JSON null is treated as if the argument were absent. On failure
// the returned error is ValidationErrors, ordered by declaration with
// unknown arguments last.
func (as Args) Validate(in map[string]any, opts ...ValidateOption) (Values, error) {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	out := make(Values, len(as))
	var errs ValidationErrors

	for _, a := range as {
		raw, ok := in[a.Name]
		if !ok || raw == nil {
			if a.Required() {
				errs = append(errs, &ValidationError{Path: a.Name, Message: "required argument is missing"})
			}
			continue
		}
		v, err := a.coerce(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[a.Name] = v
	}

	if cfg.rejectUnknown {
		var unknown []string
		for name := range in {
			if _, ok := as.Lookup(name); !ok {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		for _, name := range unknown {
			errs = append(errs, &ValidationError{Path: name, Message: "unknown argument"})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func (a Arg) coerce(raw any) (any, *ValidationError) {
	mismatch := func() *ValidationError {
		return &ValidationError{
			Path:    a.Name,
			Message: fmt.Sprintf("expected %s, got %s", a.Kind, jsonType(raw)),
		}
	}

	switch a.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return nil, mismatch()
		}
		return s, nil
	case Boolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, mismatch()
		}
		return b, nil
	case Number, Integer:
		n, ok := toFloat(raw)
		if !ok {
			return nil, mismatch()
		}
		if a.Minimum != nil && n < *a.Minimum {
			return nil, &ValidationError{
				Path:    a.Name,
				Message: fmt.Sprintf("value %v is less than minimum %v", n, *a.Minimum),
			}
		}
		if a.Kind == Number {
			return n, nil
		}
		if n != float64(int64(n)) {
			return nil, &ValidationError{Path: a.Name, Message: "expected integer, got decimal number"}
		}
		return int64(n), nil
	default:
		return nil, &ValidationError{Path: a.Name, Message: "argument has no declared type"}
	}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
