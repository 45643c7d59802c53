package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a violation attributable to a single environment variable.
type FieldError struct {
	Key     string
	Rule    string
	Message string
}

// ValidationError aggregates every FieldError found in one validation pass.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Key+": "+f.Message)
	}
	return "config: invalid environment variables: " + strings.Join(parts, "; ")
}

// FieldErrors flattens the violations into key -> messages.
func (e *ValidationError) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Key] = append(out[f.Key], f.Message)
	}
	return out
}

// Has reports whether key has at least one violation.
func (e *ValidationError) Has(key string) bool {
	for _, f := range e.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}

func newValidationError(verrs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Key:     fe.Field(),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	got := fmt.Sprintf("%v", fe.Value())

	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", strings.ReplaceAll(fe.Param(), " ", ", "), got)
	case "port_number":
		return fmt.Sprintf("must be an integer port between 1 and 65535, got %q", got)
	case "int_gte":
		return fmt.Sprintf("must be an integer >= %s, got %q", fe.Param(), got)
	case "go_duration":
		return fmt.Sprintf("must be a positive duration such as 30s or 15m, got %q", got)
	case "hostname_port":
		return fmt.Sprintf("must be in host:port form, got %q", got)
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
