package foundation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validator checks a value and reports every problem it finds.
type Validator[T any] func(T) ValidationResult

// ValidationResult contains the result of a validation operation.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// FieldError is a single rejected field.
type FieldError struct {
	Field      string `json:"field"`
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (fe FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", fe.Field, fe.Reason)
}

// Valid creates a successful validation result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid creates a failed validation result with errors.
func Invalid(errs ...FieldError) ValidationResult {
	return ValidationResult{Errors: errs}
}

// Combine merges two results, keeping error order.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if vr.Valid && other.Valid {
		return Valid()
	}
	all := make([]FieldError, 0, len(vr.Errors)+len(other.Errors))
	all = append(all, vr.Errors...)
	all = append(all, other.Errors...)
	return Invalid(all...)
}

// First returns the first failure, if any.
func (vr ValidationResult) First() (FieldError, bool) {
	if vr.Valid || len(vr.Errors) == 0 {
		return FieldError{}, false
	}
	return vr.Errors[0], true
}

// ValidatorChain runs validators in order and accumulates their failures.
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain.
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add appends a validator to the chain.
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate runs all validators in the chain.
func (vc *ValidatorChain[T]) Validate(value T) ValidationResult {
	result := Valid()
	for _, v := range vc.validators {
		result = result.Combine(v(value))
	}
	return result
}

// Required rejects empty or whitespace-only strings.
func Required(field, suggestion string) Validator[string] {
	return func(s string) ValidationResult {
		if strings.TrimSpace(s) == "" {
			return Invalid(FieldError{Field: field, Reason: "is required", Suggestion: suggestion})
		}
		return Valid()
	}
}

// MaxLength rejects strings longer than limit runes.
func MaxLength(field string, limit int) Validator[string] {
	return func(s string) ValidationResult {
		if utf8.RuneCountInString(s) > limit {
			return Invalid(FieldError{
				Field:  field,
				Reason: fmt.Sprintf("must be at most %d characters", limit),
			})
		}
		return Valid()
	}
}

// OneOf accepts empty strings and any spelling known to n.
func OneOf[T comparable](field string, n *Normalizer[T]) Validator[string] {
	return func(s string) ValidationResult {
		if strings.TrimSpace(s) == "" {
			return Valid()
		}
		if _, ok := n.Lookup(s); !ok {
			return Invalid(FieldError{
				Field:      field,
				Reason:     fmt.Sprintf("must be one of: %s", strings.Join(n.Keys(), ", ")),
				Suggestion: fmt.Sprintf("Omit %s to use the default", field),
			})
		}
		return Valid()
	}
}

// Field lifts a validator over one field of a larger value.
func Field[S, F any](get func(S) F, v Validator[F]) Validator[S] {
	return func(s S) ValidationResult {
		return v(get(s))
	}
}
