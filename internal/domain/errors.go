// Package domain provides shared domain-level sentinel errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the requested entity does not exist within the
// caller's tenant. An entity owned by another tenant is reported the same way.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a uniqueness or concurrent modification conflict.
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrValidation indicates malformed or incomplete input.
var ErrValidation = errors.New("validation failed")

// ErrForbidden indicates an authenticated principal that is not entitled to
// the requested tenant scope.
var ErrForbidden = errors.New("forbidden")

// ErrBusinessRule indicates a domain precondition blocked a mutation.
var ErrBusinessRule = errors.New("business rule violation")

// Validation wraps ErrValidation with a field-level message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// BusinessRule wraps ErrBusinessRule with a description of the violated rule.
func BusinessRule(rule string) error {
	return fmt.Errorf("%w: %s", ErrBusinessRule, rule)
}

// RuleMessage returns the human-readable part of a business rule or
// validation error, without the sentinel prefix.
func RuleMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrBusinessRule, ErrValidation} {
		prefix := sentinel.Error() + ": "
		if i := strings.Index(msg, prefix); i >= 0 {
			return msg[i+len(prefix):]
		}
	}
	return msg
}
