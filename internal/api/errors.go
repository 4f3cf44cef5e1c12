package api

import (
	"fmt"
	"sort"
	"strings"
)

// AuthError is a user-facing authentication failure: bad credentials, an
// expired token, or field-level validation problems from registration. The
// message is shown verbatim in the UI.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// NetworkError wraps any transport failure or unexpected response status.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// fieldErrorMessage flattens a field->messages validation payload (the
// shape Django REST returns on 400) into one readable string. Field names
// are humanized ("password_confirm" -> "password confirm") and output is
// ordered by field name so the message is stable.
func fieldErrorMessage(fields map[string]any) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		var msgs []string
		switch v := fields[name].(type) {
		case []any:
			for _, m := range v {
				msgs = append(msgs, fmt.Sprint(m))
			}
		default:
			msgs = append(msgs, fmt.Sprint(v))
		}
		human := strings.ReplaceAll(name, "_", " ")
		parts = append(parts, human+": "+strings.Join(msgs, ", "))
	}
	return strings.Join(parts, ". ")
}
