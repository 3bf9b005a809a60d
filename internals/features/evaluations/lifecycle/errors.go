// file: internals/features/evaluations/lifecycle/errors.go
package lifecycle

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"restaurantops_backend/internals/features/evaluations/answers"
)

// ErrorKind classifies failures for the mutation layer (rollback, refetch, message).
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindGuard      ErrorKind = "guard_violation"
	KindValidation ErrorKind = "validation"
	KindTransient  ErrorKind = "transient"
	KindNotFound   ErrorKind = "not_found"
)

// GuardViolation: wrong actor or wrong status for the action. Never retried.
type GuardViolation struct {
	Action Action
	Status Status
	Reason string
}

func NewGuardViolation(action Action, status Status, reason string) error {
	return &GuardViolation{Action: action, Status: status, Reason: reason}
}

func (e *GuardViolation) Error() string {
	if e == nil {
		return ""
	}
	if e.Status != "" {
		return fmt.Sprintf("guard violation: %s while %s: %s", e.Action, e.Status, e.Reason)
	}
	return fmt.Sprintf("guard violation: %s: %s", e.Action, e.Reason)
}

// MissingAnswer names one unanswered required question.
type MissingAnswer struct {
	Key   answers.Key `json:"-"`
	ID    string      `json:"key"`
	Label string      `json:"label"`
}

// ValidationError rejects a finalizing action. Missing lists every unanswered
// required question; Fields carries malformed input (dates, unknown keys).
type ValidationError struct {
	Action  Action
	Missing []MissingAnswer
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := []string{}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d required question(s) unanswered: %s",
			len(e.Missing), strings.Join(e.Labels(), "; ")))
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
	}
	return "validation error: " + strings.Join(parts, ", ")
}

// Labels returns the missing question labels in template order.
func (e *ValidationError) Labels() []string {
	out := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		out = append(out, m.Label)
	}
	return out
}

func FieldError(action Action, field, message string) error {
	return &ValidationError{Action: action, Fields: map[string]string{field: message}}
}

// NotFoundError: evaluation, template or grading scale missing.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// TransientError: network or server failure with no meaning for evaluation state.
type TransientError struct {
	Op  string
	Err error
}

func NewTransient(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

func (e *TransientError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return "transient error: " + e.Op
	}
	return fmt.Sprintf("transient error: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf inspects a (possibly wrapped) error. Untyped errors are transient.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		gv *GuardViolation
		ve *ValidationError
		nf *NotFoundError
	)
	switch {
	case errors.As(err, &gv):
		return KindGuard
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &nf):
		return KindNotFound
	default:
		return KindTransient
	}
}

// HTTPStatus maps an error to the status code returned by the API.
func HTTPStatus(err error) int {
	var te *TransientError
	switch KindOf(err) {
	case KindNone:
		return http.StatusOK
	case KindGuard:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		if errors.As(err, &te) {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	}
}
