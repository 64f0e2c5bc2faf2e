package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"brgydocs/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidToken is a routine outcome of scanning a stale or mistyped QR code.
	ErrInvalidToken   = errors.New("invalid release token")
	ErrNoReleaseToken = errors.New("release token not issued yet")
	ErrReferenced     = errors.New("document type is referenced by requests")
	ErrNameTaken      = errors.New("document type name already exists")
)

// ValidationError carries per-field messages keyed by the input's JSON names.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalidField(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// TransitionError reports the state a request was in when an action was refused.
// It matches ErrInvalidTransition under errors.Is.
type TransitionError struct {
	Action string
	From   model.Status
}

func (e *TransitionError) Error() string {
	if e.From.Terminal() {
		return fmt.Sprintf("cannot %s a request that is already %s", e.Action, e.From)
	}
	return fmt.Sprintf("cannot %s a request that is %s", e.Action, e.From)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
