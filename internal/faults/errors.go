package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStateForbidden   = errors.New("state forbidden")
	ErrNotFound         = errors.New("not found")
	ErrAssemblyConflict = errors.New("assembly conflict")
	ErrExternalService  = errors.New("external service failure")
	ErrPersistence      = errors.New("persistence failure")
	ErrValidation       = errors.New("validation error")
)

// Kind names used in logs, metrics labels, and transport responses.
const (
	KindStateForbidden   = "state_forbidden"
	KindNotFound         = "not_found"
	KindAssemblyConflict = "assembly_conflict"
	KindExternalService  = "external_service"
	KindPersistence      = "persistence"
	KindValidation       = "validation"
	KindInternal         = "internal"
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalService
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Forbidden reports an illegal transition between two named states.
func Forbidden(from, to string) error {
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrStateForbidden, from, to)
}

// Kind classifies err by the first matching marker.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStateForbidden):
		return KindStateForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAssemblyConflict):
		return KindAssemblyConflict
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrExternalService):
		return KindExternalService
	default:
		return KindInternal
	}
}

// IsDeterministic reports whether err is a validation-type failure that must
// not be retried.
func IsDeterministic(err error) bool {
	switch Kind(err) {
	case KindStateForbidden, KindNotFound, KindAssemblyConflict, KindValidation:
		return true
	}
	return false
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{component, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "workbench failure"
	}
	return strings.Join(parts, ": ")
}
