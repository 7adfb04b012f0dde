// Package domain holds the error taxonomy shared across services and the API layer.
package domain

import "errors"

// Sentinel errors. Services wrap these with fmt.Errorf("%w: ...") so the
// API layer can map them to status codes with errors.Is.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates bad or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a business-rule violation on otherwise valid
	// input: token already consumed, request already pending, flag already
	// resolved. Surfaced distinctly so callers can branch on it.
	ErrConflict = errors.New("conflict")

	// ErrDependency indicates an external collaborator (notification
	// gateway, classification service) failed. Batch passes record it and
	// continue; it never aborts a run.
	ErrDependency = errors.New("dependency failure")
)
