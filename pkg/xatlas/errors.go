package xatlas

import (
	"errors"
	"fmt"
)

// Atlas state errors.
var (
	ErrValidation       = errors.New("invalid mesh declaration")
	ErrClosed           = errors.New("atlas is closed")
	ErrBusy             = errors.New("atlas is in use by another call")
	ErrNoMeshes         = errors.New("no meshes added to atlas")
	ErrNotGenerated     = errors.New("atlas has not been generated")
	ErrAlreadyGenerated = errors.New("atlas was already generated")
	ErrStaleView        = errors.New("view used after its atlas was mutated or closed")
)

// ValidationError describes a MeshDecl rejected before reaching the engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid mesh declaration: %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
