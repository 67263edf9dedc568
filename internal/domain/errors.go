package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicate         = errors.New("duplicate record")
	ErrAuthentication    = errors.New("invalid username or password")
	ErrUnauthorized      = errors.New("authentication credentials were not provided or are invalid")
	ErrForbidden         = errors.New("you do not have permission to perform this action")
	ErrProfileNotFound   = errors.New("user profile not found")
	ErrConflict          = errors.New("conflict with current state")
	ErrInsufficientStock = errors.New("not enough stock")
)

// ValidationError agrupa errores por campo (estilo {"campo": ["mensaje"]}).
// errors.Is(err, ErrInvalidInput) es true para cualquier *ValidationError.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError crea un error con un único mensaje para field.
func NewValidationError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}

// Add agrega un mensaje al campo.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// HasErrors indica si hay al menos un campo con error.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil devuelve nil cuando no se acumuló ningún error, para poder hacer `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// DuplicateError indica una violación de unicidad en almacenamiento sobre Field.
// errors.Is(err, ErrDuplicate) es true.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return "duplicate value for " + e.Field }

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }
