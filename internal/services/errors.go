package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"dispatch-app/backend/internal/db/repositories"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrPreviewNotFound   = fmt.Errorf("import preview: %w", repositories.ErrNotFound)
)

// ValidationError carries field level messages and matches ErrValidation.
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
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validatable is implemented by every request DTO.
type validatable interface {
	Ok() (map[string]string, bool)
}

func validate(req validatable) error {
	if fields, ok := req.Ok(); !ok {
		return &ValidationError{Fields: fields}
	}
	return nil
}
