package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hariomtransport/books/repository"
)

var (
	ErrNotFound         = repository.ErrNotFound
	ErrDuplicate        = repository.ErrDuplicate
	ErrPartyNotFound    = fmt.Errorf("party %w", ErrNotFound)
	ErrSupplierNotFound = fmt.Errorf("supplier %w", ErrNotFound)
	ErrAdvanceNotFound  = errors.New("advance not found")
	ErrLockNotObtained  = errors.New("ledger is being updated, try again")
	ErrValidation       = errors.New("validation failed")
	ErrInUse            = errors.New("record is still referenced")
)

// ValidationError carries the failing field names and the rule each one
// broke.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, tag := range e.Fields {
		parts = append(parts, field+": "+tag)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, tag string) error {
	return &ValidationError{Fields: map[string]string{field: tag}}
}

// ProcessValidationErrors flattens validator errors into field -> tag.
func ProcessValidationErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = fe.Tag()
		}
		return out
	}
	out["error"] = err.Error()
	return out
}
