package service

import (
	"errors"
	"fmt"

	"github.com/BuzzLyutic/mileapp-task-api/internal/repo"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEmail     = fmt.Errorf("user already exists with this email: %w", repo.ErrorConflict)
)

// ValidationError указывает на конкретное поле; errors.Is(err, ErrValidation) == true.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
