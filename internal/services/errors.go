package services

import (
	"errors"
	"fmt"
	"workshop_manager/internal/repository"
	"workshop_manager/internal/rules"
)

var (
	ErrNotFound  = repository.ErrNotFound
	ErrForbidden = errors.New("you do not have permission to perform this action")

	ErrUnknownUser     = errors.New("unknown username")
	ErrInactiveAccount = errors.New("account is inactive")
	ErrWrongPassword   = errors.New("wrong password")
)

// ShortfallError is returned when a part usage asks for more stock than exists.
type ShortfallError = rules.ShortfallError

// ValidationError rejects input before anything is written.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// reference turns a missing referenced row into a validation error on field.
func reference(err error, field string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return invalid(field, "does not exist")
	}
	return err
}

// IsAuthError reports whether err is one of the login failure reasons.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnknownUser) || errors.Is(err, ErrInactiveAccount) || errors.Is(err, ErrWrongPassword)
}
