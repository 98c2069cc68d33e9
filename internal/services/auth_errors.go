package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrConflict           = errors.New("email or handle already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLockedOut          = errors.New("account temporarily locked")
	ErrStore              = errors.New("store unavailable")
	ErrProvisioning       = errors.New("default workspace provisioning failed")
	ErrAccountNotFound    = errors.New("account not found")
)

// Field error codes. Transports translate on Code; Message is the English
// fallback.
const (
	FieldRequired     = "required"
	FieldInvalidEmail = "invalid_email"
	FieldTooShort     = "too_short"
	FieldTooLong      = "too_long"
)

// FieldError names one input field that failed shape validation.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (err *ValidationError) Error() string {
	names := make([]string, 0, len(err.Fields))
	for _, field := range err.Fields {
		names = append(names, field.Field)
	}
	return "invalid input: " + strings.Join(names, ", ")
}

func (err *ValidationError) add(field string, code string, message string) {
	err.Fields = append(err.Fields, FieldError{Field: field, Code: code, Message: message})
}

func (err *ValidationError) orNil() error {
	if len(err.Fields) == 0 {
		return nil
	}
	return err
}

// LockedOutError is returned while an account sits inside its lockout window.
// errors.Is(err, ErrLockedOut) holds for it.
type LockedOutError struct {
	Remaining time.Duration
}

func (err *LockedOutError) Error() string {
	return fmt.Sprintf("%s: retry in %ds", ErrLockedOut, remainingSeconds(err.Remaining))
}

func (err *LockedOutError) Is(target error) bool {
	return target == ErrLockedOut
}

func (err *LockedOutError) RemainingSeconds() int64 {
	return remainingSeconds(err.Remaining)
}

func (err *LockedOutError) RemainingMillis() int64 {
	return err.Remaining.Milliseconds()
}

func storeError(operation string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStore, operation, err)
}
