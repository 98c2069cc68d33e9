package services

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	MinHandleLength   = 3
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes and x/crypto rejects it.
	MaxPasswordBytes = 72
)

type RegistrationInput struct {
	Email        string
	Handle       string
	Password     string
	FirstName    string
	LastName     string
	SecretAnswer string
}

type LoginInput struct {
	Identifier string
	Password   string
}

type RecoveryInput struct {
	Email        string
	SecretAnswer string
	NewPassword  string
}

// IsEmailIdentifier reports whether a login identifier is looked up as an
// email. A handle containing "@" is therefore unreachable through login.
func IsEmailIdentifier(identifier string) bool {
	return strings.Contains(identifier, "@")
}

func ValidateRegistrationInput(input RegistrationInput) error {
	verr := &ValidationError{}
	checkEmail(verr, "email", input.Email)
	if utf8.RuneCountInString(input.Handle) < MinHandleLength {
		verr.add("handle", FieldTooShort, "must be at least 3 characters")
	}
	checkPassword(verr, "password", input.Password)
	if strings.TrimSpace(input.FirstName) == "" {
		verr.add("first_name", FieldRequired, "is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		verr.add("last_name", FieldRequired, "is required")
	}
	checkSecretAnswer(verr, input.SecretAnswer)
	return verr.orNil()
}

func ValidateLoginInput(input LoginInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Identifier) == "" {
		verr.add("identifier", FieldRequired, "is required")
	}
	if input.Password == "" {
		verr.add("password", FieldRequired, "is required")
	}
	return verr.orNil()
}

func ValidateRecoveryInput(input RecoveryInput) error {
	verr := &ValidationError{}
	checkEmail(verr, "email", input.Email)
	checkSecretAnswer(verr, input.SecretAnswer)
	checkPassword(verr, "new_password", input.NewPassword)
	return verr.orNil()
}

func checkEmail(verr *ValidationError, field string, email string) {
	if email == "" {
		verr.add(field, FieldRequired, "is required")
		return
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		verr.add(field, FieldInvalidEmail, "must be a valid email address")
	}
}

func checkPassword(verr *ValidationError, field string, password string) {
	switch {
	case utf8.RuneCountInString(password) < MinPasswordLength:
		verr.add(field, FieldTooShort, "must be at least 6 characters")
	case len(password) > MaxPasswordBytes:
		verr.add(field, FieldTooLong, "must be at most 72 bytes")
	}
}

func checkSecretAnswer(verr *ValidationError, answer string) {
	switch {
	case strings.TrimSpace(answer) == "":
		verr.add("secret_answer", FieldRequired, "is required")
	case len(answer) > MaxPasswordBytes:
		verr.add("secret_answer", FieldTooLong, "must be at most 72 bytes")
	}
}

// ValidatePassword applies the password rules to a single value reported
// under field.
func ValidatePassword(field string, password string) error {
	verr := &ValidationError{}
	checkPassword(verr, field, password)
	return verr.orNil()
}
