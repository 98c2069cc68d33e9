package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/flowbit/internal/models"
	"github.com/terraincognita07/flowbit/internal/security"
	"github.com/terraincognita07/flowbit/internal/services"
)

const temporaryPasswordLength = 12

type AccountUnlocker interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByHandle(ctx context.Context, handle string) (*models.Account, error)
	ClearLockout(ctx context.Context, accountID uint) error
}

type PasswordResetter interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdatePasswordHash(ctx context.Context, accountID uint, passwordHash string) error
}

type Hasher interface {
	Hash(plaintext string) (string, error)
}

// PasswordSource supplies the new password for reset-password. ok=false means
// no interactive input is available and a temporary password is generated.
type PasswordSource func() (password string, ok bool, err error)

func RunUnlockCommand(ctx context.Context, accounts AccountUnlocker, identifier string, out io.Writer) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return errors.New("email or handle is required")
	}

	var account *models.Account
	var err error
	if services.IsEmailIdentifier(identifier) {
		account, err = accounts.FindByEmail(ctx, identifier)
	} else {
		account, err = accounts.FindByHandle(ctx, identifier)
	}
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("account %s not found", identifier)
	}

	if err := accounts.ClearLockout(ctx, account.ID); err != nil {
		return fmt.Errorf("clear lockout: %w", err)
	}

	fmt.Fprintf(out, "Account %s unlocked (%d failed attempts cleared)\n", account.Handle, account.FailedAttempts)
	return nil
}

func RunResetPasswordCommand(ctx context.Context, accounts PasswordResetter, hasher Hasher, email string, source PasswordSource, out io.Writer) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}

	account, err := accounts.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if account == nil {
		return fmt.Errorf("account %s not found", email)
	}

	password, interactive, err := source()
	if err != nil {
		return fmt.Errorf("read new password: %w", err)
	}
	if !interactive {
		password, err = security.RandomString(temporaryPasswordLength, security.TemporaryPasswordAlphabet)
		if err != nil {
			return fmt.Errorf("generate temporary password: %w", err)
		}
	}
	if err := services.ValidatePassword("password", password); err != nil {
		return err
	}

	passwordHash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := accounts.UpdatePasswordHash(ctx, account.ID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	fmt.Fprintln(out, "Password reset successful")
	if !interactive {
		fmt.Fprintf(out, "Temporary password: %s\n", password)
	}
	return nil
}
