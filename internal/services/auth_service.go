package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/terraincognita07/flowbit/internal/models"
)

// AccountStore is the credential store the auth flows run against. Find*
// methods return (nil, nil) when nothing matches.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByHandle(ctx context.Context, handle string) (*models.Account, error)
	FindByEmailOrHandle(ctx context.Context, email string, handle string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	UpdateLockoutState(ctx context.Context, accountID uint, failedAttempts int, lastFailedAt time.Time) error
	UpdatePasswordHash(ctx context.Context, accountID uint, passwordHash string) error
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, digest string) bool
	VerifyDummy(plaintext string)
}

// Provisioner seeds the default workspace after a successful login.
type Provisioner interface {
	Ensure(ctx context.Context, accountID uint) (ProvisioningOutcome, error)
}

// PublicAccount is the part of an account that may leave the service.
type PublicAccount struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Handle    string `json:"handle"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func NewPublicAccount(account *models.Account) PublicAccount {
	return PublicAccount{
		ID:        account.ID,
		Email:     account.Email,
		Handle:    account.Handle,
		FirstName: account.FirstName,
		LastName:  account.LastName,
	}
}

type LoginResult struct {
	Account      PublicAccount
	Provisioning ProvisioningOutcome
	// ProvisioningErr is non-nil when seeding the workspace failed. The login
	// itself still succeeded.
	ProvisioningErr error
}

type AuthService struct {
	accounts    AccountStore
	hasher      PasswordHasher
	provisioner Provisioner
	logger      *slog.Logger
	now         func() time.Time
}

func NewAuthService(accounts AccountStore, hasher PasswordHasher, provisioner Provisioner, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		accounts:    accounts,
		hasher:      hasher,
		provisioner: provisioner,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock replaces the time source; tests use it to walk through the
// lockout window.
func (service *AuthService) WithClock(now func() time.Time) *AuthService {
	service.now = now
	return service
}

func (service *AuthService) Register(ctx context.Context, input RegistrationInput) (PublicAccount, error) {
	if err := ValidateRegistrationInput(input); err != nil {
		return PublicAccount{}, err
	}

	existing, err := service.accounts.FindByEmailOrHandle(ctx, input.Email, input.Handle)
	if err != nil {
		return PublicAccount{}, storeError("check existing account", err)
	}
	if existing != nil {
		return PublicAccount{}, ErrConflict
	}

	passwordHash, err := service.hasher.Hash(input.Password)
	if err != nil {
		return PublicAccount{}, err
	}
	answerHash, err := service.hasher.Hash(input.SecretAnswer)
	if err != nil {
		return PublicAccount{}, err
	}

	account := models.Account{
		Email:            input.Email,
		Handle:           input.Handle,
		PasswordHash:     passwordHash,
		SecretAnswerHash: answerHash,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		FailedAttempts:   0,
		CreatedAt:        service.now().UTC(),
	}
	if err := service.accounts.Create(ctx, &account); err != nil {
		if errors.Is(err, ErrConflict) || isDuplicateAccount(err) {
			return PublicAccount{}, ErrConflict
		}
		return PublicAccount{}, storeError("create account", err)
	}

	service.logger.InfoContext(ctx, "account registered", "account_id", account.ID)
	return NewPublicAccount(&account), nil
}

func (service *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	if err := ValidateLoginInput(input); err != nil {
		return LoginResult{}, err
	}

	account, err := service.resolveIdentifier(ctx, input.Identifier)
	if err != nil {
		return LoginResult{}, storeError("find account", err)
	}
	if account == nil {
		service.hasher.VerifyDummy(input.Password)
		return LoginResult{}, ErrInvalidCredentials
	}

	now := service.now().UTC()
	failures := account.FailedAttempts
	decision := EvaluateLockout(failures, account.LastFailedAt, now)
	switch decision.Verdict {
	case LockoutDeny:
		return LoginResult{}, &LockedOutError{Remaining: decision.Remaining}
	case LockoutAllowAndReset:
		if err := service.accounts.UpdateLockoutState(ctx, account.ID, 0, now); err != nil {
			service.logger.WarnContext(ctx, "lockout reset not persisted", "account_id", account.ID, "error", err)
		}
		failures = 0
	}

	if !service.hasher.Verify(input.Password, account.PasswordHash) {
		if err := service.accounts.UpdateLockoutState(ctx, account.ID, failures+1, now); err != nil {
			return LoginResult{}, storeError("record failed login", err)
		}
		return LoginResult{}, ErrInvalidCredentials
	}

	if failures > 0 {
		if err := service.accounts.UpdateLockoutState(ctx, account.ID, 0, now); err != nil {
			service.logger.WarnContext(ctx, "failure counter reset not persisted", "account_id", account.ID, "error", err)
		}
	}

	result := LoginResult{Account: NewPublicAccount(account)}
	if service.provisioner != nil {
		result.Provisioning, result.ProvisioningErr = service.provisioner.Ensure(ctx, account.ID)
		if result.ProvisioningErr != nil {
			service.logger.ErrorContext(ctx, "default workspace provisioning failed", "account_id", account.ID, "error", result.ProvisioningErr)
		}
	}
	return result, nil
}

func (service *AuthService) Recover(ctx context.Context, input RecoveryInput) (PublicAccount, error) {
	if err := ValidateRecoveryInput(input); err != nil {
		return PublicAccount{}, err
	}

	account, err := service.accounts.FindByEmail(ctx, input.Email)
	if err != nil {
		service.logger.ErrorContext(ctx, "recovery lookup failed", "error", err)
		service.hasher.VerifyDummy(input.SecretAnswer)
		return PublicAccount{}, ErrInvalidCredentials
	}
	if account == nil {
		service.hasher.VerifyDummy(input.SecretAnswer)
		return PublicAccount{}, ErrInvalidCredentials
	}
	if !service.hasher.Verify(input.SecretAnswer, account.SecretAnswerHash) {
		return PublicAccount{}, ErrInvalidCredentials
	}

	passwordHash, err := service.hasher.Hash(input.NewPassword)
	if err != nil {
		return PublicAccount{}, err
	}
	if err := service.accounts.UpdatePasswordHash(ctx, account.ID, passwordHash); err != nil {
		return PublicAccount{}, storeError("update password", err)
	}

	service.logger.InfoContext(ctx, "password recovered", "account_id", account.ID)
	return NewPublicAccount(account), nil
}

// isDuplicateAccount recognises store errors that flag a unique-index hit.
func isDuplicateAccount(err error) bool {
	var duplicate interface{ Duplicate() bool }
	return errors.As(err, &duplicate) && duplicate.Duplicate()
}

func (service *AuthService) resolveIdentifier(ctx context.Context, identifier string) (*models.Account, error) {
	if IsEmailIdentifier(identifier) {
		return service.accounts.FindByEmail(ctx, identifier)
	}
	return service.accounts.FindByHandle(ctx, identifier)
}
