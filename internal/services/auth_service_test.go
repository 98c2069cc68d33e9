package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/flowbit/internal/logging"
	"github.com/terraincognita07/flowbit/internal/security"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	accounts    *fakeAccountStore
	tasks       *fakeTaskStore
	assignments *fakeAssignmentStore
	hasher      *countingHasher
	service     *AuthService
	now         time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hasher, err := security.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	logger := logging.Discard()
	fixture := &authFixture{
		accounts: newFakeAccountStore(),
		tasks:    newFakeTaskStore(),
		hasher:   &countingHasher{PasswordHasher: hasher},
		now:      time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC),
	}
	fixture.assignments = newFakeAssignmentStore(fixture.tasks)
	provisioner := NewProvisioningService(fixture.tasks, fixture.assignments, logger)
	fixture.service = NewAuthService(fixture.accounts, fixture.hasher, provisioner, logger).
		WithClock(func() time.Time { return fixture.now })
	return fixture
}

func (fixture *authFixture) register(t *testing.T) PublicAccount {
	t.Helper()
	account, err := fixture.service.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	return account
}

func (fixture *authFixture) login(password string) (LoginResult, error) {
	return fixture.service.Login(context.Background(), LoginInput{Identifier: "alice", Password: password})
}

func TestRegisterCreatesAccountWithHashedSecrets(t *testing.T) {
	fixture := newAuthFixture(t)

	account := fixture.register(t)

	require.NotZero(t, account.ID)
	require.Equal(t, "a@x.com", account.Email)
	require.Equal(t, "alice", account.Handle)
	require.Equal(t, "Alice", account.FirstName)
	require.Equal(t, "Liddell", account.LastName)

	stored := fixture.accounts.get(account.ID)
	require.NotEqual(t, "secret1", stored.PasswordHash)
	require.NotEqual(t, "blue", stored.SecretAnswerHash)
	require.True(t, fixture.hasher.Verify("secret1", stored.PasswordHash))
	require.True(t, fixture.hasher.Verify("blue", stored.SecretAnswerHash))
	require.Zero(t, stored.FailedAttempts)
	require.Nil(t, stored.LastFailedAt)
}

func TestRegisterConflicts(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t)

	_, err := fixture.service.Register(context.Background(), validRegistration())
	require.ErrorIs(t, err, ErrConflict)

	sameHandle := validRegistration()
	sameHandle.Email = "other@x.com"
	_, err = fixture.service.Register(context.Background(), sameHandle)
	require.ErrorIs(t, err, ErrConflict)

	sameEmail := validRegistration()
	sameEmail.Handle = "bob"
	_, err = fixture.service.Register(context.Background(), sameEmail)
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegisterMapsInsertRaceToConflict(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.accounts.raceOnCreate = true

	_, err := fixture.service.Register(context.Background(), validRegistration())
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegisterRejectsInvalidInputBeforeTouchingStore(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.accounts.findErr = errors.New("store must not be called")

	input := validRegistration()
	input.Handle = "al"
	_, err := fixture.service.Register(context.Background(), input)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "handle", verr.Fields[0].Field)
}

func TestRegisterStoreFailure(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.accounts.createErr = errors.New("disk full")

	_, err := fixture.service.Register(context.Background(), validRegistration())
	require.ErrorIs(t, err, ErrStore)
	require.NotErrorIs(t, err, ErrConflict)
}

func TestLoginSuccessProvisionsDefaultWorkspace(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.register(t)

	result, err := fixture.login("secret1")
	require.NoError(t, err)
	require.Equal(t, account, result.Account)
	require.Equal(t, ProvisioningDone, result.Provisioning)
	require.NoError(t, result.ProvisioningErr)
	require.Equal(t, 6, fixture.assignments.countFor(account.ID))

	again, err := fixture.login("secret1")
	require.NoError(t, err)
	require.Equal(t, ProvisioningSkipped, again.Provisioning)
	require.Equal(t, 6, fixture.assignments.countFor(account.ID))
	require.Equal(t, 6, fixture.tasks.count())
}

func TestLoginByEmailIdentifier(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t)

	result, err := fixture.service.Login(context.Background(), LoginInput{Identifier: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "alice", result.Account.Handle)
}

func TestLoginUnknownIdentifierSpendsDummyVerification(t *testing.T) {
	fixture := newAuthFixture(t)

	_, err := fixture.service.Login(context.Background(), LoginInput{Identifier: "ghost", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, 1, fixture.hasher.dummyCalls)
}

func TestLoginWrongPasswordCountsFailure(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.register(t)

	_, err := fixture.login("wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	stored := fixture.accounts.get(account.ID)
	require.Equal(t, 1, stored.FailedAttempts)
	require.NotNil(t, stored.LastFailedAt)
	require.True(t, stored.LastFailedAt.Equal(fixture.now))
	require.Zero(t, fixture.assignments.countFor(account.ID))
}

func TestLoginSuccessResetsFailureCounter(t *testing.T) {
	for failures := 0; failures < MaxLoginAttempts; failures++ {
		fixture := newAuthFixture(t)
		account := fixture.register(t)
		for i := 0; i < failures; i++ {
			_, err := fixture.login("wrong-password")
			require.ErrorIs(t, err, ErrInvalidCredentials)
		}

		_, err := fixture.login("secret1")
		require.NoError(t, err, "after %d failures", failures)
		require.Zero(t, fixture.accounts.get(account.ID).FailedAttempts, "after %d failures", failures)
	}
}

func TestLoginLockoutAndRecoveryAfterWindow(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.register(t)

	for i := 0; i < MaxLoginAttempts; i++ {
		_, err := fixture.login("wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	fixture.now = fixture.now.Add(time.Minute)
	_, err := fixture.login("secret1")
	require.ErrorIs(t, err, ErrLockedOut)
	var locked *LockedOutError
	require.ErrorAs(t, err, &locked)
	require.Equal(t, 4*time.Minute, locked.Remaining)
	require.Equal(t, int64(240), locked.RemainingSeconds())
	require.Equal(t, MaxLoginAttempts, fixture.accounts.get(account.ID).FailedAttempts)
	require.Zero(t, fixture.assignments.countFor(account.ID))

	fixture.now = fixture.now.Add(locked.Remaining)
	result, err := fixture.login("secret1")
	require.NoError(t, err)
	require.Equal(t, ProvisioningDone, result.Provisioning)
	require.Zero(t, fixture.accounts.get(account.ID).FailedAttempts)
}

func TestLoginAfterWindowWithWrongPasswordStartsNewCount(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.register(t)
	for i := 0; i < MaxLoginAttempts; i++ {
		_, _ = fixture.login("wrong-password")
	}

	fixture.now = fixture.now.Add(LoginBlockDuration + time.Second)
	_, err := fixture.login("still-wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, 1, fixture.accounts.get(account.ID).FailedAttempts)
}

func TestLoginRecordFailureStoreError(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t)
	fixture.accounts.updateErr = errors.New("read-only database")

	_, err := fixture.login("wrong-password")
	require.ErrorIs(t, err, ErrStore)
}

func TestLoginLookupStoreError(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.accounts.findErr = errors.New("connection refused")

	_, err := fixture.login("secret1")
	require.ErrorIs(t, err, ErrStore)
}

func TestLoginSucceedsWhenProvisioningFails(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.register(t)
	fixture.tasks.createErr = errors.New("disk full")

	result, err := fixture.login("secret1")
	require.NoError(t, err)
	require.Equal(t, account.ID, result.Account.ID)
	require.Equal(t, ProvisioningFailed, result.Provisioning)
	require.ErrorIs(t, result.ProvisioningErr, ErrProvisioning)
}

func TestRecoverReplacesPasswordAndKeepsCounter(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.register(t)
	for i := 0; i < 2; i++ {
		_, _ = fixture.login("wrong-password")
	}

	recovered, err := fixture.service.Recover(context.Background(), RecoveryInput{
		Email:        "a@x.com",
		SecretAnswer: "blue",
		NewPassword:  "secret2",
	})
	require.NoError(t, err)
	require.Equal(t, account.ID, recovered.ID)

	stored := fixture.accounts.get(account.ID)
	require.Equal(t, 2, stored.FailedAttempts)
	require.True(t, fixture.hasher.Verify("secret2", stored.PasswordHash))
	require.False(t, fixture.hasher.Verify("secret1", stored.PasswordHash))

	_, err = fixture.login("secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = fixture.login("secret2")
	require.NoError(t, err)
}

func TestRecoverWrongAnswerLeavesPasswordUntouched(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.register(t)
	before := fixture.accounts.get(account.ID).PasswordHash

	_, err := fixture.service.Recover(context.Background(), RecoveryInput{
		Email:        "a@x.com",
		SecretAnswer: "red",
		NewPassword:  "secret2",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, before, fixture.accounts.get(account.ID).PasswordHash)
}

func TestRecoverUnknownEmailAndLookupFailureLookAlike(t *testing.T) {
	fixture := newAuthFixture(t)
	input := RecoveryInput{Email: "ghost@x.com", SecretAnswer: "blue", NewPassword: "secret2"}

	_, err := fixture.service.Recover(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	fixture.accounts.findErr = errors.New("connection refused")
	_, err = fixture.service.Recover(context.Background(), input)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, 2, fixture.hasher.dummyCalls)
}

func TestRecoverUpdateStoreError(t *testing.T) {
	fixture := newAuthFixture(t)
	fixture.register(t)
	fixture.accounts.updateErr = errors.New("read-only database")

	_, err := fixture.service.Recover(context.Background(), RecoveryInput{
		Email:        "a@x.com",
		SecretAnswer: "blue",
		NewPassword:  "secret2",
	})
	require.ErrorIs(t, err, ErrStore)
}
