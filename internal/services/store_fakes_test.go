package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/terraincognita07/flowbit/internal/models"
)

type duplicateStub struct{}

func (duplicateStub) Error() string   { return "duplicate" }
func (duplicateStub) Duplicate() bool { return true }

type fakeAccountStore struct {
	mu       sync.Mutex
	nextID   uint
	accounts map[uint]*models.Account

	findErr   error
	createErr error
	updateErr error
	// raceOnCreate makes Create report a unique-index hit as if another
	// request inserted the same email between check and insert.
	raceOnCreate bool
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[uint]*models.Account)}
}

func (store *fakeAccountStore) find(match func(*models.Account) bool) (*models.Account, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.findErr != nil {
		return nil, store.findErr
	}
	ids := make([]uint, 0, len(store.accounts))
	for id := range store.accounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if match(store.accounts[id]) {
			copied := *store.accounts[id]
			return &copied, nil
		}
	}
	return nil, nil
}

func (store *fakeAccountStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	return store.find(func(account *models.Account) bool { return account.Email == email })
}

func (store *fakeAccountStore) FindByHandle(_ context.Context, handle string) (*models.Account, error) {
	return store.find(func(account *models.Account) bool { return account.Handle == handle })
}

func (store *fakeAccountStore) FindByEmailOrHandle(_ context.Context, email string, handle string) (*models.Account, error) {
	return store.find(func(account *models.Account) bool {
		return account.Email == email || account.Handle == handle
	})
}

func (store *fakeAccountStore) Create(_ context.Context, account *models.Account) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.createErr != nil {
		return store.createErr
	}
	if store.raceOnCreate {
		return duplicateStub{}
	}
	store.nextID++
	account.ID = store.nextID
	copied := *account
	store.accounts[account.ID] = &copied
	return nil
}

func (store *fakeAccountStore) UpdateLockoutState(_ context.Context, accountID uint, failedAttempts int, lastFailedAt time.Time) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.updateErr != nil {
		return store.updateErr
	}
	account, ok := store.accounts[accountID]
	if !ok {
		return errors.New("account not found")
	}
	account.FailedAttempts = failedAttempts
	at := lastFailedAt
	account.LastFailedAt = &at
	return nil
}

func (store *fakeAccountStore) UpdatePasswordHash(_ context.Context, accountID uint, passwordHash string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.updateErr != nil {
		return store.updateErr
	}
	account, ok := store.accounts[accountID]
	if !ok {
		return errors.New("account not found")
	}
	account.PasswordHash = passwordHash
	return nil
}

func (store *fakeAccountStore) get(accountID uint) models.Account {
	store.mu.Lock()
	defer store.mu.Unlock()
	return *store.accounts[accountID]
}

type fakeTaskStore struct {
	mu      sync.Mutex
	nextID  uint
	tasks   map[uint]models.Task
	deleted []uint

	createErr error
	deleteErr error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uint]models.Task)}
}

func (store *fakeTaskStore) Create(_ context.Context, task *models.Task) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.createErr != nil {
		return store.createErr
	}
	store.nextID++
	task.ID = store.nextID
	store.tasks[task.ID] = *task
	return nil
}

func (store *fakeTaskStore) Delete(_ context.Context, taskID uint) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.deleted = append(store.deleted, taskID)
	if store.deleteErr != nil {
		return store.deleteErr
	}
	delete(store.tasks, taskID)
	return nil
}

func (store *fakeTaskStore) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.tasks)
}

type fakeAssignmentStore struct {
	mu          sync.Mutex
	nextID      uint
	assignments []models.Assignment
	tasks       *fakeTaskStore

	listErr error
	// failOnCreate fails the n-th Create call (1-based); 0 disables it.
	failOnCreate int
	createCalls  int
}

func newFakeAssignmentStore(tasks *fakeTaskStore) *fakeAssignmentStore {
	return &fakeAssignmentStore{tasks: tasks}
}

func (store *fakeAssignmentStore) Create(_ context.Context, assignment *models.Assignment) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.createCalls++
	if store.failOnCreate != 0 && store.createCalls == store.failOnCreate {
		return errors.New("foreign key constraint failed")
	}
	store.nextID++
	assignment.ID = store.nextID
	store.assignments = append(store.assignments, *assignment)
	return nil
}

func (store *fakeAssignmentStore) ListWithTasksByAccount(_ context.Context, accountID uint) ([]models.Assignment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.listErr != nil {
		return nil, store.listErr
	}
	result := make([]models.Assignment, 0)
	for _, assignment := range store.assignments {
		if assignment.AccountID != accountID {
			continue
		}
		if store.tasks != nil {
			store.tasks.mu.Lock()
			assignment.Task = store.tasks.tasks[assignment.TaskID]
			store.tasks.mu.Unlock()
		}
		result = append(result, assignment)
	}
	return result, nil
}

func (store *fakeAssignmentStore) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	assignments, err := store.ListWithTasksByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return int64(len(assignments)), nil
}

func (store *fakeAssignmentStore) countFor(accountID uint) int {
	assignments, _ := store.ListWithTasksByAccount(context.Background(), accountID)
	return len(assignments)
}

type countingHasher struct {
	PasswordHasher
	dummyCalls int
}

func (hasher *countingHasher) VerifyDummy(plaintext string) {
	hasher.dummyCalls++
	hasher.PasswordHasher.VerifyDummy(plaintext)
}
