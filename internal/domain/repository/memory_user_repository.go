package repository

import (
	"context"
	"sync"
	"time"
	"user_hub/internal/common"
	"user_hub/internal/domain/model"

	"github.com/google/uuid"
)

// memoryUserRepository keeps the directory in process memory. All mutations
// run under a single write lock so the primary map and the uniqueness indices
// can never be observed out of step with each other.
type memoryUserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*model.User
	byUsername map[string]string // username -> id
	byEmail    map[string]string // email -> id
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		byID:       make(map[string]*model.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[user.Username]; exists {
		return common.ErrDuplicateUsername
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return common.ErrDuplicateEmail
	}

	// The store owns id assignment. Callers may pre-set one (imports, test
	// fixtures); a fresh record gets a fresh id here. A pre-set id may never
	// displace an existing record.
	if user.ID == "" {
		user.ID = uuid.NewString()
	} else if _, exists := r.byID[user.ID]; exists {
		return common.Errorf("user with id %q already exists", user.ID)
	}

	now := time.Now()
	stored := *user
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = &stored
	r.byUsername[stored.Username] = stored.ID
	r.byEmail[stored.Email] = stored.ID

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

// List returns a snapshot: the slice and the records in it are copies, so
// later mutations of the store never show through.
func (r *memoryUserRepository) List(ctx context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, *user)
	}
	return users, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, id string, update model.UserUpdate) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}

	if update.Email != nil {
		if owner, exists := r.byEmail[*update.Email]; exists && owner != id {
			return nil, common.ErrDuplicateEmail
		}
	}

	merged := update.Apply(current)
	merged.UpdatedAt = time.Now()

	if merged.Email != current.Email {
		delete(r.byEmail, current.Email)
		r.byEmail[merged.Email] = id
	}
	r.byID[id] = merged

	clone := *merged
	return &clone, nil
}

func (r *memoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byUsername, user.Username)
	delete(r.byEmail, user.Email)
	return nil
}
