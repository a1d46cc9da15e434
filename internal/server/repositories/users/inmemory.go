package users

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"doorman/internal/common"
	"doorman/internal/server/models"
)

// InMemoryRepository keeps accounts in a map guarded by a mutex. It enforces
// the same literal email uniqueness the postgres schema does, so tests and
// local runs observe the same conflict behavior.
type InMemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]models.User
	email map[string]string // email -> id
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:  make(map[string]models.User),
		email: make(map[string]string),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.email[user.Email]; taken {
		return nil, common.ErrorDuplicate
	}

	u := *user
	u.ID = uuid.NewString()
	r.byID[u.ID] = u
	r.email[u.Email] = u.ID

	out := u
	return &out, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.email[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	if owner, taken := r.email[user.Email]; taken && owner != user.ID {
		return nil, common.ErrorDuplicate
	}

	if current.Email != user.Email {
		delete(r.email, current.Email)
		r.email[user.Email] = user.ID
	}

	u := *user
	u.CreatedAt = current.CreatedAt
	r.byID[u.ID] = u

	out := u
	return &out, nil
}
