package repomanager

import (
	"context"
	"database/sql"

	"doorman/internal/dbx"
	"doorman/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves the same repository instance regardless of
// the handle passed in, so transactional and plain callers share state.
type InMemoryRepositoryManager struct {
	users users.Repository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
