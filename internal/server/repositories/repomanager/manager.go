// Package repomanager hands out repositories bound to a database handle and
// owns schema migration at startup.
package repomanager

import (
	"context"
	"database/sql"

	"doorman/internal/dbx"
	"doorman/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
