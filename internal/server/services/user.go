// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login (minting JWTs), and
// token-gated profile updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"doorman/internal/common"
	"doorman/internal/cryptox"
	"doorman/internal/dbx"
	"doorman/internal/server/auth"
	"doorman/internal/server/config"
	"doorman/internal/server/models"
	"doorman/internal/server/repositories/repomanager"
	"doorman/internal/server/validation"
)

// UserService provides the account operations:
// - Register: create accounts
// - Login: verify credentials and mint a token
// - Update: mutate an authenticated account's profile
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	bcryptCost            int
}

// NewUserService constructs a UserService using repositories and server
// config. db may be nil when the repository manager is not SQL-backed.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		bcryptCost:            cfg.BcryptCost,
	}
}

// Register creates a new account after the registration policy has passed.
// A taken email fails with ErrDuplicateEmail, whether it is caught by the
// existence check or by the storage uniqueness constraint when two
// registrations race.
func (s *UserService) Register(ctx context.Context, in *validation.RegisterInput) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, in.Email)
	if err == nil {
		return nil, common.ErrDuplicateEmail
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	hash, err := cryptox.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return user, nil
}

// Login verifies the submitted credentials and, on success, returns the
// account together with a freshly minted bearer token.
func (s *UserService) Login(ctx context.Context, in *validation.LoginInput) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	ok, err := cryptox.CheckPassword(in.Password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, "", common.ErrPasswordMismatch
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return user, token, nil
}

// Update applies the validated changes to the acting account. An email owned
// by another account fails with ErrEmailInUse; changing the password
// requires oldPassword to verify against the current digest. The merged
// changes commit in a single transaction or not at all.
func (s *UserService) Update(ctx context.Context, userID string, in *validation.UpdateInput) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if in.Email != nil && *in.Email != user.Email {
		owner, err := repo.GetByEmail(ctx, *in.Email)
		if err == nil && owner.ID != userID {
			return nil, common.ErrEmailInUse
		}
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		user.Email = *in.Email
	}

	if in.Name != nil {
		user.Name = *in.Name
	}

	if in.Password != nil {
		if in.OldPassword == nil {
			return nil, common.ErrValidation
		}

		ok, err := cryptox.CheckPassword(*in.OldPassword, user.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		if !ok {
			return nil, common.ErrPasswordMismatch
		}

		hash, err := cryptox.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		user.PasswordHash = hash
	}

	var updated *models.User
	if err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.Users(tx)
		var updErr error
		updated, updErr = repoTx.Update(ctx, user)
		return updErr
	}); err != nil {
		// the pre-check can lose a race; the constraint cannot
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, common.ErrEmailInUse
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return updated, nil
}

// withTx wraps fn in a SQL transaction when a database handle is present and
// runs it directly otherwise.
func (s *UserService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}
