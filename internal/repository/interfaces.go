package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
)

// Sentinel errors surfaced by repositories. Services translate these
// into the application error taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrSlugTaken = errors.New("slug already taken")
)

// All repository interfaces in one file
type (
	// AccountRepository handles account operations. There is no Delete:
	// accounts are never hard-deleted in this subsystem.
	AccountRepository interface {
		// CreateWithAdmin inserts the account and its first user in one
		// transaction. Returns ErrSlugTaken when the slug unique index
		// rejects the insert.
		CreateWithAdmin(ctx context.Context, account *model.Account, admin *model.AppUser) error
		Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
		GetBySlug(ctx context.Context, slug string) (*model.Account, error)
		SlugExists(ctx context.Context, slug string) (bool, error)
		Update(ctx context.Context, account *model.Account) error
		List(ctx context.Context, filters *model.AccountFilters) ([]*model.Account, error)
		CountSubAccounts(ctx context.Context, parentID uuid.UUID) (int, error)
	}

	PlanRepository interface {
		Create(ctx context.Context, plan *model.Plan) error
		Get(ctx context.Context, id uuid.UUID) (*model.Plan, error)
		Update(ctx context.Context, plan *model.Plan) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PlanFilters) ([]*model.Plan, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.AppUser) error
		Get(ctx context.Context, id uuid.UUID) (*model.AppUser, error)
		GetByEmail(ctx context.Context, email string) (*model.AppUser, error)
		Update(ctx context.Context, user *model.AppUser) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*model.AppUser, error)
		CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error)
	}

	ViewAsSessionRepository interface {
		Create(ctx context.Context, session *model.ViewAsSession) error
		GetByToken(ctx context.Context, token string) (*model.ViewAsSession, error)
		Deactivate(ctx context.Context, id uuid.UUID) error
	}

	CustomerRepository interface {
		Create(ctx context.Context, customer *model.Customer) error
		Get(ctx context.Context, id uuid.UUID) (*model.Customer, error)
		Update(ctx context.Context, customer *model.Customer) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.CustomerFilters) ([]*model.Customer, error)
	}
)
