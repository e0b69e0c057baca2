package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
)

const accountColumns = `
	id, name, slug, type, parent_id, plan_id, plan_status, trial_ends_at,
	status, location, max_users, max_sub_accounts, created_at, updated_at
`

type accountRepository struct {
	BaseRepository
}

func NewAccountRepository(base BaseRepository) repository.AccountRepository {
	return &accountRepository{base}
}

// CreateWithAdmin inserts the account and its mandatory first user in a
// single transaction: either both rows exist afterwards or neither
// does. A slug collision on the accounts_slug_key index surfaces as
// repository.ErrSlugTaken so the caller can retry with the next suffix.
func (r *accountRepository) CreateWithAdmin(ctx context.Context, account *model.Account, admin *model.AppUser) error {
	accountQuery := `
		INSERT INTO accounts (
			id, name, slug, type, parent_id, plan_id, plan_status, trial_ends_at,
			status, location, max_users, max_sub_accounts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	userQuery := `
		INSERT INTO app_users (
			id, account_id, email, name, password_hash, role, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	account.ID = uuid.New()
	account.CreatedAt = now
	account.UpdatedAt = now
	admin.ID = uuid.New()
	admin.AccountID = account.ID
	admin.CreatedAt = now
	admin.UpdatedAt = now

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, accountQuery,
			account.ID,
			account.Name,
			account.Slug,
			account.Type,
			account.ParentID,
			account.PlanID,
			account.PlanStatus,
			account.TrialEndsAt,
			account.Status,
			account.Location,
			account.MaxUsers,
			account.MaxSubAccounts,
			account.CreatedAt,
			account.UpdatedAt,
		); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, userQuery,
			admin.ID,
			admin.AccountID,
			admin.Email,
			admin.Name,
			admin.PasswordHash,
			admin.Role,
			admin.Status,
			admin.CreatedAt,
			admin.UpdatedAt,
		)
		return err
	})
	if err != nil {
		if isUniqueViolation(err, "accounts_slug_key") {
			return repository.ErrSlugTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	var account model.Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetBySlug(ctx context.Context, slug string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE slug = $1`

	var account model.Account
	err := r.db.GetContext(ctx, &account, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by slug: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE slug = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, slug); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, plan_id = $2, plan_status = $3, trial_ends_at = $4,
		    status = $5, location = $6, max_users = $7, max_sub_accounts = $8,
		    updated_at = $9
		WHERE id = $10
	`
	account.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		account.Name,
		account.PlanID,
		account.PlanStatus,
		account.TrialEndsAt,
		account.Status,
		account.Location,
		account.MaxUsers,
		account.MaxSubAccounts,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *accountRepository) List(ctx context.Context, filters *model.AccountFilters) ([]*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE 1=1`
	args := []interface{}{}

	if filters != nil {
		if filters.Type != "" {
			args = append(args, filters.Type)
			query += fmt.Sprintf(" AND type = $%d", len(args))
		}
		if filters.Status != "" {
			args = append(args, filters.Status)
			query += fmt.Sprintf(" AND status = $%d", len(args))
		}
		if filters.ParentID != nil {
			args = append(args, *filters.ParentID)
			query += fmt.Sprintf(" AND parent_id = $%d", len(args))
		}
	}
	query += " ORDER BY created_at DESC"
	if filters != nil {
		args = append(args, filters.Limit())
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filters.Offset())
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var accounts []*model.Account
	if err := r.db.SelectContext(ctx, &accounts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) CountSubAccounts(ctx context.Context, parentID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM accounts WHERE parent_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, parentID); err != nil {
		return 0, fmt.Errorf("failed to count sub-accounts: %w", err)
	}
	return count, nil
}
