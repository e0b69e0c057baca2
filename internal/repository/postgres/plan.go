package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
)

const planColumns = `
	id, name, type, price_cents, billing_period, status,
	max_users, max_sub_accounts, created_at, updated_at
`

type planRepository struct {
	BaseRepository
}

func NewPlanRepository(base BaseRepository) repository.PlanRepository {
	return &planRepository{base}
}

func (r *planRepository) Create(ctx context.Context, plan *model.Plan) error {
	query := `
		INSERT INTO plans (
			id, name, type, price_cents, billing_period, status,
			max_users, max_sub_accounts, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	now := time.Now()
	plan.ID = uuid.New()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.Name,
		plan.Type,
		plan.PriceCents,
		plan.BillingPeriod,
		plan.Status,
		plan.MaxUsers,
		plan.MaxSubAccounts,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`

	var plan model.Plan
	err := r.db.GetContext(ctx, &plan, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &plan, nil
}

// Update never touches the type column: plan type is immutable after
// creation so existing assignments cannot be invalidated.
func (r *planRepository) Update(ctx context.Context, plan *model.Plan) error {
	query := `
		UPDATE plans
		SET name = $1, price_cents = $2, billing_period = $3, status = $4,
		    max_users = $5, max_sub_accounts = $6, updated_at = $7
		WHERE id = $8
	`
	plan.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		plan.Name,
		plan.PriceCents,
		plan.BillingPeriod,
		plan.Status,
		plan.MaxUsers,
		plan.MaxSubAccounts,
		plan.UpdatedAt,
		plan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
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

func (r *planRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM plans WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
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

func (r *planRepository) List(ctx context.Context, filters *model.PlanFilters) ([]*model.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE 1=1`
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
	}
	query += " ORDER BY created_at DESC"

	var plans []*model.Plan
	if err := r.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}
