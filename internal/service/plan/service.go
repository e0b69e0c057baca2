package plan

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
)

type PlanServicer interface {
	CreatePlan(ctx context.Context, plan *model.Plan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	UpdatePlan(ctx context.Context, plan *model.Plan) error
	DeletePlan(ctx context.Context, id uuid.UUID) error
	ListPlans(ctx context.Context, filters *model.PlanFilters) ([]*model.Plan, error)
}

type Service struct {
	repo repository.PlanRepository
}

func NewService(repo repository.PlanRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePlan(ctx context.Context, plan *model.Plan) error {
	if err := validatePlan(plan); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	plan, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("plan", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return plan, nil
}

// UpdatePlan rejects type changes: accounts already on the plan were
// validated against its type at assignment time.
func (s *Service) UpdatePlan(ctx context.Context, plan *model.Plan) error {
	existing, err := s.GetPlan(ctx, plan.ID)
	if err != nil {
		return err
	}
	if plan.Type != "" && plan.Type != existing.Type {
		return apperrors.Validation("plan type is immutable", nil)
	}
	if err := validatePlan(plan); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("plan", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("plan", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListPlans(ctx context.Context, filters *model.PlanFilters) ([]*model.Plan, error) {
	plans, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return plans, nil
}

func validatePlan(plan *model.Plan) error {
	if plan.Name == "" {
		return apperrors.Validation("plan name is required", nil)
	}
	if !plan.Type.Valid() {
		return apperrors.Validation("invalid plan type", nil)
	}
	if !plan.BillingPeriod.Valid() {
		return apperrors.Validation("invalid billing period", nil)
	}
	if !plan.Status.Valid() {
		return apperrors.Validation("invalid plan status", nil)
	}
	if plan.PriceCents < 0 {
		return apperrors.Validation("plan price cannot be negative", nil)
	}
	if plan.MaxUsers <= 0 {
		return apperrors.Validation("plan must allow at least one user", nil)
	}
	return nil
}
