package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
)

type CustomerServicer interface {
	CreateCustomer(ctx context.Context, customer *model.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, customer *model.Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	ListCustomers(ctx context.Context, filters *model.CustomerFilters) ([]*model.Customer, error)
}

type Service struct {
	repo        repository.CustomerRepository
	accountRepo repository.AccountRepository
}

func NewService(repo repository.CustomerRepository, accountRepo repository.AccountRepository) *Service {
	return &Service{repo: repo, accountRepo: accountRepo}
}

func (s *Service) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	if customer.Name == "" {
		return apperrors.Validation("customer name is required", nil)
	}
	if customer.AccountID == uuid.Nil {
		return apperrors.Validation("account ID is required", nil)
	}

	if _, err := s.accountRepo.Get(ctx, customer.AccountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("account", err)
		}
		return apperrors.Internal(err)
	}

	if customer.Status == "" {
		customer.Status = model.CustomerStatusActive
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("customer", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return customer, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, customer *model.Customer) error {
	if customer.Name == "" {
		return apperrors.Validation("customer name is required", nil)
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("customer", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("customer", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListCustomers(ctx context.Context, filters *model.CustomerFilters) ([]*model.Customer, error) {
	customers, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return customers, nil
}
