package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/loyalty-admin-api/internal/email"
	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
	"github.com/jwalitptl/loyalty-admin-api/pkg/security"
)

type UserServicer interface {
	CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.AppUser, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.AppUser, error)
	UpdateUser(ctx context.Context, id uuid.UUID, upd *model.UserUpdate) (*model.AppUser, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, accountID uuid.UUID) ([]*model.AppUser, error)
}

type Service struct {
	repo        repository.UserRepository
	accountRepo repository.AccountRepository
	hasher      security.PasswordHasher
	emailSvc    email.Service
}

func NewService(
	repo repository.UserRepository,
	accountRepo repository.AccountRepository,
	hasher security.PasswordHasher,
	emailSvc email.Service,
) *Service {
	return &Service{
		repo:        repo,
		accountRepo: accountRepo,
		hasher:      hasher,
		emailSvc:    emailSvc,
	}
}

func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.AppUser, error) {
	if err := validateCreateUser(req); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.Get(ctx, req.AccountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("account", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	// Enforce the user quota snapshot taken from the account's plan.
	count, err := s.repo.CountByAccount(ctx, req.AccountID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if account.MaxUsers > 0 && count >= account.MaxUsers {
		return nil, apperrors.InvariantViolation("account has reached its user limit")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	user := &model.AppUser{
		AccountID:    req.AccountID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       model.UserStatusInvited,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.emailSvc.SendInvite(ctx, user.Email, user.Name, account.Name); err != nil {
		log.Warn().Err(err).
			Str("user_id", user.ID.String()).
			Str("email", user.Email).
			Msg("failed to send invite email")
	}

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.AppUser, error) {
	user, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, upd *model.UserUpdate) (*model.AppUser, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, apperrors.Validation("user name cannot be empty", nil)
		}
		user.Name = *upd.Name
	}
	if upd.Role != nil {
		if !upd.Role.Valid() {
			return nil, apperrors.Validation("invalid user role", nil)
		}
		user.Role = *upd.Role
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, apperrors.Validation("invalid user status", nil)
		}
		user.Status = *upd.Status
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// DeleteUser removes a user unless doing so would leave the account
// with no members. The count check runs first and the deletion is
// skipped entirely when the guard trips.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountByAccount(ctx, user.AccountID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if count <= 1 {
		return apperrors.InvariantViolation("cannot delete the last user of an account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, accountID uuid.UUID) ([]*model.AppUser, error) {
	users, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func validateCreateUser(req *model.CreateUserRequest) error {
	if req.AccountID == uuid.Nil {
		return apperrors.Validation("account ID is required", nil)
	}
	if req.Email == "" {
		return apperrors.Validation("email is required", nil)
	}
	if req.Name == "" {
		return apperrors.Validation("name is required", nil)
	}
	if req.Password == "" {
		return apperrors.Validation("password is required", nil)
	}
	if !req.Role.Valid() {
		return apperrors.Validation("invalid user role", nil)
	}
	return nil
}
