package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/loyalty-admin-api/internal/email"
	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
	"github.com/jwalitptl/loyalty-admin-api/pkg/metrics"
	"github.com/jwalitptl/loyalty-admin-api/pkg/security"
)

// maxSlugAttempts bounds the conflict-retry loop. In practice the loop
// terminates after as many collisions as there are prior accounts with
// the same base name.
const maxSlugAttempts = 100

type AccountServicer interface {
	ProvisionAccount(ctx context.Context, req *model.ProvisionAccountRequest) (*model.Account, *model.AppUser, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetAccountBySlug(ctx context.Context, slug string) (*model.Account, error)
	ListAccounts(ctx context.Context, filters *model.AccountFilters) ([]*model.Account, error)
	ListSubAccounts(ctx context.Context, parentID uuid.UUID) ([]*model.Account, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, upd *model.AccountUpdate) (*model.Account, error)
	ReassignPlan(ctx context.Context, id, planID uuid.UUID) (*model.Account, error)
	ApplyTrialAction(ctx context.Context, id uuid.UUID, action model.TrialAction, params model.TrialActionParams) (*model.Account, error)
	OverrideBillingStatus(ctx context.Context, id uuid.UUID, status model.BillingStatus) (*model.Account, error)
}

type Service struct {
	accountRepo repository.AccountRepository
	planRepo    repository.PlanRepository
	hasher      security.PasswordHasher
	emailSvc    email.Service
	metrics     *metrics.Metrics
}

func NewService(
	accountRepo repository.AccountRepository,
	planRepo repository.PlanRepository,
	hasher security.PasswordHasher,
	emailSvc email.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{
		accountRepo: accountRepo,
		planRepo:    planRepo,
		hasher:      hasher,
		emailSvc:    emailSvc,
		metrics:     m,
	}
}

// ProvisionAccount runs the full provisioning workflow: hierarchy and
// plan validation, slug allocation, limits snapshot, then account plus
// mandatory first org-admin user in one transaction. After a successful
// call both records exist; after any failure neither does.
func (s *Service) ProvisionAccount(ctx context.Context, req *model.ProvisionAccountRequest) (*model.Account, *model.AppUser, error) {
	start := time.Now()

	account, admin, err := s.provision(ctx, req)
	if s.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		s.metrics.AccountsProvisioned.WithLabelValues(string(req.Type), outcome).Inc()
		s.metrics.ProvisioningLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, nil, err
	}

	// Invite mail is best-effort: the account exists either way.
	if err := s.emailSvc.SendInvite(ctx, admin.Email, admin.Name, account.Name); err != nil {
		log.Warn().Err(err).
			Str("account_id", account.ID.String()).
			Str("email", admin.Email).
			Msg("failed to send invite email")
	}

	return account, admin, nil
}

func (s *Service) provision(ctx context.Context, req *model.ProvisionAccountRequest) (*model.Account, *model.AppUser, error) {
	if err := validateProvisionRequest(req); err != nil {
		return nil, nil, err
	}

	plan, parent, err := s.validateHierarchyAndPlan(ctx, req.Type, req.PlanID, req.ParentID)
	if err != nil {
		return nil, nil, err
	}

	// Enforce the parent's sub-account quota snapshot before allocating
	// anything. The quota applies at creation only; shrinking a parent's
	// plan never evicts existing sub-accounts.
	if parent != nil {
		count, err := s.accountRepo.CountSubAccounts(ctx, parent.ID)
		if err != nil {
			return nil, nil, apperrors.Internal(err)
		}
		if parent.MaxSubAccounts > 0 && count >= parent.MaxSubAccounts {
			return nil, nil, apperrors.InvariantViolation("parent account has reached its sub-account limit")
		}
	}

	trialDays := req.TrialDays
	if trialDays <= 0 {
		trialDays = DefaultTrialDays
	}
	trialEndsAt := time.Now().AddDate(0, 0, trialDays)

	hash, err := s.hasher.Hash(req.Admin.Password)
	if err != nil {
		return nil, nil, apperrors.Validation("invalid admin password", err)
	}

	account := &model.Account{
		Name:          req.Name,
		Type:          req.Type,
		ParentID:      req.ParentID,
		PlanID:        plan.ID,
		PlanStatus:    model.BillingStatusTrial,
		TrialEndsAt:   &trialEndsAt,
		Status:        model.AccountStatusActive,
		Location:      req.Location,
		AccountLimits: snapshotLimits(plan, req.Type),
	}

	admin := &model.AppUser{
		Email:        req.Admin.Email,
		Name:         req.Admin.Name,
		PasswordHash: hash,
		Role:         model.UserRoleOrgAdmin,
		Status:       model.UserStatusInvited,
	}

	// Slug uniqueness is enforced by the store's unique index: probe for
	// a free candidate first, then treat an insert conflict (a racing
	// provision grabbed it in between) as a normal retry with the next
	// suffix.
	base := slugify(req.Name)
	n := 0
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := slugCandidate(base, n)
		exists, err := s.accountRepo.SlugExists(ctx, candidate)
		if err != nil {
			return nil, nil, apperrors.Internal(err)
		}
		if exists {
			n++
			continue
		}

		account.Slug = candidate
		err = s.accountRepo.CreateWithAdmin(ctx, account, admin)
		if errors.Is(err, repository.ErrSlugTaken) {
			if s.metrics != nil {
				s.metrics.SlugRetries.Inc()
			}
			n++
			continue
		}
		if err != nil {
			return nil, nil, apperrors.Internal(err)
		}
		return account, admin, nil
	}

	return nil, nil, apperrors.Conflict(fmt.Sprintf("could not allocate a unique slug for %q", req.Name), nil)
}

// validateHierarchyAndPlan is the pure validation gate consulted before
// every account-creating or plan-reassigning mutation. It has no side
// effects; identical inputs against the same store state yield the same
// decision. The resolved parent is returned (nil when parentID is nil)
// so callers can run creation-time checks against it.
func (s *Service) validateHierarchyAndPlan(ctx context.Context, accountType model.AccountType, planID uuid.UUID, parentID *uuid.UUID) (*model.Plan, *model.Account, error) {
	var parent *model.Account
	if parentID != nil {
		if accountType == model.AccountTypeFranchise {
			return nil, nil, apperrors.InvariantViolation("a franchise account cannot have a parent")
		}
		var err error
		parent, err = s.accountRepo.Get(ctx, *parentID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, apperrors.InvariantViolation("parent account does not exist")
		}
		if err != nil {
			return nil, nil, apperrors.Internal(err)
		}
		if parent.Type != model.AccountTypeFranchise {
			return nil, nil, apperrors.InvariantViolation("parent account is not a franchise")
		}
	}

	plan, err := s.planRepo.Get(ctx, planID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperrors.NotFound("plan", err)
	}
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	if plan.Type != accountType {
		return nil, nil, apperrors.Validation(
			fmt.Sprintf("plan type %q does not match account type %q", plan.Type, accountType), nil)
	}

	return plan, parent, nil
}

// snapshotLimits captures the plan's quota block onto the account. The
// sub-account quota only applies to franchise parents.
func snapshotLimits(plan *model.Plan, accountType model.AccountType) model.AccountLimits {
	limits := model.AccountLimits{MaxUsers: plan.MaxUsers}
	if accountType == model.AccountTypeFranchise {
		limits.MaxSubAccounts = plan.MaxSubAccounts
	}
	return limits
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, err := s.accountRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("account", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return account, nil
}

func (s *Service) GetAccountBySlug(ctx context.Context, slug string) (*model.Account, error) {
	account, err := s.accountRepo.GetBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("account", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context, filters *model.AccountFilters) ([]*model.Account, error) {
	accounts, err := s.accountRepo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return accounts, nil
}

func (s *Service) ListSubAccounts(ctx context.Context, parentID uuid.UUID) ([]*model.Account, error) {
	if _, err := s.GetAccount(ctx, parentID); err != nil {
		return nil, err
	}
	return s.ListAccounts(ctx, &model.AccountFilters{ParentID: &parentID})
}

func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, upd *model.AccountUpdate) (*model.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, apperrors.Validation("account name cannot be empty", nil)
		}
		account.Name = *upd.Name
	}
	if upd.Location != nil {
		account.Location = upd.Location
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, apperrors.Validation("invalid account status", nil)
		}
		account.Status = *upd.Status
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, apperrors.Internal(err)
	}
	return account, nil
}

// ReassignPlan moves the account to a new plan after re-running the
// compatibility gate, and refreshes the limits snapshot.
func (s *Service) ReassignPlan(ctx context.Context, id, planID uuid.UUID) (*model.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, _, err := s.validateHierarchyAndPlan(ctx, account.Type, planID, account.ParentID)
	if err != nil {
		return nil, err
	}

	account.PlanID = plan.ID
	account.AccountLimits = snapshotLimits(plan, account.Type)

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, apperrors.Internal(err)
	}
	return account, nil
}

// ApplyTrialAction runs the trial/billing transition table against the
// account's current state and persists the resulting pair atomically
// (one row, one UPDATE).
func (s *Service) ApplyTrialAction(ctx context.Context, id uuid.UUID, action model.TrialAction, params model.TrialActionParams) (*model.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, newEndsAt, err := ApplyTrialAction(account.PlanStatus, account.TrialEndsAt, action, params, time.Now())
	if err != nil {
		return nil, err
	}

	account.PlanStatus = newStatus
	account.TrialEndsAt = newEndsAt

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, apperrors.Internal(err)
	}
	if s.metrics != nil {
		s.metrics.TrialActions.WithLabelValues(string(action)).Inc()
	}
	return account, nil
}

// OverrideBillingStatus sets planStatus directly, bypassing the
// transition table. This is the manual escape hatch: it never touches
// trialEndsAt, so it can produce a contradictory pair on purpose. The
// contradiction is logged, not forbidden.
func (s *Service) OverrideBillingStatus(ctx context.Context, id uuid.UUID, status model.BillingStatus) (*model.Account, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("invalid billing status", nil)
	}

	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	account.PlanStatus = status
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, apperrors.Internal(err)
	}
	if s.metrics != nil {
		s.metrics.BillingOverride.WithLabelValues(string(status)).Inc()
	}

	now := time.Now()
	if account.TrialEndsAt != nil {
		pastEnd := account.TrialEndsAt.Before(now)
		if (status == model.BillingStatusTrial && pastEnd) ||
			(status == model.BillingStatusActive && !pastEnd) {
			log.Warn().
				Str("account_id", account.ID.String()).
				Str("plan_status", string(status)).
				Time("trial_ends_at", *account.TrialEndsAt).
				Msg("billing override produced contradictory trial state")
		}
	}

	return account, nil
}

func validateProvisionRequest(req *model.ProvisionAccountRequest) error {
	if !req.Type.Valid() {
		return apperrors.Validation("invalid account type", nil)
	}
	if req.Name == "" {
		return apperrors.Validation("account name is required", nil)
	}
	if req.PlanID == uuid.Nil {
		return apperrors.Validation("plan ID is required", nil)
	}
	if req.Admin.Email == "" {
		return apperrors.Validation("admin email is required", nil)
	}
	if req.Admin.Name == "" {
		return apperrors.Validation("admin name is required", nil)
	}
	if req.Admin.Password == "" {
		return apperrors.Validation("admin password is required", nil)
	}
	return nil
}
