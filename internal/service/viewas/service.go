package viewas

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
	"github.com/jwalitptl/loyalty-admin-api/pkg/metrics"
	"github.com/jwalitptl/loyalty-admin-api/pkg/security"
)

const (
	// sessionDuration is the fixed validity of a view-as grant.
	sessionDuration = 4 * time.Hour

	// resolveCacheTTL bounds how long a resolved session is served from
	// cache. Kept short so an explicit revoke is honored promptly; the
	// effective TTL never exceeds the session's own expiry.
	resolveCacheTTL = 30 * time.Second
)

type ViewAsServicer interface {
	Issue(ctx context.Context, caller model.CallerIdentity, accountID, userID uuid.UUID) (*model.ViewAsGrant, error)
	Revoke(ctx context.Context, caller model.CallerIdentity, token string) error
	Resolve(ctx context.Context, token string) (*model.ViewAsContext, error)
}

type Service struct {
	sessionRepo repository.ViewAsSessionRepository
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	cache       *gocache.Cache
	metrics     *metrics.Metrics
}

func NewService(
	sessionRepo repository.ViewAsSessionRepository,
	accountRepo repository.AccountRepository,
	userRepo repository.UserRepository,
	m *metrics.Metrics,
) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		cache:       gocache.New(resolveCacheTTL, 5*time.Minute),
		metrics:     m,
	}
}

// Issue mints a view-as grant for a super-admin. The viewing user must
// belong to the viewing account at issuance time.
func (s *Service) Issue(ctx context.Context, caller model.CallerIdentity, accountID, userID uuid.UUID) (*model.ViewAsGrant, error) {
	if !caller.IsSuperAdmin() {
		return nil, apperrors.Unauthorized("view-as sessions require super-admin access", nil)
	}

	account, err := s.accountRepo.Get(ctx, accountID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("account", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user, err := s.userRepo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user.AccountID != account.ID {
		return nil, apperrors.Validation("user does not belong to the specified account", nil)
	}

	token, err := security.NewSessionToken()
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	session := &model.ViewAsSession{
		SuperAdminID:     caller.UserID,
		ViewingAccountID: account.ID,
		ViewingUserID:    user.ID,
		SessionToken:     token,
		ExpiresAt:        time.Now().Add(sessionDuration),
		IsActive:         true,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, apperrors.Internal(err)
	}
	if s.metrics != nil {
		s.metrics.ViewAsSessionsIssued.Inc()
	}

	return &model.ViewAsGrant{
		SessionToken: session.SessionToken,
		ExpiresAt:    session.ExpiresAt,
		AccountName:  account.Name,
		UserName:     user.Name,
		UserRole:     user.Role,
	}, nil
}

// Revoke ends a session explicitly. The token must belong to the
// calling super-admin. Revoking a session that is already ended or
// expired is an idempotent no-op; a terminal session never goes back
// to active.
func (s *Service) Revoke(ctx context.Context, caller model.CallerIdentity, token string) error {
	if !caller.IsSuperAdmin() {
		return apperrors.Unauthorized("view-as sessions require super-admin access", nil)
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("view-as session", err)
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	if session.SuperAdminID != caller.UserID {
		return apperrors.Unauthorized("session does not belong to the caller", nil)
	}

	if session.State(time.Now()) != model.SessionStateIssued {
		return nil
	}

	if _, err := applyTransition(ctx, model.SessionStateIssued, model.SessionEventRevoke); err != nil {
		return apperrors.Internal(err)
	}

	if err := s.sessionRepo.Deactivate(ctx, session.ID); err != nil {
		return apperrors.Internal(err)
	}
	s.cache.Delete(token)
	if s.metrics != nil {
		s.metrics.ViewAsSessionsRevoked.Inc()
	}
	return nil
}

// Resolve returns the session's account/user snapshot while the grant
// is active and unexpired. An absent, ended, or expired session is a
// normal outcome and resolves to nil without error. Expiry is detected
// lazily here; no background sweep exists.
func (s *Service) Resolve(ctx context.Context, token string) (*model.ViewAsContext, error) {
	if cached, found := s.cache.Get(token); found {
		vc := cached.(*model.ViewAsContext)
		if vc.Session.State(time.Now()) == model.SessionStateIssued {
			s.countResolve("hit")
			return vc, nil
		}
		s.cache.Delete(token)
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		s.countResolve("none")
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if session.State(time.Now()) != model.SessionStateIssued {
		s.countResolve("stale")
		return nil, nil
	}

	account, err := s.accountRepo.Get(ctx, session.ViewingAccountID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	user, err := s.userRepo.Get(ctx, session.ViewingUserID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	vc := &model.ViewAsContext{
		Session: session,
		Account: account,
		User:    user,
	}

	// A cached grant must never outlive the session's own window.
	ttl := resolveCacheTTL
	if remaining := time.Until(session.ExpiresAt); remaining < ttl {
		ttl = remaining
	}
	if ttl > 0 {
		s.cache.Set(token, vc, ttl)
	}

	s.countResolve("ok")
	return vc, nil
}

func (s *Service) countResolve(result string) {
	if s.metrics != nil {
		s.metrics.ViewAsResolves.WithLabelValues(result).Inc()
	}
}
