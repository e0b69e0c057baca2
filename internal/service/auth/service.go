package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
	"github.com/jwalitptl/loyalty-admin-api/pkg/security"
)

// Config holds JWT signing settings.
type Config struct {
	Secret      string
	ExpiryHours int
}

// TokenResponse is the login result.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type AuthServicer interface {
	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (model.CallerIdentity, error)
	RequireSuperAdmin(caller model.CallerIdentity) error
}

type Service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	cfg      Config
}

func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher, cfg Config) *Service {
	if cfg.ExpiryHours <= 0 {
		cfg.ExpiryHours = 24
	}
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		cfg:      cfg,
	}
}

// Login authenticates a console operator and returns a signed access
// token. Credential failures are indistinguishable on purpose.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}
	if user.Status == model.UserStatusSuspended {
		return nil, apperrors.Unauthorized("account is suspended", nil)
	}

	expiresAt := time.Now().Add(time.Duration(s.cfg.ExpiryHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to sign token: %w", err))
	}

	return &TokenResponse{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses and verifies a bearer token and returns the
// typed caller identity it carries. This is the single place ambient
// request credentials become an explicit CallerIdentity value.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (model.CallerIdentity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return model.CallerIdentity{}, apperrors.Unauthorized("invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.CallerIdentity{}, apperrors.Unauthorized("invalid token claims", nil)
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return model.CallerIdentity{}, apperrors.Unauthorized("invalid token claims", err)
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	identity := model.CallerIdentity{
		UserID: userID,
		Email:  email,
		Role:   model.UserRole(role),
	}
	if !identity.Role.Valid() {
		return model.CallerIdentity{}, apperrors.Unauthorized("invalid token claims", nil)
	}
	return identity, nil
}

// RequireSuperAdmin is the capability gate for privileged operations.
func (s *Service) RequireSuperAdmin(caller model.CallerIdentity) error {
	if !caller.IsSuperAdmin() {
		return apperrors.Unauthorized("super-admin access required", nil)
	}
	return nil
}
