package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
	"github.com/jwalitptl/loyalty-admin-api/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*model.AppUser
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.AppUser) error { return nil }
func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.AppUser, error) {
	return nil, repository.ErrNotFound
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.AppUser, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}
func (r *fakeUserRepo) Update(ctx context.Context, user *model.AppUser) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }
func (r *fakeUserRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*model.AppUser, error) {
	return nil, nil
}
func (r *fakeUserRepo) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	return 0, nil
}

func newTestService(t *testing.T, users ...*model.AppUser) *Service {
	t.Helper()
	repo := &fakeUserRepo{users: make(map[string]*model.AppUser)}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	return NewService(repo, security.NewBcryptHasher(bcrypt.MinCost), Config{
		Secret:      "test-secret",
		ExpiryHours: 1,
	})
}

func testUser(t *testing.T, email, password string, role model.UserRole) *model.AppUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.AppUser{
		Base:         model.Base{ID: uuid.New()},
		AccountID:    uuid.New(),
		Email:        email,
		Name:         "Ops",
		PasswordHash: string(hash),
		Role:         role,
		Status:       model.UserStatusActive,
	}
}

func TestLoginAndValidateToken(t *testing.T) {
	user := testUser(t, "ops@console.test", "password123", model.UserRoleSuperAdmin)
	svc := newTestService(t, user)

	token, err := svc.Login(context.Background(), "ops@console.test", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)

	caller, err := svc.ValidateToken(context.Background(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.UserID)
	assert.Equal(t, user.Email, caller.Email)
	assert.Equal(t, model.UserRoleSuperAdmin, caller.Role)
	assert.True(t, caller.IsSuperAdmin())
}

func TestLogin_Rejections(t *testing.T) {
	user := testUser(t, "ops@console.test", "password123", model.UserRoleSuperAdmin)
	suspended := testUser(t, "gone@console.test", "password123", model.UserRoleOrgAdmin)
	suspended.Status = model.UserStatusSuspended
	svc := newTestService(t, user, suspended)

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "nobody@console.test", "password123")
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ops@console.test", "wrong-password")
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})

	t.Run("suspended user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "gone@console.test", "password123")
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := newTestService(t)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken(context.Background(), "not-a-token")
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		user := testUser(t, "ops@console.test", "password123", model.UserRoleSuperAdmin)
		other := NewService(&fakeUserRepo{users: map[string]*model.AppUser{user.Email: user}},
			security.NewBcryptHasher(bcrypt.MinCost), Config{Secret: "other-secret", ExpiryHours: 1})

		token, err := other.Login(context.Background(), "ops@console.test", "password123")
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), token.AccessToken)
		assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
	})
}

func TestRequireSuperAdmin(t *testing.T) {
	svc := newTestService(t)

	assert.NoError(t, svc.RequireSuperAdmin(model.CallerIdentity{Role: model.UserRoleSuperAdmin}))

	err := svc.RequireSuperAdmin(model.CallerIdentity{Role: model.UserRoleOrgAdmin})
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}
