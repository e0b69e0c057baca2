package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
	"github.com/jwalitptl/loyalty-admin-api/internal/repository"
	apperrors "github.com/jwalitptl/loyalty-admin-api/pkg/errors"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.AppUser
}

func newFakeUserRepo(users ...*model.AppUser) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.AppUser)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.AppUser) error {
	user.ID = uuid.New()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.AppUser, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.AppUser, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.AppUser) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*model.AppUser, error) {
	var out []*model.AppUser
	for _, user := range r.users {
		if user.AccountID == accountID {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	n := 0
	for _, user := range r.users {
		if user.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*model.Account
}

func (r *fakeAccountRepo) CreateWithAdmin(ctx context.Context, account *model.Account, admin *model.AppUser) error {
	return nil
}

func (r *fakeAccountRepo) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) GetBySlug(ctx context.Context, slug string) (*model.Account, error) {
	return nil, repository.ErrNotFound
}
func (r *fakeAccountRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	return false, nil
}
func (r *fakeAccountRepo) Update(ctx context.Context, account *model.Account) error { return nil }
func (r *fakeAccountRepo) List(ctx context.Context, filters *model.AccountFilters) ([]*model.Account, error) {
	return nil, nil
}
func (r *fakeAccountRepo) CountSubAccounts(ctx context.Context, parentID uuid.UUID) (int, error) {
	return 0, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error)  { return "hashed:" + password, nil }
func (fakeHasher) Compare(hashed, password string) error { return nil }

type fakeEmail struct{}

func (fakeEmail) SendInvite(ctx context.Context, to, name, accountName string) error { return nil }

func testAccount(maxUsers int) *model.Account {
	return &model.Account{
		Base:          model.Base{ID: uuid.New()},
		Name:          "Ace Cafe",
		Slug:          "ace-cafe",
		Type:          model.AccountTypeIndividual,
		PlanStatus:    model.BillingStatusTrial,
		Status:        model.AccountStatusActive,
		AccountLimits: model.AccountLimits{MaxUsers: maxUsers},
	}
}

func accountUser(accountID uuid.UUID, email string) *model.AppUser {
	return &model.AppUser{
		Base:      model.Base{ID: uuid.New()},
		AccountID: accountID,
		Email:     email,
		Name:      "Someone",
		Role:      model.UserRoleClientUser,
		Status:    model.UserStatusActive,
	}
}

func TestCreateUser(t *testing.T) {
	account := testAccount(2)
	accountRepo := &fakeAccountRepo{accounts: map[uuid.UUID]*model.Account{account.ID: account}}
	userRepo := newFakeUserRepo(accountUser(account.ID, "one@acecafe.test"))
	svc := NewService(userRepo, accountRepo, fakeHasher{}, fakeEmail{})

	req := &model.CreateUserRequest{
		AccountID: account.ID,
		Email:     "two@acecafe.test",
		Name:      "Second User",
		Password:  "password123",
		Role:      model.UserRoleClientUser,
	}

	user, err := svc.CreateUser(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusInvited, user.Status)
	assert.Equal(t, "hashed:password123", user.PasswordHash)

	t.Run("rejects creation past the user quota", func(t *testing.T) {
		req := &model.CreateUserRequest{
			AccountID: account.ID,
			Email:     "three@acecafe.test",
			Name:      "Third User",
			Password:  "password123",
			Role:      model.UserRoleClientUser,
		}
		_, err := svc.CreateUser(context.Background(), req)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvariantViolation))
	})

	t.Run("rejects unknown account", func(t *testing.T) {
		req := &model.CreateUserRequest{
			AccountID: uuid.New(),
			Email:     "x@acecafe.test",
			Name:      "X",
			Password:  "password123",
			Role:      model.UserRoleClientUser,
		}
		_, err := svc.CreateUser(context.Background(), req)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestDeleteUser_MinimumMembershipGuard(t *testing.T) {
	account := testAccount(5)
	accountRepo := &fakeAccountRepo{accounts: map[uuid.UUID]*model.Account{account.ID: account}}

	first := accountUser(account.ID, "one@acecafe.test")
	second := accountUser(account.ID, "two@acecafe.test")
	userRepo := newFakeUserRepo(first, second)
	svc := NewService(userRepo, accountRepo, fakeHasher{}, fakeEmail{})

	// Two users: deleting one is fine.
	require.NoError(t, svc.DeleteUser(context.Background(), second.ID))

	// One user left: the guard must refuse and leave the user in place.
	err := svc.DeleteUser(context.Background(), first.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvariantViolation))

	remaining, err := userRepo.CountByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}

func TestUpdateUser(t *testing.T) {
	account := testAccount(5)
	accountRepo := &fakeAccountRepo{accounts: map[uuid.UUID]*model.Account{account.ID: account}}
	user := accountUser(account.ID, "one@acecafe.test")
	userRepo := newFakeUserRepo(user)
	svc := NewService(userRepo, accountRepo, fakeHasher{}, fakeEmail{})

	name := "Renamed"
	role := model.UserRoleOrgAdmin
	updated, err := svc.UpdateUser(context.Background(), user.ID, &model.UserUpdate{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, model.UserRoleOrgAdmin, updated.Role)

	t.Run("rejects invalid role", func(t *testing.T) {
		bad := model.UserRole("owner")
		_, err := svc.UpdateUser(context.Background(), user.ID, &model.UserUpdate{Role: &bad})
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}
