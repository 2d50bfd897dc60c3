package service

import (
	"context"
	"testing"

	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/repository"
	"github.com/stemsi/command-center/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(store *testutil.Accounts) *AccountService {
	auth := NewAuthService(testConfig(), store, nopLog)
	return NewAccountService(store, auth, nopLog)
}

func studentRequest(userID string) model.CreateAccountRequest {
	return model.CreateAccountRequest{
		UserID:   userID,
		Name:     "Student " + userID,
		Email:    userID + "@example.test",
		Role:     model.RoleStudent,
		Password: "secret1",
	}
}

func TestCreateAccountStoresRoleDetail(t *testing.T) {
	store := newAccounts()
	svc := newAccountService(store)

	account, err := svc.Create(context.Background(), nil, studentRequest("student099"))
	require.NoError(t, err)
	assert.NotZero(t, account.ID)
	assert.NotEqual(t, "secret1", account.PasswordHash)

	stored, err := store.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Detail)
	detail := *stored.Detail
	require.NotNil(t, detail.Department)
	assert.Equal(t, "General", *detail.Department)
	assert.Equal(t, 1, *detail.Year)
	assert.Nil(t, detail.Designation)
}

func TestCreateAccountDuplicate(t *testing.T) {
	store := newAccounts()
	svc := newAccountService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, studentRequest("student099"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, nil, studentRequest("student099"))
	assert.ErrorIs(t, err, repository.ErrDuplicateAccount)

	n, _ := store.Count(ctx, model.AccountFilter{})
	assert.Equal(t, 1, n)
}

func TestCreateAdminAccountRequiresAdminCaller(t *testing.T) {
	svc := newAccountService(newAccounts())
	req := studentRequest("newadmin")
	req.Role = model.RoleAdmin

	_, err := svc.Create(context.Background(), nil, req)
	assert.ErrorIs(t, err, ErrAdminCreationForbidden)

	_, err = svc.Create(context.Background(), studentClaims(5, "user"), req)
	assert.ErrorIs(t, err, ErrAdminCreationForbidden)

	account, err := svc.Create(context.Background(), adminClaims(1, "admin"), req)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, account.Role)
	require.NotNil(t, account.Detail.Designation)
	assert.Equal(t, "New Administrator", *account.Detail.Designation)
}

func TestDeleteAccount(t *testing.T) {
	store := newAccounts()
	admin := store.Seed(t, "admin", "admin123", model.RoleAdmin)
	store.Seed(t, "student099", "secret1", model.RoleStudent)
	svc := newAccountService(store)
	ctx := context.Background()
	caller := adminClaims(admin.ID, admin.UserID)

	t.Run("self", func(t *testing.T) {
		err := svc.Delete(ctx, caller, "admin")
		assert.ErrorIs(t, err, ErrSelfDeletion)
		_, err = store.GetByUserID(ctx, "admin")
		assert.NoError(t, err)
	})

	t.Run("existing", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, caller, "student099"))
		_, err := store.GetByUserID(ctx, "student099")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		err := svc.Delete(ctx, caller, "student099")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestListAccountsPaginates(t *testing.T) {
	store := newAccounts()
	store.Seed(t, "admin", "admin123", model.RoleAdmin)
	for _, id := range []string{"s1", "s2", "s3"} {
		store.Seed(t, id, "secret1", model.RoleStudent)
	}
	svc := newAccountService(store)

	accounts, page, err := svc.List(context.Background(), model.RoleStudent, 2, 0)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "s3", accounts[0].UserID, "newest first")
	assert.Equal(t, 3, page.TotalItems)

	_, page, err = svc.List(context.Background(), "", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, 4, page.TotalItems)
}
