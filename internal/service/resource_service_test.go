package service

import (
	"context"
	"testing"
	"time"

	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/repository"
	"github.com/stemsi/command-center/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssue(t *testing.T, svc *IssueService, caller *Claims) *model.Issue {
	t.Helper()
	issue, err := svc.Create(context.Background(), caller, model.CreateIssueRequest{
		Title: "Disk full", Description: "/var is at 100%", Priority: model.PriorityHigh,
	})
	require.NoError(t, err)
	return issue
}

func TestIssueListScopesNonAdmins(t *testing.T) {
	svc := NewIssueService(testutil.NewStores().Issues)
	newIssue(t, svc, studentClaims(4, "user"))
	newIssue(t, svc, studentClaims(5, "other"))

	issues, err := svc.List(context.Background(), studentClaims(4, "user"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 4, issues[0].AccountID)

	issues, err = svc.List(context.Background(), adminClaims(1, "admin"))
	require.NoError(t, err)
	assert.Len(t, issues, 2)
}

func TestIssueCreateAndUpdate(t *testing.T) {
	svc := NewIssueService(testutil.NewStores().Issues)
	ctx := context.Background()

	issue := newIssue(t, svc, studentClaims(4, "user"))
	assert.Equal(t, 4, issue.AccountID)
	assert.Equal(t, model.IssueOpen, issue.Status)

	require.NoError(t, svc.UpdateStatus(ctx, issue.ID, model.IssueResolved))
	issues, err := svc.List(ctx, adminClaims(1, "admin"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, model.IssueResolved, issues[0].Status)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, 99, model.IssueResolved), repository.ErrNotFound)
}

func TestAllocationCreate(t *testing.T) {
	stores := testutil.NewStores()
	user := stores.Accounts.Seed(t, "user", "user123", model.RoleStudent)
	ctx := context.Background()
	srv := &model.Server{Name: "gpu-01", IPAddress: "10.0.0.5", Status: model.ServerOnline, Type: "gpu"}
	require.NoError(t, stores.Servers.Create(ctx, srv))

	svc := NewAllocationService(stores.Allocations, stores.Accounts)
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("resolves account", func(t *testing.T) {
		a, err := svc.Create(ctx, model.CreateAllocationRequest{UserID: "user", ServerID: srv.ID, CPUCores: 4, AllocationStart: start})
		require.NoError(t, err)
		assert.Equal(t, user.ID, a.AccountID)
		assert.Equal(t, "gpu-01", a.ServerName)
	})

	t.Run("end before start", func(t *testing.T) {
		end := start.Add(-time.Hour)
		_, err := svc.Create(ctx, model.CreateAllocationRequest{UserID: "user", ServerID: srv.ID, AllocationStart: start, AllocationEnd: &end})
		assert.ErrorIs(t, err, ErrInvalidAllocationWindow)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := svc.Create(ctx, model.CreateAllocationRequest{UserID: "ghost", ServerID: srv.ID, AllocationStart: start})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("unknown server", func(t *testing.T) {
		_, err := svc.Create(ctx, model.CreateAllocationRequest{UserID: "user", ServerID: 404, AllocationStart: start})
		assert.ErrorIs(t, err, repository.ErrReferenceNotFound)
	})
}

func TestAllocationListScopesNonAdmins(t *testing.T) {
	stores := testutil.NewStores()
	ctx := context.Background()
	user := stores.Accounts.Seed(t, "user", "user123", model.RoleStudent)
	stores.Accounts.Seed(t, "other", "other123", model.RoleStudent)
	srv := &model.Server{Name: "gpu-01", IPAddress: "10.0.0.5", Status: model.ServerOnline, Type: "gpu"}
	require.NoError(t, stores.Servers.Create(ctx, srv))

	svc := NewAllocationService(stores.Allocations, stores.Accounts)
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for _, owner := range []string{"user", "other"} {
		_, err := svc.Create(ctx, model.CreateAllocationRequest{UserID: owner, ServerID: srv.ID, AllocationStart: start})
		require.NoError(t, err)
	}

	mine, err := svc.List(ctx, studentClaims(user.ID, "user"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, user.ID, mine[0].AccountID)

	all, err := svc.List(ctx, adminClaims(99, "admin"))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
