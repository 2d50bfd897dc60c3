package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/repository"
	"github.com/stemsi/command-center/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submit(t *testing.T, svc *RequestService, caller *Claims) *model.AccessRequest {
	t.Helper()
	ar, err := svc.Create(context.Background(), caller, model.CreateAccessRequest{Type: "ssh", Description: "need shell access"})
	require.NoError(t, err)
	return ar
}

func TestCreateRequestIsPendingAndOwned(t *testing.T) {
	svc := NewRequestService(testutil.NewStores().Requests, nil, nopLog)
	caller := studentClaims(7, "student099")

	ar := submit(t, svc, caller)
	assert.Equal(t, model.RequestPending, ar.Status)
	assert.Equal(t, 7, ar.AccountID)
	assert.Equal(t, "student099", ar.UserID)
}

func TestListRequestsScopesNonAdmins(t *testing.T) {
	svc := NewRequestService(testutil.NewStores().Requests, nil, nopLog)
	alice := studentClaims(1, "alice")
	bob := studentClaims(2, "bob")
	submit(t, svc, alice)
	submit(t, svc, bob)
	submit(t, svc, bob)

	rows, page, err := svc.List(context.Background(), alice, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].AccountID)
	assert.Equal(t, 1, page.TotalItems)

	rows, page, err = svc.List(context.Background(), bob, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, 2, r.AccountID)
	}
	assert.Equal(t, 2, page.TotalItems)

	rows, page, err = svc.List(context.Background(), adminClaims(9, "admin"), "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, 3, page.TotalItems)
}

func TestListRequestsRejectsUnknownStatusFilter(t *testing.T) {
	svc := NewRequestService(testutil.NewStores().Requests, nil, nopLog)
	_, _, err := svc.List(context.Background(), adminClaims(1, "admin"), "done", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	admin := adminClaims(1, "admin")

	tests := []struct {
		name    string
		prepare model.RequestStatus
		to      model.RequestStatus
		wantErr error
		final   model.RequestStatus
	}{
		{name: "approve pending", to: model.RequestApproved, final: model.RequestApproved},
		{name: "reject pending", to: model.RequestRejected, final: model.RequestRejected},
		{name: "pending to pending", to: model.RequestPending, wantErr: ErrInvalidTransition, final: model.RequestPending},
		{name: "out of set value", to: "done", wantErr: ErrInvalidStatus, final: model.RequestPending},
		{name: "approved is terminal", prepare: model.RequestApproved, to: model.RequestRejected, wantErr: ErrInvalidTransition, final: model.RequestApproved},
		{name: "rejected is terminal", prepare: model.RequestRejected, to: model.RequestApproved, wantErr: ErrInvalidTransition, final: model.RequestRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewStores().Requests
			svc := NewRequestService(store, nil, nopLog)
			ar := submit(t, svc, studentClaims(2, "student099"))
			if tt.prepare != "" {
				_, err := svc.UpdateStatus(ctx, admin, ar.ID, tt.prepare)
				require.NoError(t, err)
			}

			_, err := svc.UpdateStatus(ctx, admin, ar.ID, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.final, requestStatus(t, store, ar.ID))
		})
	}
}

func TestUpdateStatusMissingRequest(t *testing.T) {
	svc := NewRequestService(testutil.NewStores().Requests, nil, nopLog)
	_, err := svc.UpdateStatus(context.Background(), adminClaims(1, "admin"), 404, model.RequestApproved)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateStatusPublishesEvent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewRequestService(testutil.NewStores().Requests, pub, nopLog)
	ar := submit(t, svc, studentClaims(2, "student099"))

	evt, err := svc.UpdateStatus(context.Background(), adminClaims(1, "admin"), ar.ID, model.RequestApproved)
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, *evt, pub.events[0])
	assert.Equal(t, 2, evt.AccountID)
	assert.Equal(t, model.RequestPending, evt.From)
	assert.Equal(t, model.RequestApproved, evt.To)
	assert.Equal(t, "admin", evt.ChangedBy)
}

func TestUpdateStatusSurvivesPublishFailure(t *testing.T) {
	store := testutil.NewStores().Requests
	pub := &recordingPublisher{err: errors.New("redis down")}
	svc := NewRequestService(store, pub, nopLog)
	ar := submit(t, svc, studentClaims(2, "student099"))

	_, err := svc.UpdateStatus(context.Background(), adminClaims(1, "admin"), ar.ID, model.RequestRejected)
	require.NoError(t, err)
	assert.Equal(t, model.RequestRejected, requestStatus(t, store, ar.ID))
}
