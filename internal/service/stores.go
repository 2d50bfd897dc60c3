package service

import (
	"context"

	"github.com/stemsi/command-center/internal/model"
)

// The store interfaces below are satisfied by the repository package. They
// exist so services can be exercised against in-memory fakes.

type AccountStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.Account, error)
	GetByID(ctx context.Context, id int) (*model.Account, error)
	List(ctx context.Context, f model.AccountFilter, p model.Page) ([]model.Account, error)
	Count(ctx context.Context, f model.AccountFilter) (int, error)
	Create(ctx context.Context, a *model.Account, detail model.RoleDetail) error
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	Delete(ctx context.Context, userID string) error
}

type ServerStore interface {
	List(ctx context.Context) ([]model.Server, error)
	GetByID(ctx context.Context, id int) (*model.Server, error)
	Create(ctx context.Context, s *model.Server) error
	Update(ctx context.Context, s *model.Server) error
	Delete(ctx context.Context, id int) error
}

type RequestStore interface {
	List(ctx context.Context, f model.RequestFilter, p model.Page) ([]model.AccessRequest, error)
	Count(ctx context.Context, f model.RequestFilter) (int, error)
	GetByID(ctx context.Context, id int) (*model.AccessRequest, error)
	Create(ctx context.Context, ar *model.AccessRequest) error
	TransitionStatus(ctx context.Context, id int, to model.RequestStatus, from []model.RequestStatus) (int, model.RequestStatus, error)
}

type IssueStore interface {
	List(ctx context.Context, ownerID *int) ([]model.Issue, error)
	Create(ctx context.Context, i *model.Issue) error
	UpdateStatus(ctx context.Context, id int, status model.IssueStatus) error
}

type AllocationStore interface {
	List(ctx context.Context, ownerID *int) ([]model.Allocation, error)
	Create(ctx context.Context, a *model.Allocation) error
}

type AuditReader interface {
	ListByRequest(ctx context.Context, requestID int) ([]model.RequestEvent, error)
}

// EventPublisher fans out request lifecycle events.
type EventPublisher interface {
	PublishRequestEvent(ctx context.Context, evt model.RequestEvent) error
}
