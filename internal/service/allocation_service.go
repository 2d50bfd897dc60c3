package service

import (
	"context"
	"errors"

	"github.com/stemsi/command-center/internal/model"
)

var ErrInvalidAllocationWindow = errors.New("allocation end must be after its start")

// AllocationService handles server resource allocations.
type AllocationService struct {
	allocations AllocationStore
	accounts    AccountStore
}

// NewAllocationService creates a new AllocationService.
func NewAllocationService(allocations AllocationStore, accounts AccountStore) *AllocationService {
	return &AllocationService{allocations: allocations, accounts: accounts}
}

// List returns the allocations visible to the caller.
func (s *AllocationService) List(ctx context.Context, caller *Claims) ([]model.Allocation, error) {
	return s.allocations.List(ctx, ownerScope(caller))
}

// Create grants resources on a server to the account named by req.UserID.
func (s *AllocationService) Create(ctx context.Context, req model.CreateAllocationRequest) (*model.Allocation, error) {
	if req.AllocationEnd != nil && !req.AllocationEnd.After(req.AllocationStart) {
		return nil, ErrInvalidAllocationWindow
	}

	account, err := s.accounts.GetByUserID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	a := &model.Allocation{
		AccountID:       account.ID,
		UserID:          account.UserID,
		ServerID:        req.ServerID,
		CPUCores:        req.CPUCores,
		MemoryGB:        req.MemoryGB,
		StorageGB:       req.StorageGB,
		AllocationStart: req.AllocationStart,
		AllocationEnd:   req.AllocationEnd,
	}
	if err := s.allocations.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
