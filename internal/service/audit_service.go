package service

import (
	"context"

	"github.com/stemsi/command-center/internal/model"
)

// AuditService reads the recorded status history of access requests.
type AuditService struct {
	audit    AuditReader
	requests RequestStore
}

// NewAuditService creates a new AuditService.
func NewAuditService(audit AuditReader, requests RequestStore) *AuditService {
	return &AuditService{audit: audit, requests: requests}
}

// History returns the transitions of request id, oldest first. A missing
// request is repository.ErrNotFound; a request never reviewed has an empty
// history.
func (s *AuditService) History(ctx context.Context, id int) ([]model.RequestEvent, error) {
	if _, err := s.requests.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.audit.ListByRequest(ctx, id)
}
