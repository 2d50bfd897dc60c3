package service

import (
	"context"

	"github.com/stemsi/command-center/internal/model"
)

// IssueService handles problem reports.
type IssueService struct {
	issues IssueStore
}

// NewIssueService creates a new IssueService.
func NewIssueService(issues IssueStore) *IssueService {
	return &IssueService{issues: issues}
}

// List returns the issues visible to the caller, highest priority first.
func (s *IssueService) List(ctx context.Context, caller *Claims) ([]model.Issue, error) {
	return s.issues.List(ctx, ownerScope(caller))
}

// Create opens an issue owned by the caller.
func (s *IssueService) Create(ctx context.Context, caller *Claims, req model.CreateIssueRequest) (*model.Issue, error) {
	issue := &model.Issue{
		AccountID:   caller.AccountID,
		UserID:      caller.Username,
		ServerID:    req.ServerID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *IssueService) UpdateStatus(ctx context.Context, id int, status model.IssueStatus) error {
	return s.issues.UpdateStatus(ctx, id, status)
}
