package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/repository"
	"github.com/stemsi/command-center/internal/response"
)

var (
	ErrInvalidStatus     = errors.New("invalid status value")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// RequestService owns access requests and their approval lifecycle.
type RequestService struct {
	requests  RequestStore
	publisher EventPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewRequestService creates a new RequestService. publisher may be nil, in
// which case no lifecycle events are emitted.
func NewRequestService(requests RequestStore, publisher EventPublisher, log zerolog.Logger) *RequestService {
	return &RequestService{
		requests:  requests,
		publisher: publisher,
		log:       log.With().Str("component", "request_service").Logger(),
		now:       time.Now,
	}
}

// List returns requests visible to the caller: everything for admins, only
// their own for everyone else.
func (s *RequestService) List(ctx context.Context, caller *Claims, status model.RequestStatus, limit, offset int) ([]model.AccessRequest, *response.Pagination, error) {
	if status != "" && !status.Valid() {
		return nil, nil, ErrInvalidStatus
	}

	page := normalizePage(limit, offset)
	filter := model.RequestFilter{OwnerID: ownerScope(caller), Status: status}

	requests, err := s.requests.List(ctx, filter, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list requests: %w", err)
	}
	total, err := s.requests.Count(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("count requests: %w", err)
	}
	return requests, pagination(page, total), nil
}

// Create submits a new pending request owned by the caller.
func (s *RequestService) Create(ctx context.Context, caller *Claims, req model.CreateAccessRequest) (*model.AccessRequest, error) {
	ar := &model.AccessRequest{
		AccountID:     caller.AccountID,
		UserID:        caller.Username,
		RequesterName: caller.Name,
		ServerID:      req.ServerID,
		Type:          req.Type,
		Description:   req.Description,
	}
	if err := s.requests.Create(ctx, ar); err != nil {
		return nil, err
	}

	s.log.Info().Int("request_id", ar.ID).Str("user_id", caller.Username).Msg("Access request submitted")
	return ar, nil
}

// UpdateStatus applies an admin decision to a request. Values outside the
// lifecycle are ErrInvalidStatus; legal values that cannot be reached from
// the current state are ErrInvalidTransition; a missing request is
// repository.ErrNotFound.
func (s *RequestService) UpdateStatus(ctx context.Context, caller *Claims, id int, to model.RequestStatus) (*model.RequestEvent, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	ownerID, previous, err := s.requests.TransitionStatus(ctx, id, to, sourcesOf(to))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("transition request: %w", err)
		}
		// Nothing qualified: either the request is gone or its state forbids it.
		current, getErr := s.requests.GetByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, current.Status, to)
	}

	evt := &model.RequestEvent{
		RequestID: id,
		AccountID: ownerID,
		From:      previous,
		To:        to,
		ChangedBy: caller.Username,
		ChangedAt: s.now().UTC(),
	}

	s.log.Info().
		Int("request_id", id).
		Str("from", string(previous)).
		Str("to", string(to)).
		Str("admin", caller.Username).
		Msg("Request status updated")

	if s.publisher != nil {
		if err := s.publisher.PublishRequestEvent(ctx, *evt); err != nil {
			s.log.Warn().Err(err).Int("request_id", id).Msg("Failed to publish request event")
		}
	}
	return evt, nil
}
