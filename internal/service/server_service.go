package service

import (
	"context"

	"github.com/stemsi/command-center/internal/model"
)

// ServerService manages the server inventory.
type ServerService struct {
	servers ServerStore
}

// NewServerService creates a new ServerService.
func NewServerService(servers ServerStore) *ServerService {
	return &ServerService{servers: servers}
}

// List returns all servers ordered by name.
func (s *ServerService) List(ctx context.Context) ([]model.Server, error) {
	return s.servers.List(ctx)
}

func (s *ServerService) Create(ctx context.Context, req model.ServerRequest) (*model.Server, error) {
	srv := &model.Server{
		Name:        req.Name,
		IPAddress:   req.IPAddress,
		Status:      req.Status,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := s.servers.Create(ctx, srv); err != nil {
		return nil, err
	}
	return srv, nil
}

func (s *ServerService) Update(ctx context.Context, id int, req model.ServerRequest) (*model.Server, error) {
	srv := &model.Server{
		ID:          id,
		Name:        req.Name,
		IPAddress:   req.IPAddress,
		Status:      req.Status,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := s.servers.Update(ctx, srv); err != nil {
		return nil, err
	}
	return srv, nil
}

func (s *ServerService) Delete(ctx context.Context, id int) error {
	return s.servers.Delete(ctx, id)
}
