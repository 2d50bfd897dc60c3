package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/repository"
	"github.com/stemsi/command-center/internal/response"
)

var (
	ErrSelfDeletion           = errors.New("cannot delete own account")
	ErrAdminCreationForbidden = errors.New("only admins may create admin accounts")
)

// AccountService handles account listing, registration and removal.
type AccountService struct {
	accounts AccountStore
	auth     *AuthService
	log      zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts AccountStore, auth *AuthService, log zerolog.Logger) *AccountService {
	return &AccountService{
		accounts: accounts,
		auth:     auth,
		log:      log.With().Str("component", "account_service").Logger(),
	}
}

// List returns accounts newest first with their role detail.
func (s *AccountService) List(ctx context.Context, role model.Role, limit, offset int) ([]model.Account, *response.Pagination, error) {
	page := normalizePage(limit, offset)
	filter := model.AccountFilter{Role: role}

	accounts, err := s.accounts.List(ctx, filter, page)
	if err != nil {
		return nil, nil, fmt.Errorf("list accounts: %w", err)
	}
	total, err := s.accounts.Count(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("count accounts: %w", err)
	}
	return accounts, pagination(page, total), nil
}

// GetByID returns a single account.
func (s *AccountService) GetByID(ctx context.Context, id int) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// Create registers an account together with its default role detail.
// caller is nil for anonymous registration; only an admin caller may create
// another admin.
func (s *AccountService) Create(ctx context.Context, caller *Claims, req model.CreateAccountRequest) (*model.Account, error) {
	if req.Role == model.RoleAdmin && (caller == nil || caller.Role != model.RoleAdmin) {
		return nil, ErrAdminCreationForbidden
	}

	if _, err := s.accounts.GetByUserID(ctx, req.UserID); err == nil {
		return nil, repository.ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		UserID:       req.UserID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account, model.DefaultRoleDetail(req.Role)); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", account.UserID).
		Str("role", string(account.Role)).
		Msg("Account created")
	return account, nil
}

// Delete removes the account identified by userID on behalf of caller, who
// must be authenticated. Callers cannot remove themselves.
func (s *AccountService) Delete(ctx context.Context, caller *Claims, userID string) error {
	if userID == caller.Username {
		return ErrSelfDeletion
	}
	if err := s.accounts.Delete(ctx, userID); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Str("deleted_by", caller.Username).Msg("Account deleted")
	return nil
}
