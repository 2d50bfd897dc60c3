package service

import (
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/response"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// normalizePage applies the listing defaults: limit 20 when unset or
// non-positive, capped at 100, and offset never negative.
func normalizePage(limit, offset int) model.Page {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return model.Page{Limit: limit, Offset: offset}
}

func pagination(p model.Page, total int) *response.Pagination {
	return &response.Pagination{Limit: p.Limit, Offset: p.Offset, TotalItems: total}
}

// ownerScope returns the account a listing must be restricted to: nil for
// admins, the caller's own ID for everyone else.
func ownerScope(caller *Claims) *int {
	if caller.Role == model.RoleAdmin {
		return nil
	}
	id := caller.AccountID
	return &id
}
