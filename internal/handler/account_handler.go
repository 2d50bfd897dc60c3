package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/middleware"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/response"
	"github.com/stemsi/command-center/internal/service"
	"github.com/stemsi/command-center/internal/validator"
)

// AccountHandler handles account management endpoints.
type AccountHandler struct {
	accountService *service.AccountService
	log            zerolog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		log:            log.With().Str("component", "account_handler").Logger(),
	}
}

// List godoc
// GET /api/users?role=&limit=&offset=
// Returns accounts newest first, without password hashes.
func (h *AccountHandler) List(c *gin.Context) {
	var q model.ListAccountsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	limit, offset := q.Values()
	accounts, page, err := h.accountService.List(c.Request.Context(), q.Role, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, accounts, page)
}

// Create godoc
// POST /api/users
// Registers an account. Admin accounts need an admin token.
func (h *AccountHandler) Create(c *gin.Context) {
	var req model.CreateAccountRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), middleware.GetClaims(c), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, account)
}

// Delete godoc
// DELETE /api/users/:userID
func (h *AccountHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	userID := c.Param("userID")
	if err := h.accountService.Delete(c.Request.Context(), claims, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "User deleted successfully", "userID": userID})
}
