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

// IssueHandler handles problem reports.
type IssueHandler struct {
	issueService *service.IssueService
	log          zerolog.Logger
}

func NewIssueHandler(issueService *service.IssueService, log zerolog.Logger) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
		log:          log.With().Str("component", "issue_handler").Logger(),
	}
}

// List godoc
// GET /api/issues
func (h *IssueHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	issues, err := h.issueService.List(c.Request.Context(), claims)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, issues)
}

// Create godoc
// POST /api/issues
func (h *IssueHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateIssueRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	issue, err := h.issueService.Create(c.Request.Context(), claims, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, issue)
}

// UpdateStatus godoc
// PUT /api/issues/:issueID
func (h *IssueHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "issueID")
	if !ok {
		return
	}

	var req model.UpdateIssueStatus
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.issueService.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "status": req.Status})
}
