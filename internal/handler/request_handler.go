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

// RequestHandler handles access requests and their review.
type RequestHandler struct {
	requestService *service.RequestService
	auditService   *service.AuditService
	log            zerolog.Logger
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService, auditService *service.AuditService, log zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		auditService:   auditService,
		log:            log.With().Str("component", "request_handler").Logger(),
	}
}

// List godoc
// GET /api/requests?status=&limit=&offset=
// Admins see every request; everyone else only their own.
func (h *RequestHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var q model.ListRequestsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	limit, offset := q.Values()
	requests, page, err := h.requestService.List(c.Request.Context(), claims, q.Status, limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, requests, page)
}

// Create godoc
// POST /api/requests
func (h *RequestHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateAccessRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ar, err := h.requestService.Create(c.Request.Context(), claims, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, ar)
}

// UpdateStatus godoc
// PUT /api/requests/:requestID
// Approves or rejects a pending request.
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	id, ok := parseID(c, "requestID")
	if !ok {
		return
	}

	var req model.UpdateRequestStatus
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	evt, err := h.requestService.UpdateStatus(c.Request.Context(), claims, id, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":        evt.RequestID,
		"status":    evt.To,
		"previous":  evt.From,
		"updatedBy": evt.ChangedBy,
		"updatedAt": evt.ChangedAt,
	})
}

// History godoc
// GET /api/requests/:requestID/history
func (h *RequestHandler) History(c *gin.Context) {
	id, ok := parseID(c, "requestID")
	if !ok {
		return
	}

	events, err := h.auditService.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, events)
}
