package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/response"
	"github.com/stemsi/command-center/internal/service"
	"github.com/stemsi/command-center/internal/validator"
)

// ServerHandler handles the server inventory.
type ServerHandler struct {
	serverService *service.ServerService
	log           zerolog.Logger
}

func NewServerHandler(serverService *service.ServerService, log zerolog.Logger) *ServerHandler {
	return &ServerHandler{
		serverService: serverService,
		log:           log.With().Str("component", "server_handler").Logger(),
	}
}

// List godoc
// GET /api/servers
func (h *ServerHandler) List(c *gin.Context) {
	servers, err := h.serverService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, servers)
}

// Create godoc
// POST /api/servers
func (h *ServerHandler) Create(c *gin.Context) {
	var req model.ServerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	srv, err := h.serverService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, srv)
}

// Update godoc
// PUT /api/servers/:serverID
func (h *ServerHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "serverID")
	if !ok {
		return
	}

	var req model.ServerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	srv, err := h.serverService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, srv)
}

// Delete godoc
// DELETE /api/servers/:serverID
func (h *ServerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "serverID")
	if !ok {
		return
	}

	if err := h.serverService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id})
}
