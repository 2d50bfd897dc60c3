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

// AllocationHandler handles resource allocations.
type AllocationHandler struct {
	allocationService *service.AllocationService
	log               zerolog.Logger
}

func NewAllocationHandler(allocationService *service.AllocationService, log zerolog.Logger) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
		log:               log.With().Str("component", "allocation_handler").Logger(),
	}
}

// List godoc
// GET /api/allocations
func (h *AllocationHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	allocations, err := h.allocationService.List(c.Request.Context(), claims)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, allocations)
}

// Create godoc
// POST /api/allocations
func (h *AllocationHandler) Create(c *gin.Context) {
	var req model.CreateAllocationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	a, err := h.allocationService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}
