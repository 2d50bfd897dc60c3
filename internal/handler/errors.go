package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/command-center/internal/repository"
	"github.com/stemsi/command-center/internal/response"
	"github.com/stemsi/command-center/internal/service"
)

type errorMapping struct {
	err    error
	status int
	code   response.ErrCode
}

// errorMappings translates domain errors into HTTP responses. Anything not
// listed is an internal error.
var errorMappings = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrInvalidToken, http.StatusUnauthorized, response.ErrTokenInvalid},
	{service.ErrAdminCreationForbidden, http.StatusForbidden, response.ErrAdminCreateOnly},
	{service.ErrSelfDeletion, http.StatusBadRequest, response.ErrSelfDeletion},
	{service.ErrInvalidStatus, http.StatusBadRequest, response.ErrInvalidStatus},
	{service.ErrInvalidTransition, http.StatusConflict, response.ErrInvalidTransition},
	{repository.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{repository.ErrReferenceNotFound, http.StatusNotFound, response.ErrNotFound},
	{repository.ErrDuplicateAccount, http.StatusConflict, response.ErrDuplicateAccount},
	{repository.ErrDuplicateServer, http.StatusConflict, response.ErrConflict},
}

// respondError writes the response for err. Unmapped errors are logged with
// their cause and answered with a generic 500.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	if errors.Is(err, service.ErrInvalidAllocationWindow) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"allocationEnd": "allocationEnd must be after allocationStart"})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("request_id", response.RequestID(c)).
		Msg("Unhandled error")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// parseID reads a positive integer path parameter. It writes the 400
// response itself and reports false when the value is unusable.
func parseID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
