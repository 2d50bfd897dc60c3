package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFailCarriesMessageAndRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) {
		Fail(c, http.StatusConflict, ErrDuplicateAccount)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrDuplicateAccount, body.Error.Code)
	assert.Equal(t, "Username already exists", body.Error.Message)
	assert.Equal(t, "req-123", body.Metadata.RequestID)
	assert.Nil(t, body.Data)
}

func TestSuccessWithPaginationAssignsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) {
		SuccessWithPagination(c, http.StatusOK, []int{1, 2}, &Pagination{Limit: 2, Offset: 0, TotalItems: 5})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body struct {
		Data       []int      `json:"data"`
		Pagination Pagination `json:"pagination"`
		Metadata   Metadata   `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []int{1, 2}, body.Data)
	assert.Equal(t, 5, body.Pagination.TotalItems)
	assert.NotEmpty(t, body.Metadata.RequestID)
	assert.Equal(t, body.Metadata.RequestID, w.Header().Get(HeaderRequestID))
}

func TestEveryCodeHasAMessage(t *testing.T) {
	codes := []ErrCode{
		ErrInvalidCredentials, ErrTokenRequired, ErrTokenInvalid, ErrForbidden,
		ErrAdminAccessOnly, ErrAdminCreateOnly, ErrSelfDeletion, ErrValidation,
		ErrInvalidID, ErrInvalidStatus, ErrNotFound, ErrDuplicateAccount,
		ErrConflict, ErrInvalidTransition, ErrRateLimitExceeded, ErrInternal,
	}
	fallback := GetMessage("SOMETHING_ELSE")
	for _, code := range codes {
		assert.NotEqual(t, fallback, GetMessage(code), "code %s", code)
	}
}
