package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"livestream-backend/domain/model"
)

func TestRespondError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
	}{
		{model.NewValidationError("Invalid video ID"), http.StatusBadRequest},
		{model.NewAuthenticationError("Invalid email or password"), http.StatusUnauthorized},
		{model.NewForbiddenError("Only the owner may edit this video"), http.StatusForbidden},
		{model.NewSelfFollowError("Cannot follow yourself"), http.StatusForbidden},
		{model.NewNotFoundError("Video not found"), http.StatusNotFound},
		{model.NewNotReadyError("Video not ready for streaming"), http.StatusBadRequest},
		{model.NewInvalidTransitionError("Cannot transition from COMPLETED to PROCESSING"), http.StatusConflict},
		{model.NewConsistencyError("follow counters diverged"), http.StatusInternalServerError},
		{model.NewStorageError("object store unreachable", nil), http.StatusInternalServerError},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		respondError(c, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}
}

func TestRespondError_MasksInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	respondError(c, model.NewInternalError("dsn user=admin password=hunter2", nil))

	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
