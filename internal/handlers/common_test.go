// internal/handlers/common_test.go
package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierprints/catalog-backend/internal/services"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

func respondTo(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondServiceError(c, err)
	return w
}

func TestRespondServiceErrorTaxonomy(t *testing.T) {
	w := respondTo(t, &services.NotFoundError{EntityKind: "category", ID: uuid.New()})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = respondTo(t, &services.DuplicateValueError{EntityKind: "category", Field: "slug", Value: "posters"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = respondTo(t, &services.InsufficientStockError{Current: 1, RequestedDelta: -2})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = respondTo(t, &services.InvalidStateTransitionError{EntityKind: "variant", From: "available", To: "deleted"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = respondTo(t, services.ErrEmptySlug)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = respondTo(t, fmt.Errorf("database error"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// Validation failures wrap validator.ValidationErrors, so the boundary can
// unwrap them into structured per-field details instead of matching on the
// message text.
func TestRespondServiceErrorValidationDetails(t *testing.T) {
	err := utils.ValidateStruct(&services.CreateCategoryRequest{})
	require.Error(t, err)
	wrapped := fmt.Errorf("validation failed: %w", err)

	w := respondTo(t, wrapped)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), `"field":"name"`)
	assert.Contains(t, w.Body.String(), `"tag":"required"`)
}
