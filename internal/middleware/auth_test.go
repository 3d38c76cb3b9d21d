// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/atelierprints/catalog-backend/internal/models"
)

func runMiddleware(t *testing.T, handler gin.HandlerFunc, prepare func(c *gin.Context)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if prepare != nil {
		prepare(c)
	}
	handler(c)
	return w
}

func TestAdminRequiredBlocksEditors(t *testing.T) {
	w := runMiddleware(t, AdminRequired(), func(c *gin.Context) {
		c.Set("user_role", string(models.UserRoleEditor))
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestAdminRequiredBlocksMissingRole(t *testing.T) {
	w := runMiddleware(t, AdminRequired(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRequiredPassesAdmins(t *testing.T) {
	w := runMiddleware(t, AdminRequired(), func(c *gin.Context) {
		c.Set("user_role", string(models.UserRoleAdmin))
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequiredRejectsMissingHeader(t *testing.T) {
	w := runMiddleware(t, AuthRequired(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthRequiredRejectsMalformedHeader(t *testing.T) {
	w := runMiddleware(t, AuthRequired(), func(c *gin.Context) {
		c.Request.Header.Set("Authorization", "Token abc")
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
