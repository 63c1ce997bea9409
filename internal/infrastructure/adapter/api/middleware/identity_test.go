package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
)

func setupRouter() (*gin.Engine, *entity.Role, *string) {
	gin.SetMode(gin.TestMode)

	var capturedRole entity.Role
	var capturedID string

	router := gin.New()
	router.Use(Identity())
	router.GET("/protected", RequireUser(), func(c *gin.Context) {
		capturedID = UserID(c)
		capturedRole = UserRole(c)
		c.Status(http.StatusOK)
	})
	return router, &capturedRole, &capturedID
}

func TestIdentity_HeadersForwarded(t *testing.T) {
	router, role, id := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-User-ID", "patient-001")
	req.Header.Set("X-User-Role", "doctor")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "patient-001", *id)
	assert.Equal(t, entity.RoleDoctor, *role)
}

func TestIdentity_MissingUserIDRejected(t *testing.T) {
	router, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authenticated")
}

func TestIdentity_MissingRoleDefaultsToVisitor(t *testing.T) {
	router, role, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-User-ID", "patient-001")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.RoleVisitor, *role)
}

func TestIdentity_UnknownRoleIgnored(t *testing.T) {
	router, role, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-User-ID", "patient-001")
	req.Header.Set("X-User-Role", "superuser")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entity.RoleVisitor, *role, "an unrecognized role falls back to visitor")
}
