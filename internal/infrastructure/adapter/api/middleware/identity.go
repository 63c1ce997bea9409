package middleware

import (
	"net/http"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	domainerr "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// Context keys for the caller identity
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// Identity extracts the caller identity from the X-User-ID and X-User-Role
// headers. Authentication itself lives in the upstream gateway; this service
// only consumes the identity it forwards.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID != "" {
			c.Set(ContextUserID, userID)
		}

		role := entity.Role(c.GetHeader("X-User-Role"))
		if role != "" && role.IsValid() {
			c.Set(ContextUserRole, role)
		}

		c.Next()
	}
}

// RequireUser aborts with 401 when no caller identity is present. Wallet and
// vault routes are meaningless without one.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextUserID); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrNotAuthenticated),
				Message: "Not authenticated",
			})
			return
		}
		c.Next()
	}
}

// UserID returns the caller's user ID from the request context
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// UserRole returns the caller's role from the request context. Callers
// without a forwarded role are treated as visitors.
func UserRole(c *gin.Context) entity.Role {
	if v, ok := c.Get(ContextUserRole); ok {
		if role, ok := v.(entity.Role); ok {
			return role
		}
	}
	return entity.RoleVisitor
}
