package handler

import (
	"net/http"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	domainerr "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	entitlementUseCase "github.com/drdoublecheck/wallet-ledger/internal/domain/usecase/entitlement"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// EntitlementHandler handles entitlement-related HTTP requests
type EntitlementHandler struct {
	entitlementService *entitlementUseCase.Service
	logger             coreport.Logger
}

// NewEntitlementHandler creates a new entitlement handler instance
func NewEntitlementHandler(
	entitlementService *entitlementUseCase.Service,
	logger coreport.Logger,
) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementService: entitlementService,
		logger:             logger,
	}
}

// List handles the GET /entitlements endpoint
func (h *EntitlementHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)

	entitlements, err := h.entitlementService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.EntitlementResponse, 0, len(entitlements))
	for _, e := range entitlements {
		responses = append(responses, dto.NewEntitlementResponse(e))
	}

	c.JSON(http.StatusOK, responses)
}

// CheckAccess handles the GET /entitlements/:kind/:resourceId/access endpoint.
// The caller's role participates in the decision: doctors and admins hold
// implicit access to every recording.
func (h *EntitlementHandler) CheckAccess(c *gin.Context) {
	userID := middleware.UserID(c)
	role := middleware.UserRole(c)
	kind := entity.ResourceKind(c.Param("kind"))
	resourceID := c.Param("resourceId")

	hasAccess, err := h.entitlementService.HasAccess(c.Request.Context(), userID, role, kind, resourceID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.AccessResponse{
		ResourceKind: string(kind),
		ResourceID:   resourceID,
		HasAccess:    hasAccess,
	})
}

// Grant handles the POST /entitlements endpoint (administrative grant)
func (h *EntitlementHandler) Grant(c *gin.Context) {
	var req dto.GrantEntitlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	err := h.entitlementService.Grant(c.Request.Context(), req.UserID, entity.ResourceKind(req.ResourceKind), req.ResourceID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Revoke handles the DELETE /entitlements/:kind/:resourceId endpoint
func (h *EntitlementHandler) Revoke(c *gin.Context) {
	userID := middleware.UserID(c)
	kind := entity.ResourceKind(c.Param("kind"))
	resourceID := c.Param("resourceId")

	if err := h.entitlementService.Revoke(c.Request.Context(), userID, kind, resourceID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}
