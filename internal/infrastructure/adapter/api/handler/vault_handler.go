package handler

import (
	"net/http"

	"github.com/drdoublecheck/wallet-ledger/internal/domain/entity"
	domainerr "github.com/drdoublecheck/wallet-ledger/internal/domain/error"
	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	vaultUseCase "github.com/drdoublecheck/wallet-ledger/internal/domain/usecase/vault"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// VaultHandler handles vault-related HTTP requests
type VaultHandler struct {
	vaultService *vaultUseCase.Service
	logger       coreport.Logger
}

// NewVaultHandler creates a new vault handler instance
func NewVaultHandler(
	vaultService *vaultUseCase.Service,
	logger coreport.Logger,
) *VaultHandler {
	return &VaultHandler{
		vaultService: vaultService,
		logger:       logger,
	}
}

// UploadFile handles the POST /vault/files endpoint
func (h *VaultHandler) UploadFile(c *gin.Context) {
	userID := middleware.UserID(c)

	var req dto.UploadFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	file, err := h.vaultService.UploadFile(c.Request.Context(), userID, vaultUseCase.UploadRequest{
		Name:        req.Name,
		Type:        entity.VaultFileType(req.Type),
		Size:        req.Size,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewVaultFileResponse(file))
}

// ListFiles handles the GET /vault/files endpoint (owner's collection)
func (h *VaultHandler) ListFiles(c *gin.Context) {
	userID := middleware.UserID(c)

	files, err := h.vaultService.ListOwnerFiles(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.VaultFileResponse, 0, len(files))
	for _, f := range files {
		responses = append(responses, dto.NewVaultFileResponse(f))
	}

	c.JSON(http.StatusOK, dto.VaultFileListResponse{Files: responses})
}

// DeleteFile handles the DELETE /vault/files/:fileId endpoint
func (h *VaultHandler) DeleteFile(c *gin.Context) {
	userID := middleware.UserID(c)
	fileID := c.Param("fileId")

	if err := h.vaultService.DeleteFile(c.Request.Context(), userID, fileID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GrantAccess handles the POST /vault/files/:fileId/permissions endpoint
func (h *VaultHandler) GrantAccess(c *gin.Context) {
	userID := middleware.UserID(c)
	fileID := c.Param("fileId")

	var req dto.GrantVaultAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	if err := h.vaultService.GrantAccess(c.Request.Context(), userID, fileID, req.DoctorID, req.DoctorName); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RevokeAccess handles the DELETE /vault/files/:fileId/permissions/:doctorId endpoint
func (h *VaultHandler) RevokeAccess(c *gin.Context) {
	userID := middleware.UserID(c)
	fileID := c.Param("fileId")
	doctorID := c.Param("doctorId")

	if err := h.vaultService.RevokeAccess(c.Request.Context(), userID, fileID, doctorID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAccessibleFiles handles the GET /vault/shared endpoint. It returns
// every file shared with the calling doctor, across all owners.
func (h *VaultHandler) ListAccessibleFiles(c *gin.Context) {
	userID := middleware.UserID(c)

	files, err := h.vaultService.ListAccessibleFiles(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]dto.VaultFileResponse, 0, len(files))
	for _, f := range files {
		responses = append(responses, dto.NewVaultFileResponse(f))
	}

	c.JSON(http.StatusOK, dto.VaultFileListResponse{Files: responses})
}

// CheckAccess handles the GET /vault/files/:fileId/access endpoint
func (h *VaultHandler) CheckAccess(c *gin.Context) {
	userID := middleware.UserID(c)
	fileID := c.Param("fileId")

	hasAccess, err := h.vaultService.HasAccess(c.Request.Context(), fileID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.AccessResponse{
		ResourceKind: "vault_file",
		ResourceID:   fileID,
		HasAccess:    hasAccess,
	})
}
