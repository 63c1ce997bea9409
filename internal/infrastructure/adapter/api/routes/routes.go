package routes

import (
	"net/http"

	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	walletHandler *handler.WalletHandler,
	entitlementHandler *handler.EntitlementHandler,
	vaultHandler *handler.VaultHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Wallet routes
	walletRoutes := router.Group("/wallet", middleware.RequireUser())
	{
		walletRoutes.GET("/balance", walletHandler.GetBalance)
		walletRoutes.GET("/can-afford", walletHandler.CanAfford)
		walletRoutes.GET("/history", walletHandler.GetHistory)
		walletRoutes.POST("/topup", walletHandler.TopUp)
		walletRoutes.POST("/purchase", walletHandler.Purchase)
		walletRoutes.POST("/transactions/:transactionId/refund", walletHandler.Refund)
	}

	// Entitlement routes
	entitlementRoutes := router.Group("/entitlements", middleware.RequireUser())
	{
		entitlementRoutes.GET("", entitlementHandler.List)
		entitlementRoutes.GET("/:kind/:resourceId/access", entitlementHandler.CheckAccess)
		entitlementRoutes.POST("", entitlementHandler.Grant)
		entitlementRoutes.DELETE("/:kind/:resourceId", entitlementHandler.Revoke)
	}

	// Vault routes
	vaultRoutes := router.Group("/vault", middleware.RequireUser())
	{
		vaultRoutes.POST("/files", vaultHandler.UploadFile)
		vaultRoutes.GET("/files", vaultHandler.ListFiles)
		vaultRoutes.DELETE("/files/:fileId", vaultHandler.DeleteFile)
		vaultRoutes.POST("/files/:fileId/permissions", vaultHandler.GrantAccess)
		vaultRoutes.DELETE("/files/:fileId/permissions/:doctorId", vaultHandler.RevokeAccess)
		vaultRoutes.GET("/files/:fileId/access", vaultHandler.CheckAccess)
		vaultRoutes.GET("/shared", vaultHandler.ListAccessibleFiles)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Identity())
}
