package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	accountUseCase "github.com/drdoublecheck/wallet-ledger/internal/domain/usecase/account"
	entitlementUseCase "github.com/drdoublecheck/wallet-ledger/internal/domain/usecase/entitlement"
	vaultUseCase "github.com/drdoublecheck/wallet-ledger/internal/domain/usecase/vault"
	walletUseCase "github.com/drdoublecheck/wallet-ledger/internal/domain/usecase/wallet"

	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/database"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/database/migration"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/logger"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/payment"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/repository"
	timeProvider "github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/time"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbConfig := database.FromAppConfig(cfg)
	if err := dbConfig.Validate(); err != nil {
		appLogger.Error("Invalid database configuration", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.MigrationManager().MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Seed the demo dataset on a fresh database
	if dbConfig.SeedDemoData {
		if err := migration.SeedDemoData(context.Background(), dbManager.DB(), appLogger); err != nil {
			appLogger.Error("Failed to seed demo data", map[string]any{
				"error": err.Error(),
			})
		}
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(dbManager.DB(), tp, appLogger)
	transactionRepo := repository.NewTransactionRepository(dbManager.DB(), appLogger)
	entitlementRepo := repository.NewEntitlementRepository(dbManager.DB(), appLogger)
	vaultRepo := repository.NewVaultRepository(dbManager.DB(), appLogger)

	uow := dbManager.CreateUnitOfWork()

	// Payment authorizer, with optional simulated latency for load testing
	authorizer := payment.NewSimulatedAuthorizer(
		coreport.Duration(time.Duration(cfg.Payment.SimulatedLatencyMs)*time.Millisecond),
		appLogger,
	)

	// Initialize use cases
	accountService := accountUseCase.NewUseCase(accountRepo, tp, appLogger)

	processTimeout := coreport.Duration(time.Duration(cfg.Wallet.ProcessTimeoutMs) * time.Millisecond)
	walletService := walletUseCase.NewService(
		uow,
		accountRepo,
		transactionRepo,
		authorizer,
		tp,
		appLogger,
		processTimeout,
		cfg.Wallet.QueueSize,
	)

	entitlementService := entitlementUseCase.NewService(entitlementRepo, tp, appLogger)
	vaultService := vaultUseCase.NewService(vaultRepo, tp, appLogger)

	// Initialize API handlers
	walletHandler := handler.NewWalletHandler(walletService, accountService, appLogger)
	entitlementHandler := handler.NewEntitlementHandler(entitlementService, appLogger)
	vaultHandler := handler.NewVaultHandler(vaultService, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, walletHandler, entitlementHandler, vaultHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Drain per-account queues before closing the listener so no accepted
	// operation is lost
	appLogger.Info("Shutting down wallet operation manager...", nil)
	walletService.Shutdown()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or DDC_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or DDC_DB_USERNAME environment variable)")
	}
	if cfg.Database.Password == "" {
		missingConfigs = append(missingConfigs, "database.password (or DDC_DB_PASSWORD environment variable)")
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or DDC_DB_NAME environment variable)")
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	if cfg.Wallet.ProcessTimeoutMs == 0 {
		missingConfigs = append(missingConfigs, "wallet.processTimeoutMs")
	}
	if cfg.Wallet.QueueSize == 0 {
		missingConfigs = append(missingConfigs, "wallet.queueSize")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			log.Printf("Warning: database.sslMode should be 'require', 'verify-ca' or 'verify-full' in production")
		}
	}

	return nil
}
