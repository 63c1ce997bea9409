package migration

import (
	"context"
	"time"

	coreport "github.com/drdoublecheck/wallet-ledger/internal/domain/port/core"
	"github.com/drdoublecheck/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// Demo dataset: one patient account whose ledger sums to its balance, the
// entitlements its paid purchases produced, and a small vault shared with one
// doctor.
const (
	demoPatientID = "patient-001"
	demoDoctorID  = "doctor-001"
	demoDoctor    = "Dr. Carlos Mendoza"
)

func ptrTime(t time.Time) *time.Time { return &t }

func demoAccounts() []model.Account {
	created := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []model.Account{
		{
			UserID:           demoPatientID,
			Balance:          1500, // 2000 - 300 - 200
			CreatedAt:        created,
			UpdatedAt:        updated,
			TransactionCount: 3,
		},
	}
}

func demoTransactions() []model.Transaction {
	t1 := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []model.Transaction{
		{
			ID:            "tx-001",
			UserID:        demoPatientID,
			Kind:          "topup",
			Amount:        2000,
			Description:   "Recarga inicial",
			Status:        "paid",
			CreatedAt:     t1,
			ProcessedAt:   ptrTime(t1),
			ResultBalance: 2000,
		},
		{
			ID:            "tx-002",
			UserID:        demoPatientID,
			Kind:          "purchase",
			Amount:        -300,
			Description:   "Grabación: Cardiología Básica",
			Status:        "paid",
			ResourceKind:  "recording",
			ResourceID:    "rec-001",
			CreatedAt:     t2,
			ProcessedAt:   ptrTime(t2),
			ResultBalance: 1700,
		},
		{
			ID:            "tx-003",
			UserID:        demoPatientID,
			Kind:          "purchase",
			Amount:        -200,
			Description:   "Chat con Dr. Mendoza",
			Status:        "paid",
			ResourceKind:  "chat",
			ResourceID:    "chat-001",
			CreatedAt:     t3,
			ProcessedAt:   ptrTime(t3),
			ResultBalance: 1500,
		},
	}
}

func demoEntitlements() []model.Entitlement {
	return []model.Entitlement{
		{
			UserID:       demoPatientID,
			ResourceKind: "recording",
			ResourceID:   "rec-001",
			GrantedAt:    time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
			Source:       "tx-002",
		},
		{
			UserID:       demoPatientID,
			ResourceKind: "chat",
			ResourceID:   "chat-001",
			GrantedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Source:       "tx-003",
		},
	}
}

func demoVaultFiles() []model.VaultFile {
	return []model.VaultFile{
		{
			ID:          "file-001",
			OwnerID:     demoPatientID,
			Name:        "Electrocardiograma_2024.pdf",
			Type:        "pdf",
			Size:        2456000,
			Category:    "Estudios Cardíacos",
			Description: "ECG de control",
			UploadedAt:  time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "file-002",
			OwnerID:     demoPatientID,
			Name:        "Radiografia_Torax.jpg",
			Type:        "image",
			Size:        1890000,
			Category:    "Imagenología",
			Description: "Radiografía de tórax PA y lateral",
			UploadedAt:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "file-003",
			OwnerID:     demoPatientID,
			Name:        "Laboratorios_Marzo_2024.pdf",
			Type:        "pdf",
			Size:        567000,
			Category:    "Laboratorios",
			Description: "Biometría hemática, química sanguínea",
			UploadedAt:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}

func demoVaultPermissions() []model.VaultPermission {
	return []model.VaultPermission{
		{
			FileID:     "file-001",
			DoctorID:   demoDoctorID,
			DoctorName: demoDoctor,
			GrantedAt:  time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			FileID:     "file-003",
			DoctorID:   demoDoctorID,
			DoctorName: demoDoctor,
			GrantedAt:  time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}
}

// SeedDemoData inserts the demo dataset if it is not already present. The
// seed is keyed on the demo account, so a redeploy against an existing
// database leaves user data untouched.
func SeedDemoData(ctx context.Context, db *gorm.DB, logger coreport.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Account{}).
		Where("user_id = ?", demoPatientID).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Demo data already seeded, skipping", map[string]any{
			"user_id": demoPatientID,
		})
		return nil
	}

	logger.Info("Seeding demo data", map[string]any{
		"user_id": demoPatientID,
	})

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, account := range demoAccounts() {
			if err := tx.Create(&account).Error; err != nil {
				return err
			}
		}
		for _, transaction := range demoTransactions() {
			if err := tx.Create(&transaction).Error; err != nil {
				return err
			}
		}
		for _, entitlement := range demoEntitlements() {
			if err := tx.Create(&entitlement).Error; err != nil {
				return err
			}
		}
		for _, file := range demoVaultFiles() {
			if err := tx.Create(&file).Error; err != nil {
				return err
			}
		}
		for _, permission := range demoVaultPermissions() {
			if err := tx.Create(&permission).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
