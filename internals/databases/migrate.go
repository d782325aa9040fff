package database

import (
	assetModel "desaku_backend/internals/features/assets/model"
	docModel "desaku_backend/internals/features/documents/model"
	eventModel "desaku_backend/internals/features/events/model"
	finModel "desaku_backend/internals/features/finance/transactions/model"
	notifModel "desaku_backend/internals/features/notifications/model"
	popModel "desaku_backend/internals/features/population/model"
	aidModel "desaku_backend/internals/features/social_aids/model"
	authModel "desaku_backend/internals/features/users/auth/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Index yang tidak bisa dinyatakan lewat tag GORM (predikat berisi koma).
var rawIndexes = []string{
	// maksimal satu pinjaman aktif per aset
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_asset_loan_active
		ON asset_loans (asset_loan_asset_id)
		WHERE asset_loan_status IN ('waiting_approval','on_loan')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_social_aid_recipient_citizen
		ON social_aid_recipients (social_aid_recipient_program_id, social_aid_recipient_citizen_id)
		WHERE social_aid_recipient_citizen_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_social_aid_recipient_family
		ON social_aid_recipients (social_aid_recipient_program_id, social_aid_recipient_family_id)
		WHERE social_aid_recipient_family_id IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_event_tags_gin ON events USING GIN (event_tags)`,
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		zap.L().Warn("pgcrypto", zap.Error(err))
	}
	err := db.AutoMigrate(
		&authModel.UserModel{},
		&authModel.TokenBlacklistModel{},
		&popModel.FamilyModel{},
		&popModel.CitizenModel{},
		&finModel.FinanceLedgerModel{},
		&finModel.FinanceTransactionModel{},
		&assetModel.AssetModel{},
		&assetModel.AssetLoanModel{},
		&docModel.MasterDocumentModel{},
		&docModel.ApplicationDocumentModel{},
		&aidModel.SocialAidProgramModel{},
		&aidModel.SocialAidRecipientModel{},
		&eventModel.EventModel{},
		&notifModel.NotificationLogModel{},
	)
	if err != nil {
		return err
	}
	for _, q := range rawIndexes {
		if err := db.Exec(q).Error; err != nil {
			return err
		}
	}
	zap.L().Info("auto migrate selesai")
	return nil
}
