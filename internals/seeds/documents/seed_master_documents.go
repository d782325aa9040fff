package documents

import (
	"context"
	"errors"
	"os"

	"desaku_backend/internals/features/documents/dto"
	"desaku_backend/internals/features/documents/model"
	helper "desaku_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type masterSeed struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

// SeedMasterDocumentsFromJSON: jenis surat bawaan. Nama yang sudah ada dilewati.
func SeedMasterDocumentsFromJSON(ctx context.Context, db *gorm.DB, filePath string) error {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var inputs []masterSeed
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return err
	}
	for _, in := range inputs {
		var n int64
		if err := db.WithContext(ctx).Model(&model.MasterDocumentModel{}).
			Where("master_document_name = ?", in.Name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		desc := in.Description
		m := dto.CreateMasterDocumentRequest{Name: in.Name, Description: &desc, Requirements: in.Requirements}.ToModel()
		if m.MasterDocumentSlug, err = helper.UniqueSlug(ctx, db, "master_documents", "master_document_slug", helper.Slugify(m.MasterDocumentName), "", nil); err != nil {
			return err
		}
		if err := db.WithContext(ctx).Create(&m).Error; err != nil {
			return err
		}
		zap.L().Info("seed master document", zap.String("name", in.Name))
	}
	return nil
}
