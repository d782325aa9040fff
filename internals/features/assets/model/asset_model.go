package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AssetStatusIdle   = "idle"
	AssetStatusOnLoan = "onloan"
)

type AssetModel struct {
	AssetID          uuid.UUID `gorm:"column:asset_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"asset_id"`
	AssetName        string    `gorm:"column:asset_name;type:varchar(150);not null" json:"asset_name"`
	AssetCode        string    `gorm:"column:asset_code;type:varchar(50);not null;uniqueIndex:uq_asset_code,where:asset_deleted_at IS NULL" json:"asset_code"`
	AssetDescription *string   `gorm:"column:asset_description;type:text" json:"asset_description,omitempty"`
	AssetCondition   string    `gorm:"column:asset_condition;type:varchar(50);not null;default:'baik'" json:"asset_condition"`
	AssetStatus      string    `gorm:"column:asset_status;type:varchar(10);not null;default:'idle';check:asset_status IN ('idle','onloan');index" json:"asset_status"`
	AssetImage       *string   `gorm:"column:asset_image;type:text" json:"asset_image,omitempty"`

	AssetCreatedAt time.Time      `gorm:"column:asset_created_at;autoCreateTime" json:"asset_created_at"`
	AssetUpdatedAt time.Time      `gorm:"column:asset_updated_at;autoUpdateTime" json:"asset_updated_at"`
	AssetDeletedAt gorm.DeletedAt `gorm:"column:asset_deleted_at;index" json:"asset_deleted_at,omitempty"`
}

func (AssetModel) TableName() string { return "assets" }
