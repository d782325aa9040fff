package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// EventModel: kegiatan desa (musdes, kerja bakti, posyandu, ...).
type EventModel struct {
	EventID          uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	EventTitle       string         `gorm:"column:event_title;type:varchar(200);not null" json:"event_title"`
	EventSlug        string         `gorm:"column:event_slug;type:varchar(160);not null;uniqueIndex:uq_event_slug,where:event_deleted_at IS NULL" json:"event_slug"`
	EventDescription *string        `gorm:"column:event_description;type:text" json:"event_description,omitempty"`
	EventLocation    *string        `gorm:"column:event_location;type:varchar(200)" json:"event_location,omitempty"`
	EventStartAt     time.Time      `gorm:"column:event_start_at;type:timestamptz;not null;index" json:"event_start_at"`
	EventEndAt       *time.Time     `gorm:"column:event_end_at;type:timestamptz" json:"event_end_at,omitempty"`
	EventTags        pq.StringArray `gorm:"column:event_tags;type:text[];not null;default:'{}'" json:"event_tags"`
	EventImage       *string        `gorm:"column:event_image;type:text" json:"event_image,omitempty"`
	EventCreatedBy   *uuid.UUID     `gorm:"column:event_created_by;type:uuid" json:"event_created_by,omitempty"`

	EventCreatedAt time.Time      `gorm:"column:event_created_at;autoCreateTime" json:"event_created_at"`
	EventUpdatedAt time.Time      `gorm:"column:event_updated_at;autoUpdateTime" json:"event_updated_at"`
	EventDeletedAt gorm.DeletedAt `gorm:"column:event_deleted_at;index" json:"event_deleted_at,omitempty"`
}

func (EventModel) TableName() string { return "events" }
