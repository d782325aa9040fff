package repository

import (
	"context"
	"time"

	"desaku_backend/internals/features/notifications/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LogStore interface {
	Create(ctx context.Context, m *model.NotificationLogModel) error
	MarkResult(ctx context.Context, id uuid.UUID, status string, errMsg *string, at time.Time) error
}

type GormLogStore struct {
	DB *gorm.DB
}

func NewGormLogStore(db *gorm.DB) *GormLogStore {
	return &GormLogStore{DB: db}
}

func (s *GormLogStore) Create(ctx context.Context, m *model.NotificationLogModel) error {
	return s.DB.WithContext(ctx).Create(m).Error
}

func (s *GormLogStore) MarkResult(ctx context.Context, id uuid.UUID, status string, errMsg *string, at time.Time) error {
	upd := map[string]any{
		"notification_log_status": status,
		"notification_log_error":  errMsg,
	}
	if status == model.NotificationSent {
		upd["notification_log_sent_at"] = at
	}
	return s.DB.WithContext(ctx).
		Model(&model.NotificationLogModel{}).
		Where("notification_log_id = ?", id).
		Updates(upd).Error
}

type ListFilter struct {
	Status     string
	EntityType string
	EntityID   string
	Offset     int
	Limit      int
}

func (s *GormLogStore) List(ctx context.Context, f ListFilter) ([]model.NotificationLogModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.NotificationLogModel{})
	if f.Status != "" {
		q = q.Where("notification_log_status = ?", f.Status)
	}
	if f.EntityType != "" {
		q = q.Where("notification_log_entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		q = q.Where("notification_log_entity_id = ?", f.EntityID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.NotificationLogModel
	err := q.Order("notification_log_created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&rows).Error
	return rows, total, err
}
