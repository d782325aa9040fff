package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	NotificationQueued = "queued"
	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// NotificationLogModel: jejak setiap payload yang diserahkan ke Mailer. Status akhir
// ditulis oleh goroutine pengirim; baris ini tidak pernah di-retry.
type NotificationLogModel struct {
	NotificationLogID          uuid.UUID      `json:"notification_log_id"           gorm:"column:notification_log_id;type:uuid;primaryKey;default:gen_random_uuid()"`
	NotificationLogEntityType  string         `json:"notification_log_entity_type"  gorm:"column:notification_log_entity_type;type:varchar(40);not null;index:idx_notif_entity,priority:1"`
	NotificationLogEntityID    string         `json:"notification_log_entity_id"    gorm:"column:notification_log_entity_id;type:varchar(64);not null;index:idx_notif_entity,priority:2"`
	NotificationLogOldStatus   string         `json:"notification_log_old_status"   gorm:"column:notification_log_old_status;type:varchar(30)"`
	NotificationLogNewStatus   string         `json:"notification_log_new_status"   gorm:"column:notification_log_new_status;type:varchar(30);not null"`
	NotificationLogRecipient   string         `json:"notification_log_recipient"    gorm:"column:notification_log_recipient;type:varchar(160);not null"`
	NotificationLogTemplateKey string         `json:"notification_log_template_key" gorm:"column:notification_log_template_key;type:varchar(60);not null"`
	NotificationLogVariables   datatypes.JSON `json:"notification_log_variables"    gorm:"column:notification_log_variables;type:jsonb"`
	NotificationLogStatus      string         `json:"notification_log_status"       gorm:"column:notification_log_status;type:varchar(10);not null;default:'queued';index"`
	NotificationLogError       *string        `json:"notification_log_error,omitempty" gorm:"column:notification_log_error;type:text"`

	NotificationLogCreatedAt time.Time  `json:"notification_log_created_at" gorm:"column:notification_log_created_at;type:timestamptz;not null;autoCreateTime"`
	NotificationLogSentAt    *time.Time `json:"notification_log_sent_at,omitempty" gorm:"column:notification_log_sent_at;type:timestamptz"`
}

func (NotificationLogModel) TableName() string { return "notification_logs" }
