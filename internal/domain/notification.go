package domain

import "time"

// Notification types
const (
	NotifyContentPublished = "content_published"
	NotifyContentRestored  = "content_restored"
)

// Notification is a per-user message produced by publish and restore events
type Notification struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"column:user_id;type:varchar(36);index" json:"user_id"`
	Type       string    `gorm:"column:type;type:varchar(50)" json:"type"`
	Message    string    `gorm:"column:message;type:varchar(500)" json:"message"`
	ResourceID string    `gorm:"column:resource_id;type:varchar(36)" json:"resource_id,omitempty"`
	IsRead     bool      `gorm:"column:is_read;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
