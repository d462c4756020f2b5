package domain

import "time"

// Activity log actions
const (
	ActionContentCreated  = "content_created"
	ActionContentUpdated  = "content_updated"
	ActionContentDeleted  = "content_deleted"
	ActionVersionCreated  = "version_created"
	ActionVersionRestored = "version_restored"
	ActionUserUpdated     = "user_updated"
)

// ActivityLog is an append-only audit record. The content and version
// services only ever insert rows here; nothing in this codebase updates
// or deletes them.
type ActivityLog struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ActorID      string    `gorm:"column:actor_id;type:varchar(36);index" json:"actor_id"`
	Action       string    `gorm:"column:action;type:varchar(50);index" json:"action"`
	ResourceType string    `gorm:"column:resource_type;type:varchar(50)" json:"resource_type"`
	ResourceID   string    `gorm:"column:resource_id;type:varchar(36)" json:"resource_id"`
	Description  string    `gorm:"column:description;type:varchar(500)" json:"description"`
	Metadata     string    `gorm:"column:metadata;type:json" json:"metadata,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
