package domain

import "time"

// Content types
const (
	TypeSOP          = "sop"
	TypeGuide        = "guide"
	TypeAnnouncement = "announcement"
	TypeResource     = "resource"
	TypeTraining     = "training"
	TypePolicy       = "policy"
)

// Content statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// ContentItem represents one piece of published or draft material (SOP,
// guide, policy, ...). All versioned-field mutations go through the content
// service so the version counter and snapshot history stay in lockstep.
type ContentItem struct {
	ID          string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Department  string     `gorm:"column:department;type:varchar(50);index" json:"department"`
	Title       string     `gorm:"column:title;type:varchar(255)" json:"title"`
	Slug        string     `gorm:"column:slug;type:varchar(255);index" json:"slug"`
	Body        string     `gorm:"column:body;type:mediumtext" json:"body"`
	Type        string     `gorm:"column:type;type:enum('sop','guide','announcement','resource','training','policy');default:'guide'" json:"type"`
	Status      string     `gorm:"column:status;type:enum('draft','published');default:'draft'" json:"status"`
	Tags        []string   `gorm:"column:tags;type:json;serializer:json" json:"tags"`
	AuthorID    string     `gorm:"column:author_id;type:varchar(36);index" json:"author_id"`
	Version     int        `gorm:"column:version;default:1" json:"version"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ContentItem) TableName() string { return "content" }

// ValidType reports whether t is a known content type
func ValidType(t string) bool {
	switch t {
	case TypeSOP, TypeGuide, TypeAnnouncement, TypeResource, TypeTraining, TypePolicy:
		return true
	}
	return false
}

// CreateContentRequest is the payload for creating a content item
type CreateContentRequest struct {
	Department string      `json:"department" binding:"required"`
	Title      string      `json:"title" binding:"required"`
	Slug       string      `json:"slug" binding:"required"`
	Body       interface{} `json:"body"`
	Type       string      `json:"type" binding:"required"`
	Status     string      `json:"status"`
	Tags       []string    `json:"tags"`
}

// UpdateContentRequest is the payload for a partial content update.
// Pointer fields distinguish "leave unchanged" from "set to zero value".
// Body accepts either a string or a structured object; objects are
// serialized to a string before writing (the on-disk body is always flat).
type UpdateContentRequest struct {
	Title          *string     `json:"title,omitempty"`
	Slug           *string     `json:"slug,omitempty"`
	Body           interface{} `json:"body,omitempty"`
	Type           *string     `json:"type,omitempty"`
	Status         *string     `json:"status,omitempty"`
	Tags           *[]string   `json:"tags,omitempty"`
	ChangesSummary string      `json:"changes_summary,omitempty"`
}
