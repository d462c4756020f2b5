package domain

import "time"

// ContentVersion is an immutable snapshot of a ContentItem at one version
// number. Only the IsCurrentVersion flag is ever flipped after the row is
// written; every other column is write-once.
type ContentVersion struct {
	ID               uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContentID        string     `gorm:"column:content_id;type:varchar(36);index" json:"content_id"`
	Version          int        `gorm:"column:version" json:"version"`
	Title            string     `gorm:"column:title;type:varchar(255)" json:"title"`
	Slug             string     `gorm:"column:slug;type:varchar(255)" json:"slug"`
	Body             string     `gorm:"column:body;type:mediumtext" json:"body"`
	Type             string     `gorm:"column:type;type:varchar(20)" json:"type"`
	Status           string     `gorm:"column:status;type:varchar(20)" json:"status"`
	Tags             []string   `gorm:"column:tags;type:json;serializer:json" json:"tags"`
	AuthorID         string     `gorm:"column:author_id;type:varchar(36)" json:"author_id"`
	IsCurrentVersion bool       `gorm:"column:is_current_version;default:false" json:"is_current_version"`
	ChangesSummary   string     `gorm:"column:changes_summary;type:varchar(500)" json:"changes_summary,omitempty"`
	PublishedAt      *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentVersion) TableName() string { return "content_versions" }

// Diff change classifications
const (
	DiffAdded    = "added"
	DiffRemoved  = "removed"
	DiffModified = "modified"
)

// VersionDiff is one changed field between two version snapshots.
// Old and New hold the serialized field values.
type VersionDiff struct {
	Field  string `json:"field"`
	Old    string `json:"old,omitempty"`
	New    string `json:"new,omitempty"`
	Change string `json:"change"`
}

// VersionComparison aggregates the diff between two versions of one content item
type VersionComparison struct {
	ContentID   string          `json:"content_id"`
	FromVersion int             `json:"from_version"`
	ToVersion   int             `json:"to_version"`
	From        *ContentVersion `json:"from"`
	To          *ContentVersion `json:"to"`
	Diffs       []VersionDiff   `json:"diffs"`
	ChangeCount int             `json:"change_count"`
}

// VersionStats summarizes the version history of one content item
type VersionStats struct {
	TotalVersions  int             `json:"total_versions"`
	DistinctAuthor int             `json:"distinct_authors"`
	PublishedCount int             `json:"published_count"`
	Oldest         *ContentVersion `json:"oldest,omitempty"`
	Newest         *ContentVersion `json:"newest,omitempty"`
}
