package repository

import (
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"gorm.io/gorm"
)

// ActivityRepository append-only activity log access.
// Intentionally exposes no update or delete operations.
type ActivityRepository interface {
	Create(entry *domain.ActivityLog) error
	List(actorID, action string, page, perPage int) ([]*domain.ActivityLog, int64, error)
	ListByResource(resourceType, resourceID string, limit int) ([]*domain.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(entry *domain.ActivityLog) error {
	return r.db.Create(entry).Error
}

func (r *activityRepository) List(actorID, action string, page, perPage int) ([]*domain.ActivityLog, int64, error) {
	var entries []*domain.ActivityLog
	var total int64

	query := r.db.Model(&domain.ActivityLog{})
	if actorID != "" {
		query = query.Where("actor_id = ?", actorID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&entries).Error
	return entries, total, err
}

func (r *activityRepository) ListByResource(resourceType, resourceID string, limit int) ([]*domain.ActivityLog, error) {
	var entries []*domain.ActivityLog
	err := r.db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
