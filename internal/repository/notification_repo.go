package repository

import (
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"gorm.io/gorm"
)

// NotificationRepository notification data access
type NotificationRepository interface {
	Create(n *domain.Notification) error
	CreateBatch(ns []*domain.Notification) error
	FindByUser(userID string, page, perPage int) ([]*domain.Notification, int64, error)
	MarkRead(id uint64, userID string) error
	CountUnread(userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(n *domain.Notification) error {
	return r.db.Create(n).Error
}

func (r *notificationRepository) CreateBatch(ns []*domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.Create(&ns).Error
}

func (r *notificationRepository) FindByUser(userID string, page, perPage int) ([]*domain.Notification, int64, error) {
	var notifications []*domain.Notification
	var total int64

	query := r.db.Model(&domain.Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&notifications).Error
	return notifications, total, err
}

// MarkRead scopes by user_id so one user cannot acknowledge another's notification
func (r *notificationRepository) MarkRead(id uint64, userID string) error {
	return r.db.Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *notificationRepository) CountUnread(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
