package repository

import (
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"gorm.io/gorm"
)

// ContentRepository content item data access
type ContentRepository interface {
	Create(item *domain.ContentItem) error
	FindByID(id string) (*domain.ContentItem, error)
	FindBySlug(department, slug string) (*domain.ContentItem, error)
	List(department, status, contentType string, page, perPage int) ([]*domain.ContentItem, int64, error)
	Search(department, keyword string, page, perPage int) ([]*domain.ContentItem, int64, error)
	Update(item *domain.ContentItem) error
	Delete(id string) error
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(item *domain.ContentItem) error {
	return r.db.Create(item).Error
}

func (r *contentRepository) FindByID(id string) (*domain.ContentItem, error) {
	var item domain.ContentItem
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepository) FindBySlug(department, slug string) (*domain.ContentItem, error) {
	var item domain.ContentItem
	err := r.db.Where("department = ? AND slug = ?", department, slug).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepository) List(department, status, contentType string, page, perPage int) ([]*domain.ContentItem, int64, error) {
	var items []*domain.ContentItem
	var total int64

	query := r.db.Model(&domain.ContentItem{})
	if department != "" {
		query = query.Where("department = ?", department)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if contentType != "" {
		query = query.Where("type = ?", contentType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("updated_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&items).Error
	return items, total, err
}

// Search is the LIKE-based fallback used when Elasticsearch is not configured
func (r *contentRepository) Search(department, keyword string, page, perPage int) ([]*domain.ContentItem, int64, error) {
	var items []*domain.ContentItem
	var total int64

	pattern := "%" + keyword + "%"
	query := r.db.Model(&domain.ContentItem{}).
		Where("title LIKE ? OR body LIKE ?", pattern, pattern)
	if department != "" {
		query = query.Where("department = ?", department)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("updated_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&items).Error
	return items, total, err
}

func (r *contentRepository) Update(item *domain.ContentItem) error {
	return r.db.Save(item).Error
}

func (r *contentRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.ContentItem{}).Error
}
