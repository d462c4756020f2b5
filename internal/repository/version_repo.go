package repository

import (
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"gorm.io/gorm"
)

// VersionRepository content version snapshot data access
type VersionRepository interface {
	Create(version *domain.ContentVersion) error
	FindByContentID(contentID string) ([]*domain.ContentVersion, error)
	FindByContentIDAndVersion(contentID string, version int) (*domain.ContentVersion, error)
	FindCurrent(contentID string) (*domain.ContentVersion, error)
	SetCurrentFlag(id uint64, current bool) error
	DeleteByContentID(contentID string) error
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(version *domain.ContentVersion) error {
	return r.db.Create(version).Error
}

func (r *versionRepository) FindByContentID(contentID string) ([]*domain.ContentVersion, error) {
	var versions []*domain.ContentVersion
	err := r.db.Where("content_id = ?", contentID).Order("version DESC").Find(&versions).Error
	return versions, err
}

func (r *versionRepository) FindByContentIDAndVersion(contentID string, version int) (*domain.ContentVersion, error) {
	var v domain.ContentVersion
	err := r.db.Where("content_id = ? AND version = ?", contentID, version).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *versionRepository) FindCurrent(contentID string) (*domain.ContentVersion, error) {
	var v domain.ContentVersion
	err := r.db.Where("content_id = ? AND is_current_version = ?", contentID, true).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SetCurrentFlag flips is_current_version on a single snapshot row.
// The flag is the only mutable column on content_versions.
func (r *versionRepository) SetCurrentFlag(id uint64, current bool) error {
	return r.db.Model(&domain.ContentVersion{}).
		Where("id = ?", id).
		Update("is_current_version", current).Error
}

func (r *versionRepository) DeleteByContentID(contentID string) error {
	return r.db.Where("content_id = ?", contentID).Delete(&domain.ContentVersion{}).Error
}
