package repository

import (
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"gorm.io/gorm"
)

// DepartmentRepository department data access
type DepartmentRepository interface {
	Create(dept *domain.Department) error
	FindByID(id string) (*domain.Department, error)
	List() ([]*domain.Department, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new DepartmentRepository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(dept *domain.Department) error {
	return r.db.Create(dept).Error
}

func (r *departmentRepository) FindByID(id string) (*domain.Department, error) {
	var dept domain.Department
	err := r.db.Where("id = ?", id).First(&dept).Error
	if err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List() ([]*domain.Department, error) {
	var depts []*domain.Department
	err := r.db.Order("id ASC").Find(&depts).Error
	return depts, err
}
