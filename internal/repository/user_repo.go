package repository

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id string) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	List(department string, page, perPage int) ([]*domain.User, int64, error)
	ListByDepartment(department string) ([]*domain.User, error)
	Update(user *domain.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *domain.User) error {
	err := r.db.Create(user).Error
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return common.ErrUserAlreadyExists
	}
	return err
}

func (r *userRepository) FindByID(id string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(department string, page, perPage int) ([]*domain.User, int64, error) {
	var users []*domain.User
	var total int64

	query := r.db.Model(&domain.User{})
	if department != "" {
		query = query.Where("department = ?", department)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("username ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&users).Error
	return users, total, err
}

// ListByDepartment returns every active member of a department, in username
// order. Display ordering is imposed by the rank sorter, not here.
func (r *userRepository) ListByDepartment(department string) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.Where("department = ? AND status = ?", department, "active").
		Order("username ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *domain.User) error {
	return r.db.Save(user).Error
}
