package service

import (
	"context"

	"github.com/thomaslittle/usrp-backend/internal/auth"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/repository"
)

// UserService business logic for user management
type UserService interface {
	List(department string, page, perPage int) ([]*domain.User, int64, error)
	Get(id string) (*domain.User, error)
	Update(id string, req *domain.UpdateUserRequest, actor *domain.User) (*domain.User, error)
}

type userService struct {
	repo   repository.UserRepository
	roster RosterService
}

// NewUserService creates a new UserService
func NewUserService(repo repository.UserRepository, roster RosterService) UserService {
	return &userService{repo: repo, roster: roster}
}

func (s *userService) List(department string, page, perPage int) ([]*domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}
	return s.repo.List(department, page, perPage)
}

func (s *userService) Get(id string) (*domain.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, common.ErrUserNotFound
	}
	return user, nil
}

// Update applies an admin mutation to a user record. Granting super_admin
// requires the actor to be super_admin; plain admins manage only roles
// below their own.
func (s *userService) Update(id string, req *domain.UpdateUserRequest, actor *domain.User) (*domain.User, error) {
	if !auth.HasPermission(actor.Role, domain.RoleAdmin) {
		return nil, common.ErrForbidden
	}

	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, common.ErrUserNotFound
	}

	oldDepartment := user.Department

	if req.Role != nil {
		if !domain.ValidRole(*req.Role) {
			return nil, common.ErrInvalidInput
		}
		if *req.Role == domain.RoleSuperAdmin && actor.Role != domain.RoleSuperAdmin {
			return nil, common.ErrForbidden
		}
		user.Role = *req.Role
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Rank != nil {
		user.Rank = *req.Rank
	}
	if req.Callsign != nil {
		user.Callsign = *req.Callsign
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}

	// Rank, status or department changes reorder or reshape rosters
	if s.roster != nil {
		ctx := context.Background()
		s.roster.InvalidateRoster(ctx, oldDepartment)
		if user.Department != oldDepartment {
			s.roster.InvalidateRoster(ctx, user.Department)
		}
	}

	return user, nil
}
