package service

import (
	"context"
	"encoding/json"

	"github.com/thomaslittle/usrp-backend/internal/auth"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/repository"
	pkgcache "github.com/thomaslittle/usrp-backend/pkg/cache"
	pkglogger "github.com/thomaslittle/usrp-backend/pkg/logger"
)

// RosterService serves department member lists in organizational rank
// order, so display order is deterministic regardless of how the
// underlying listing paginates or sorts.
type RosterService interface {
	GetRoster(ctx context.Context, department string) ([]*domain.User, error)
	InvalidateRoster(ctx context.Context, department string)
}

type rosterService struct {
	users repository.UserRepository
	cache pkgcache.Service
}

// NewRosterService creates a new RosterService. Cache is optional.
func NewRosterService(users repository.UserRepository, cache pkgcache.Service) RosterService {
	return &rosterService{users: users, cache: cache}
}

func (s *rosterService) GetRoster(ctx context.Context, department string) ([]*domain.User, error) {
	if s.cache != nil {
		if raw, err := s.cache.GetRoster(ctx, department); err == nil {
			var cached []*domain.User
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	members, err := s.users.ListByDepartment(department)
	if err != nil {
		return nil, err
	}
	sorted := auth.SortByRank(members)

	if s.cache != nil {
		if err := s.cache.SetRoster(ctx, department, sorted); err != nil {
			pkglogger.GetLogger().Warn().Err(err).
				Str("department", department).
				Msg("roster cache write failed")
		}
	}
	return sorted, nil
}

func (s *rosterService) InvalidateRoster(ctx context.Context, department string) {
	if s.cache != nil {
		_ = s.cache.InvalidateRoster(ctx, department)
	}
}
