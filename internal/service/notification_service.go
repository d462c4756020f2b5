package service

import (
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/repository"
	pkglogger "github.com/thomaslittle/usrp-backend/pkg/logger"
)

// NotificationService fans out per-user notifications for publish and
// restore events and serves user-facing notification reads.
type NotificationService interface {
	NotifyDepartment(department, notifyType, message, resourceID, excludeUserID string)
	ListForUser(userID string, page, perPage int) ([]*domain.Notification, int64, error)
	MarkRead(id uint64, userID string) error
	UnreadCount(userID string) (int64, error)
}

type notificationService struct {
	repo  repository.NotificationRepository
	users repository.UserRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository) NotificationService {
	return &notificationService{repo: repo, users: users}
}

// NotifyDepartment creates one notification per active department member,
// skipping the actor. Best effort: failures are logged, never propagated,
// since notifications are a side effect of an already-committed mutation.
func (s *notificationService) NotifyDepartment(department, notifyType, message, resourceID, excludeUserID string) {
	members, err := s.users.ListByDepartment(department)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).
			Str("department", department).
			Msg("notification fanout: member list failed")
		return
	}

	notifications := make([]*domain.Notification, 0, len(members))
	for _, member := range members {
		if member.ID == excludeUserID {
			continue
		}
		notifications = append(notifications, &domain.Notification{
			UserID:     member.ID,
			Type:       notifyType,
			Message:    message,
			ResourceID: resourceID,
		})
	}

	if err := s.repo.CreateBatch(notifications); err != nil {
		pkglogger.GetLogger().Warn().Err(err).
			Str("department", department).
			Msg("notification fanout: batch insert failed")
	}
}

func (s *notificationService) ListForUser(userID string, page, perPage int) ([]*domain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.repo.FindByUser(userID, page, perPage)
}

func (s *notificationService) MarkRead(id uint64, userID string) error {
	return s.repo.MarkRead(id, userID)
}

func (s *notificationService) UnreadCount(userID string) (int64, error) {
	return s.repo.CountUnread(userID)
}
