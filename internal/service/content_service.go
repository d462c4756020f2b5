package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/repository"
	pkgcache "github.com/thomaslittle/usrp-backend/pkg/cache"
	pkglogger "github.com/thomaslittle/usrp-backend/pkg/logger"
)

// ContentService is the only entry point permitted to mutate a content
// item's versioned fields. It computes the next version number and keeps
// the item and its snapshot history in lockstep: every successful update
// produces exactly one new version carrying a complete snapshot.
type ContentService interface {
	Create(req *domain.CreateContentRequest, authorID string) (*domain.ContentItem, error)
	Get(id string) (*domain.ContentItem, error)
	GetBySlug(department, slug string) (*domain.ContentItem, error)
	List(department, status, contentType string, page, perPage int) ([]*domain.ContentItem, int64, error)
	Update(id string, req *domain.UpdateContentRequest, authorID string) (*domain.ContentItem, error)
	Publish(id, actorID string) (*domain.ContentItem, error)
	Unpublish(id, actorID string) (*domain.ContentItem, error)
	Delete(id, actorID string) error
}

type contentService struct {
	repo     repository.ContentRepository
	versions VersionService
	activity repository.ActivityRepository
	cache    pkgcache.Service
	search   *SearchService
	notifier NotificationService
}

// NewContentService creates a new ContentService. Cache, search and
// notifier are optional; nil disables the concern.
func NewContentService(
	repo repository.ContentRepository,
	versions VersionService,
	activity repository.ActivityRepository,
	cache pkgcache.Service,
	search *SearchService,
	notifier NotificationService,
) ContentService {
	return &contentService{
		repo:     repo,
		versions: versions,
		activity: activity,
		cache:    cache,
		search:   search,
		notifier: notifier,
	}
}

// Create writes a new content item at version 1 together with its initial
// snapshot. If the item is created already published, the publish timestamp
// is stamped at creation time and the initial version inherits it.
func (s *contentService) Create(req *domain.CreateContentRequest, authorID string) (*domain.ContentItem, error) {
	if !domain.ValidType(req.Type) {
		return nil, common.ErrInvalidInput
	}
	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if status != domain.StatusDraft && status != domain.StatusPublished {
		return nil, common.ErrInvalidInput
	}

	item := &domain.ContentItem{
		ID:         uuid.New().String(),
		Department: req.Department,
		Title:      req.Title,
		Slug:       req.Slug,
		Body:       NormalizeBody(req.Body),
		Type:       req.Type,
		Status:     status,
		Tags:       NormalizeTags(req.Tags),
		AuthorID:   authorID,
		Version:    1,
	}
	if status == domain.StatusPublished {
		now := time.Now()
		item.PublishedAt = &now
	}

	if err := s.repo.Create(item); err != nil {
		return nil, err
	}

	initial := &domain.ContentVersion{
		ContentID:        item.ID,
		Version:          1,
		Title:            item.Title,
		Slug:             item.Slug,
		Body:             item.Body,
		Type:             item.Type,
		Status:           item.Status,
		Tags:             item.Tags,
		AuthorID:         authorID,
		IsCurrentVersion: true,
		ChangesSummary:   "Initial version",
		PublishedAt:      item.PublishedAt,
	}
	if err := s.versions.CreateVersion(initial); err != nil {
		return nil, err
	}

	s.logActivity(authorID, domain.ActionContentCreated, item.ID,
		fmt.Sprintf("Created %s %q", item.Type, item.Title), nil)
	s.afterMutation(item)

	return item, nil
}

func (s *contentService) Get(id string) (*domain.ContentItem, error) {
	item, err := s.repo.FindByID(id)
	if err != nil {
		return nil, common.ErrContentNotFound
	}
	return item, nil
}

func (s *contentService) GetBySlug(department, slug string) (*domain.ContentItem, error) {
	item, err := s.repo.FindBySlug(department, slug)
	if err != nil {
		return nil, common.ErrContentNotFound
	}
	return item, nil
}

func (s *contentService) List(department, status, contentType string, page, perPage int) ([]*domain.ContentItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.repo.List(department, status, contentType, page, perPage)
}

// Update merges the partial request over the current full state, writes the
// merged item under the next version number and snapshots the merged values,
// so every version is independently restorable without replaying history.
//
// There is no optimistic-concurrency guard: two concurrent updates read the
// same counter and both write the same next number. Known limitation.
func (s *contentService) Update(id string, req *domain.UpdateContentRequest, authorID string) (*domain.ContentItem, error) {
	item, err := s.repo.FindByID(id)
	if err != nil {
		return nil, common.ErrContentNotFound
	}

	newVersion := item.Version + 1

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Slug != nil {
		item.Slug = *req.Slug
	}
	if req.Body != nil {
		item.Body = NormalizeBody(req.Body)
	}
	if req.Type != nil {
		if !domain.ValidType(*req.Type) {
			return nil, common.ErrInvalidInput
		}
		item.Type = *req.Type
	}
	if req.Tags != nil {
		item.Tags = NormalizeTags(*req.Tags)
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.StatusPublished:
			// Stamped exactly once: later edits keep the original timestamp
			if item.PublishedAt == nil {
				now := time.Now()
				item.PublishedAt = &now
			}
		case domain.StatusDraft:
			item.PublishedAt = nil
		default:
			return nil, common.ErrInvalidInput
		}
		item.Status = *req.Status
	}

	item.Version = newVersion
	item.UpdatedAt = time.Now()

	if err := s.repo.Update(item); err != nil {
		return nil, err
	}

	snapshot := &domain.ContentVersion{
		ContentID:        item.ID,
		Version:          newVersion,
		Title:            item.Title,
		Slug:             item.Slug,
		Body:             item.Body,
		Type:             item.Type,
		Status:           item.Status,
		Tags:             item.Tags,
		AuthorID:         authorID,
		IsCurrentVersion: true,
		ChangesSummary:   req.ChangesSummary,
		PublishedAt:      item.PublishedAt,
	}
	if err := s.versions.CreateVersion(snapshot); err != nil {
		return nil, err
	}

	if err := s.versions.MarkPreviousVersionsAsNotCurrent(item.ID, newVersion); err != nil {
		return nil, err
	}

	s.logActivity(authorID, domain.ActionContentUpdated, item.ID,
		fmt.Sprintf("Updated %s %q to version %d", item.Type, item.Title, newVersion),
		map[string]interface{}{"version": newVersion})
	s.afterMutation(item)

	return item, nil
}

// Publish routes through Update so the transition is itself versioned and diffable
func (s *contentService) Publish(id, actorID string) (*domain.ContentItem, error) {
	status := domain.StatusPublished
	item, err := s.Update(id, &domain.UpdateContentRequest{
		Status:         &status,
		ChangesSummary: "Published",
	}, actorID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyDepartment(item.Department, domain.NotifyContentPublished,
			fmt.Sprintf("%q has been published", item.Title), item.ID, actorID)
	}
	return item, nil
}

// Unpublish clears the publish timestamp; the next publish stamps a fresh one
func (s *contentService) Unpublish(id, actorID string) (*domain.ContentItem, error) {
	status := domain.StatusDraft
	return s.Update(id, &domain.UpdateContentRequest{
		Status:         &status,
		ChangesSummary: "Unpublished",
	}, actorID)
}

// Delete removes all version snapshots first, then the item. The order is
// load-bearing: an interruption between the two steps leaves an orphaned
// item with no history, never orphaned snapshots with no item.
func (s *contentService) Delete(id, actorID string) error {
	item, err := s.repo.FindByID(id)
	if err != nil {
		return common.ErrContentNotFound
	}

	if err := s.versions.DeleteAllVersions(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.logActivity(actorID, domain.ActionContentDeleted, id,
		fmt.Sprintf("Deleted %s %q", item.Type, item.Title), nil)

	if s.search != nil {
		if err := s.search.DeleteContent(context.Background(), id); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("content_id", id).Msg("search deindex failed")
		}
	}
	if s.cache != nil {
		_ = s.cache.InvalidateContent(context.Background(), item.Department)
	}
	return nil
}

// afterMutation refreshes the search index and drops stale cached lists
func (s *contentService) afterMutation(item *domain.ContentItem) {
	if s.search != nil {
		if err := s.search.IndexContent(context.Background(), item); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("content_id", item.ID).Msg("search index failed")
		}
	}
	if s.cache != nil {
		_ = s.cache.InvalidateContent(context.Background(), item.Department)
	}
}

func (s *contentService) logActivity(actorID, action, contentID, description string, metadata map[string]interface{}) {
	meta := []byte("{}")
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			meta = data
		}
	}
	entry := &domain.ActivityLog{
		ActorID:      actorID,
		Action:       action,
		ResourceType: "content",
		ResourceID:   contentID,
		Description:  description,
		Metadata:     string(meta),
	}
	if err := s.activity.Create(entry); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("action", action).
			Str("content_id", contentID).
			Msg("activity log write failed")
	}
}

// NormalizeBody flattens the body field to a string. The on-disk body is
// always flat; structured formats arrive as objects from some clients and
// are serialized to their JSON encoding.
func NormalizeBody(body interface{}) string {
	switch v := body.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// NormalizeTags drops duplicate tags while preserving input order
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
