package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/repository"
	pkglogger "github.com/thomaslittle/usrp-backend/pkg/logger"
)

// compareFields is the fixed field set (and order) used by CompareVersions
var compareFields = []string{"title", "slug", "body", "type", "status", "tags"}

// VersionService owns the immutable history of a content item and all
// transitions of the "current version" pointer.
//
// Read operations degrade rather than fail: infrastructure errors are
// logged and surface as an empty list or nil, indistinguishable from
// "no data exists". Write operations propagate errors to the caller.
type VersionService interface {
	CreateVersion(version *domain.ContentVersion) error
	GetVersionsByContentID(contentID string) []*domain.ContentVersion
	GetVersionByNumber(contentID string, versionNumber int) *domain.ContentVersion
	GetCurrentVersion(contentID string) *domain.ContentVersion
	MarkPreviousVersionsAsNotCurrent(contentID string, currentVersionNumber int) error
	RestoreVersion(contentID string, versionNumber int, actorID string) (*domain.ContentItem, error)
	CompareVersions(contentID string, fromVersion, toVersion int) (*domain.VersionComparison, error)
	GetVersionStats(contentID string) *domain.VersionStats
	DeleteAllVersions(contentID string) error
}

type versionService struct {
	versions repository.VersionRepository
	content  repository.ContentRepository
	activity repository.ActivityRepository
	notifier NotificationService
}

// NewVersionService creates a new VersionService. notifier is optional;
// nil disables restore notifications.
func NewVersionService(versions repository.VersionRepository, content repository.ContentRepository, activity repository.ActivityRepository, notifier NotificationService) VersionService {
	return &versionService{versions: versions, content: content, activity: activity, notifier: notifier}
}

// CreateVersion persists a new immutable snapshot. The caller supplies the
// version number; computing it belongs to the content service's update
// orchestration. Duplicate numbers under the same content id are a caller
// invariant, not enforced here.
func (s *versionService) CreateVersion(version *domain.ContentVersion) error {
	if err := s.versions.Create(version); err != nil {
		return err
	}
	s.logActivity(version.AuthorID, domain.ActionVersionCreated, version.ContentID,
		fmt.Sprintf("Wrote version %d snapshot", version.Version),
		map[string]interface{}{"version": version.Version})
	return nil
}

// GetVersionsByContentID returns all versions ordered most recent first.
// Returns an empty list if none exist or the read fails.
func (s *versionService) GetVersionsByContentID(contentID string) []*domain.ContentVersion {
	versions, err := s.versions.FindByContentID(contentID)
	if err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("content_id", contentID).
			Msg("version list read failed, returning empty")
		return []*domain.ContentVersion{}
	}
	if versions == nil {
		return []*domain.ContentVersion{}
	}
	return versions
}

// GetVersionByNumber returns the exact snapshot, or nil if absent or on error
func (s *versionService) GetVersionByNumber(contentID string, versionNumber int) *domain.ContentVersion {
	version, err := s.versions.FindByContentIDAndVersion(contentID, versionNumber)
	if err != nil {
		return nil
	}
	return version
}

// GetCurrentVersion returns the snapshot flagged current, or nil if none
func (s *versionService) GetCurrentVersion(contentID string) *domain.ContentVersion {
	version, err := s.versions.FindCurrent(contentID)
	if err != nil {
		return nil
	}
	return version
}

// MarkPreviousVersionsAsNotCurrent clears the current flag on every version
// whose number differs from currentVersionNumber. It deliberately scans all
// versions instead of trusting a single prior "current" record, so any
// accumulated inconsistency is healed on the next call. Idempotent.
func (s *versionService) MarkPreviousVersionsAsNotCurrent(contentID string, currentVersionNumber int) error {
	versions, err := s.versions.FindByContentID(contentID)
	if err != nil {
		return err
	}
	for _, v := range versions {
		if v.Version != currentVersionNumber && v.IsCurrentVersion {
			if err := s.versions.SetCurrentFlag(v.ID, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// RestoreVersion makes the content item's visible fields equal an older
// snapshot's, under a brand new version number. The counter never rewinds:
// restoring version K produces version N+1 whose fields equal K's.
//
// The steps after the content write are not atomic as a unit; a failure
// mid-sequence can leave the item updated without a matching snapshot.
func (s *versionService) RestoreVersion(contentID string, versionNumber int, actorID string) (*domain.ContentItem, error) {
	target := s.GetVersionByNumber(contentID, versionNumber)
	if target == nil {
		return nil, common.ErrVersionNotFound
	}

	item, err := s.content.FindByID(contentID)
	if err != nil {
		return nil, common.ErrContentNotFound
	}

	newVersionNumber := item.Version + 1

	item.Title = target.Title
	item.Slug = target.Slug
	item.Body = target.Body
	item.Type = target.Type
	item.Status = target.Status
	item.Tags = target.Tags
	item.PublishedAt = target.PublishedAt
	item.Version = newVersionNumber
	item.UpdatedAt = time.Now()

	if err := s.content.Update(item); err != nil {
		return nil, err
	}

	restored := &domain.ContentVersion{
		ContentID:        contentID,
		Version:          newVersionNumber,
		Title:            target.Title,
		Slug:             target.Slug,
		Body:             target.Body,
		Type:             target.Type,
		Status:           target.Status,
		Tags:             target.Tags,
		AuthorID:         actorID,
		IsCurrentVersion: true,
		ChangesSummary:   fmt.Sprintf("Restored from version %d", versionNumber),
		PublishedAt:      target.PublishedAt,
	}
	if err := s.versions.Create(restored); err != nil {
		return nil, err
	}

	if err := s.MarkPreviousVersionsAsNotCurrent(contentID, newVersionNumber); err != nil {
		return nil, err
	}

	s.logActivity(actorID, domain.ActionVersionRestored, contentID,
		fmt.Sprintf("Restored content to version %d as version %d", versionNumber, newVersionNumber),
		map[string]interface{}{
			"restored_from": versionNumber,
			"new_version":   newVersionNumber,
		})

	if s.notifier != nil {
		s.notifier.NotifyDepartment(item.Department, domain.NotifyContentRestored,
			fmt.Sprintf("%q has been restored to version %d", item.Title, versionNumber), item.ID, actorID)
	}

	return item, nil
}

// CompareVersions computes field-level diffs between two snapshots. Diffs
// follow the fixed field-set order (title, slug, body, type, status, tags).
// Values are serialized before comparison, so tag order is significant:
// reordering tags with identical membership counts as modified.
func (s *versionService) CompareVersions(contentID string, fromVersion, toVersion int) (*domain.VersionComparison, error) {
	from := s.GetVersionByNumber(contentID, fromVersion)
	if from == nil {
		return nil, common.ErrVersionNotFound
	}
	to := s.GetVersionByNumber(contentID, toVersion)
	if to == nil {
		return nil, common.ErrVersionNotFound
	}

	var diffs []domain.VersionDiff
	for _, field := range compareFields {
		oldVal, oldAbsent := snapshotField(from, field)
		newVal, newAbsent := snapshotField(to, field)
		if oldAbsent && newAbsent {
			continue
		}
		if oldVal == newVal {
			continue
		}

		change := domain.DiffModified
		switch {
		case oldAbsent:
			change = domain.DiffAdded
		case newAbsent:
			change = domain.DiffRemoved
		}
		diffs = append(diffs, domain.VersionDiff{
			Field:  field,
			Old:    oldVal,
			New:    newVal,
			Change: change,
		})
	}

	return &domain.VersionComparison{
		ContentID:   contentID,
		FromVersion: fromVersion,
		ToVersion:   toVersion,
		From:        from,
		To:          to,
		Diffs:       diffs,
		ChangeCount: len(diffs),
	}, nil
}

// GetVersionStats summarizes a content item's history. Built over the
// descending version list, so a degraded read yields zeroed stats.
func (s *versionService) GetVersionStats(contentID string) *domain.VersionStats {
	versions := s.GetVersionsByContentID(contentID)

	stats := &domain.VersionStats{TotalVersions: len(versions)}
	if len(versions) == 0 {
		return stats
	}

	authors := make(map[string]struct{})
	for _, v := range versions {
		authors[v.AuthorID] = struct{}{}
		if v.Status == domain.StatusPublished {
			stats.PublishedCount++
		}
	}
	stats.DistinctAuthor = len(authors)
	// List is version-descending: newest first, oldest last
	stats.Newest = versions[0]
	stats.Oldest = versions[len(versions)-1]
	return stats
}

// DeleteAllVersions unconditionally removes every snapshot for a content id.
// Only called as a precursor to deleting the parent item. Not reversible.
func (s *versionService) DeleteAllVersions(contentID string) error {
	return s.versions.DeleteByContentID(contentID)
}

// logActivity appends an audit entry. Audit writes are best effort: a
// failure here never rolls back the operation it describes.
func (s *versionService) logActivity(actorID, action, contentID, description string, metadata map[string]interface{}) {
	meta, err := json.Marshal(metadata)
	if err != nil {
		meta = []byte("{}")
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

// snapshotField serializes one comparable field of a snapshot and reports
// whether the value is absent (empty string, nil or empty tag list).
func snapshotField(v *domain.ContentVersion, field string) (string, bool) {
	switch field {
	case "title":
		return serializeValue(v.Title), v.Title == ""
	case "slug":
		return serializeValue(v.Slug), v.Slug == ""
	case "body":
		return serializeValue(v.Body), v.Body == ""
	case "type":
		return serializeValue(v.Type), v.Type == ""
	case "status":
		return serializeValue(v.Status), v.Status == ""
	case "tags":
		return serializeValue(v.Tags), len(v.Tags) == 0
	}
	return "", true
}

func serializeValue(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
