package service

import (
	"sort"
	"sync"

	"github.com/thomaslittle/usrp-backend/internal/domain"
	"gorm.io/gorm"
)

// In-memory repository fakes. Error fields let individual tests inject
// infrastructure failures on specific operations.

type fakeContentRepo struct {
	mu    sync.Mutex
	items map[string]*domain.ContentItem

	createErr error
	updateErr error
	deleteErr error
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{items: make(map[string]*domain.ContentItem)}
}

func (r *fakeContentRepo) Create(item *domain.ContentItem) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeContentRepo) FindByID(id string) (*domain.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeContentRepo) FindBySlug(department, slug string) (*domain.ContentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.Department == department && item.Slug == slug {
			copied := *item
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeContentRepo) List(department, status, contentType string, page, perPage int) ([]*domain.ContentItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ContentItem
	for _, item := range r.items {
		if department != "" && item.Department != department {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		if contentType != "" && item.Type != contentType {
			continue
		}
		copied := *item
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeContentRepo) Search(department, keyword string, page, perPage int) ([]*domain.ContentItem, int64, error) {
	return r.List(department, "", "", page, perPage)
}

func (r *fakeContentRepo) Update(item *domain.ContentItem) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeContentRepo) Delete(id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type fakeVersionRepo struct {
	mu       sync.Mutex
	nextID   uint64
	versions []*domain.ContentVersion

	createErr error
	findErr   error
	deleteErr error
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{}
}

func (r *fakeVersionRepo) Create(version *domain.ContentVersion) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	version.ID = r.nextID
	copied := *version
	r.versions = append(r.versions, &copied)
	return nil
}

func (r *fakeVersionRepo) FindByContentID(contentID string) ([]*domain.ContentVersion, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ContentVersion
	for _, v := range r.versions {
		if v.ContentID == contentID {
			copied := *v
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (r *fakeVersionRepo) FindByContentIDAndVersion(contentID string, version int) (*domain.ContentVersion, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		if v.ContentID == contentID && v.Version == version {
			copied := *v
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeVersionRepo) FindCurrent(contentID string) (*domain.ContentVersion, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		if v.ContentID == contentID && v.IsCurrentVersion {
			copied := *v
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeVersionRepo) SetCurrentFlag(id uint64, current bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions {
		if v.ID == id {
			v.IsCurrentVersion = current
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeVersionRepo) DeleteByContentID(contentID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.versions[:0]
	for _, v := range r.versions {
		if v.ContentID != contentID {
			kept = append(kept, v)
		}
	}
	r.versions = kept
	return nil
}

// currentCount reports how many snapshots of a content id carry the
// current flag. Exactly one is the expected steady state.
func (r *fakeVersionRepo) currentCount(contentID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, v := range r.versions {
		if v.ContentID == contentID && v.IsCurrentVersion {
			count++
		}
	}
	return count
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*domain.ActivityLog

	createErr error
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{}
}

func (r *fakeActivityRepo) Create(entry *domain.ActivityLog) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeActivityRepo) List(actorID, action string, page, perPage int) ([]*domain.ActivityLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ActivityLog
	for _, e := range r.entries {
		if actorID != "" && e.ActorID != actorID {
			continue
		}
		if action != "" && e.Action != action {
			continue
		}
		copied := *e
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeActivityRepo) ListByResource(resourceType, resourceID string, limit int) ([]*domain.ActivityLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ActivityLog
	for _, e := range r.entries {
		if e.ResourceType == resourceType && e.ResourceID == resourceID {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type notifyCall struct {
	Department    string
	Type          string
	Message       string
	ResourceID    string
	ExcludeUserID string
}

// fakeNotifier records NotifyDepartment calls; the read methods are inert.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{}
}

func (n *fakeNotifier) NotifyDepartment(department, notifyType, message, resourceID, excludeUserID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{
		Department:    department,
		Type:          notifyType,
		Message:       message,
		ResourceID:    resourceID,
		ExcludeUserID: excludeUserID,
	})
}

func (n *fakeNotifier) ListForUser(string, int, int) ([]*domain.Notification, int64, error) {
	return nil, 0, nil
}

func (n *fakeNotifier) MarkRead(uint64, string) error { return nil }

func (n *fakeNotifier) UnreadCount(string) (int64, error) { return 0, nil }
