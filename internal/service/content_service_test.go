package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/domain"
)

type contentFixture struct {
	content  *fakeContentRepo
	versions *fakeVersionRepo
	activity *fakeActivityRepo
	svc      ContentService
	verSvc   VersionService
}

func newContentFixture() *contentFixture {
	content := newFakeContentRepo()
	versions := newFakeVersionRepo()
	activity := newFakeActivityRepo()
	verSvc := NewVersionService(versions, content, activity, nil)
	svc := NewContentService(content, verSvc, activity, nil, nil, nil)
	return &contentFixture{
		content:  content,
		versions: versions,
		activity: activity,
		svc:      svc,
		verSvc:   verSvc,
	}
}

func TestCreate_WritesInitialVersion(t *testing.T) {
	f := newContentFixture()

	item, err := f.svc.Create(&domain.CreateContentRequest{
		Department: "ems",
		Title:      "Airway Management",
		Slug:       "airway-management",
		Body:       "Check the airway first.",
		Type:       domain.TypeSOP,
		Tags:       []string{"airway", "basics", "airway"},
	}, "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 1, item.Version)
	assert.Equal(t, domain.StatusDraft, item.Status)
	assert.Nil(t, item.PublishedAt)
	assert.Equal(t, []string{"airway", "basics"}, item.Tags)

	initial := f.verSvc.GetVersionByNumber(item.ID, 1)
	require.NotNil(t, initial)
	assert.Equal(t, "Initial version", initial.ChangesSummary)
	assert.True(t, initial.IsCurrentVersion)
	assert.Equal(t, "user-1", initial.AuthorID)

	assert.Contains(t, f.activity.actions(), domain.ActionContentCreated)
}

func TestCreate_PublishedAtCreation(t *testing.T) {
	f := newContentFixture()

	item, err := f.svc.Create(&domain.CreateContentRequest{
		Department: "ems",
		Title:      "Notice",
		Slug:       "notice",
		Type:       domain.TypeAnnouncement,
		Status:     domain.StatusPublished,
	}, "user-1")
	require.NoError(t, err)
	require.NotNil(t, item.PublishedAt)

	initial := f.verSvc.GetVersionByNumber(item.ID, 1)
	require.NotNil(t, initial)
	assert.Equal(t, item.PublishedAt.Unix(), initial.PublishedAt.Unix())
}

func TestCreate_RejectsInvalidTypeAndStatus(t *testing.T) {
	f := newContentFixture()

	_, err := f.svc.Create(&domain.CreateContentRequest{
		Department: "ems", Title: "X", Slug: "x", Type: "wiki",
	}, "user-1")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = f.svc.Create(&domain.CreateContentRequest{
		Department: "ems", Title: "X", Slug: "x", Type: domain.TypeGuide, Status: "archived",
	}, "user-1")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestUpdate_IncrementsVersionAndSnapshotsFullState(t *testing.T) {
	f := newContentFixture()
	item, err := f.svc.Create(&domain.CreateContentRequest{
		Department: "ems",
		Title:      "Triage",
		Slug:       "triage",
		Body:       "v1 body",
		Type:       domain.TypeSOP,
		Tags:       []string{"triage"},
	}, "user-1")
	require.NoError(t, err)

	title := "Triage Protocol"
	updated, err := f.svc.Update(item.ID, &domain.UpdateContentRequest{
		Title:          &title,
		ChangesSummary: "Renamed",
	}, "user-2")
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "Triage Protocol", updated.Title)

	// Untouched fields are snapshotted too
	v2 := f.verSvc.GetVersionByNumber(item.ID, 2)
	require.NotNil(t, v2)
	assert.Equal(t, "v1 body", v2.Body)
	assert.Equal(t, []string{"triage"}, v2.Tags)
	assert.Equal(t, "Renamed", v2.ChangesSummary)
	assert.Equal(t, "user-2", v2.AuthorID)

	assert.Equal(t, 1, f.versions.currentCount(item.ID))
	current := f.verSvc.GetCurrentVersion(item.ID)
	require.NotNil(t, current)
	assert.Equal(t, 2, current.Version)
}

func TestUpdate_PublishStampsTimestampOnce(t *testing.T) {
	f := newContentFixture()
	item, err := f.svc.Create(&domain.CreateContentRequest{
		Department: "ems", Title: "SOP", Slug: "sop", Type: domain.TypeSOP,
	}, "user-1")
	require.NoError(t, err)

	published, err := f.svc.Publish(item.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	firstStamp := *published.PublishedAt

	// A later edit while published keeps the original timestamp
	body := "revised"
	edited, err := f.svc.Update(item.ID, &domain.UpdateContentRequest{Body: body}, "user-1")
	require.NoError(t, err)
	require.NotNil(t, edited.PublishedAt)
	assert.Equal(t, firstStamp, *edited.PublishedAt)

	// Unpublish clears it; republish stamps fresh
	drafted, err := f.svc.Unpublish(item.ID, "user-1")
	require.NoError(t, err)
	assert.Nil(t, drafted.PublishedAt)

	republished, err := f.svc.Publish(item.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, republished.PublishedAt)
	assert.Equal(t, 5, republished.Version)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newContentFixture()
	title := "X"
	_, err := f.svc.Update("missing", &domain.UpdateContentRequest{Title: &title}, "user-1")
	assert.ErrorIs(t, err, common.ErrContentNotFound)
}

func TestDelete_RemovesVersionsBeforeItem(t *testing.T) {
	f := newContentFixture()
	item, err := f.svc.Create(&domain.CreateContentRequest{
		Department: "ems", Title: "Old SOP", Slug: "old-sop", Type: domain.TypeSOP,
	}, "user-1")
	require.NoError(t, err)
	_, err = f.svc.Publish(item.ID, "user-1")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(item.ID, "user-1"))

	_, err = f.svc.Get(item.ID)
	assert.ErrorIs(t, err, common.ErrContentNotFound)
	assert.Empty(t, f.verSvc.GetVersionsByContentID(item.ID))
	assert.Contains(t, f.activity.actions(), domain.ActionContentDeleted)
}

func TestDelete_InterruptedVersionDeleteLeavesItemIntact(t *testing.T) {
	f := newContentFixture()
	item, err := f.svc.Create(&domain.CreateContentRequest{
		Department: "ems", Title: "SOP", Slug: "sop", Type: domain.TypeSOP,
	}, "user-1")
	require.NoError(t, err)

	f.versions.deleteErr = errors.New("disk full")
	err = f.svc.Delete(item.ID, "user-1")
	require.Error(t, err)

	// The item survives; only the snapshot delete failed
	got, err := f.svc.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, got.ID)
}

func TestDelete_ActivityFailureDoesNotBlock(t *testing.T) {
	f := newContentFixture()
	item, err := f.svc.Create(&domain.CreateContentRequest{
		Department: "ems", Title: "SOP", Slug: "sop", Type: domain.TypeSOP,
	}, "user-1")
	require.NoError(t, err)

	f.activity.createErr = errors.New("unavailable")
	assert.NoError(t, f.svc.Delete(item.ID, "user-1"))
}

func TestNormalizeBody(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string passthrough", "plain text", "plain text"},
		{"object to json", map[string]interface{}{"blocks": []interface{}{"a"}}, `{"blocks":["a"]}`},
		{"number to json", 42.0, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBody(tt.in))
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Nil(t, NormalizeTags(nil))
	assert.Equal(t, []string{}, NormalizeTags([]string{}))
	assert.Equal(t, []string{"b", "a", "c"}, NormalizeTags([]string{"b", "a", "b", "c", "a"}))
}

// Two concurrent editors read counter 1 and both write version 2. The
// second writer silently doubles the number; exactly this duplication is
// the accepted cost of having no conditional write on the counter.
func TestUpdate_ConcurrentWritersProduceDuplicateVersionNumbers(t *testing.T) {
	f := newContentFixture()
	item, err := f.svc.Create(&domain.CreateContentRequest{
		Department: "ems", Title: "SOP", Slug: "sop", Type: domain.TypeSOP,
	}, "user-1")
	require.NoError(t, err)

	// Simulate both writers having read version 1 by applying the second
	// update against a stale copy written back to the repository.
	titleA := "Writer A"
	_, err = f.svc.Update(item.ID, &domain.UpdateContentRequest{Title: &titleA}, "user-a")
	require.NoError(t, err)

	stale := *item // still at version 1
	require.NoError(t, f.content.Update(&stale))

	titleB := "Writer B"
	_, err = f.svc.Update(item.ID, &domain.UpdateContentRequest{Title: &titleB}, "user-b")
	require.NoError(t, err)

	dupes := 0
	for _, v := range f.verSvc.GetVersionsByContentID(item.ID) {
		if v.Version == 2 {
			dupes++
		}
	}
	assert.Equal(t, 2, dupes)
}
