package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/handler"
	"github.com/thomaslittle/usrp-backend/internal/repository"
	"github.com/thomaslittle/usrp-backend/internal/routes"
	"github.com/thomaslittle/usrp-backend/internal/service"
	"github.com/thomaslittle/usrp-backend/pkg/jwt"
)

// APISuite drives the full HTTP surface against an in-memory SQLite
// database. Cache, search index and notifications run disabled, the same
// degraded mode the server falls back to without Redis and Elasticsearch.
type APISuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	editorToken string
	adminToken  string
	viewerToken string
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	s.Require().NoError(err)
	s.db = db

	// Raw DDL: the MySQL models carry enum column types SQLite cannot parse
	for _, ddl := range []string{
		`CREATE TABLE users (
			id VARCHAR(36) PRIMARY KEY, username VARCHAR(50) UNIQUE,
			email VARCHAR(255) UNIQUE, password VARCHAR(255),
			role TEXT DEFAULT 'viewer', department VARCHAR(50), rank VARCHAR(50),
			callsign VARCHAR(20), status TEXT DEFAULT 'active',
			created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE departments (
			id VARCHAR(50) PRIMARY KEY, name VARCHAR(100),
			description TEXT, created_at DATETIME)`,
		`CREATE TABLE content (
			id VARCHAR(36) PRIMARY KEY, department VARCHAR(50), title VARCHAR(255),
			slug VARCHAR(255), body TEXT, type TEXT, status TEXT DEFAULT 'draft',
			tags TEXT, author_id VARCHAR(36), version INTEGER DEFAULT 1,
			published_at DATETIME, created_at DATETIME, updated_at DATETIME)`,
		`CREATE TABLE content_versions (
			id INTEGER PRIMARY KEY AUTOINCREMENT, content_id VARCHAR(36),
			version INTEGER, title VARCHAR(255), slug VARCHAR(255), body TEXT,
			type TEXT, status TEXT, tags TEXT, author_id VARCHAR(36),
			is_current_version BOOLEAN DEFAULT 0, changes_summary VARCHAR(500),
			published_at DATETIME, created_at DATETIME)`,
		`CREATE TABLE activity_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT, actor_id VARCHAR(36),
			action VARCHAR(50), resource_type VARCHAR(50), resource_id VARCHAR(36),
			description VARCHAR(500), metadata TEXT, created_at DATETIME)`,
		`CREATE TABLE notifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT, user_id VARCHAR(36),
			type VARCHAR(50), message VARCHAR(500), resource_id VARCHAR(36),
			is_read BOOLEAN DEFAULT 0, created_at DATETIME)`,
	} {
		s.Require().NoError(db.Exec(ddl).Error)
	}

	jwtManager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)

	userRepo := repository.NewUserRepository(db)
	contentRepo := repository.NewContentRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	searchService := service.NewSearchService(nil, contentRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	versionService := service.NewVersionService(versionRepo, contentRepo, activityRepo, notificationService)
	contentService := service.NewContentService(contentRepo, versionService, activityRepo, nil, searchService, notificationService)
	authService := service.NewAuthService(userRepo, jwtManager)
	rosterService := service.NewRosterService(userRepo, nil)
	userService := service.NewUserService(userRepo, rosterService)

	router := gin.New()
	routes.Setup(
		router,
		handler.NewAuthHandler(authService),
		handler.NewContentHandler(contentService, searchService),
		handler.NewVersionHandler(versionService, contentService),
		handler.NewRosterHandler(rosterService, userService),
		handler.NewDepartmentHandler(departmentRepo),
		handler.NewActivityHandler(activityRepo),
		handler.NewNotificationHandler(notificationService),
		handler.NewRadioHandler(),
		jwtManager,
	)
	s.router = router

	s.seedUser("editor-1", "ems-editor", domain.RoleEditor, "ems", "Captain")
	s.seedUser("admin-1", "ems-admin", domain.RoleAdmin, "ems", "Chief")
	s.seedUser("viewer-1", "ems-viewer", domain.RoleViewer, "ems", "EMT")

	s.editorToken = s.mustToken(jwtManager, "editor-1", "ems-editor", domain.RoleEditor, "ems", "Captain")
	s.adminToken = s.mustToken(jwtManager, "admin-1", "ems-admin", domain.RoleAdmin, "ems", "Chief")
	s.viewerToken = s.mustToken(jwtManager, "viewer-1", "ems-viewer", domain.RoleViewer, "ems", "EMT")
}

func (s *APISuite) seedUser(id, username, role, department, rank string) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.Require().NoError(s.db.Create(&domain.User{
		ID:         id,
		Username:   username,
		Email:      username + "@usrp.local",
		Password:   string(hash),
		Role:       role,
		Department: department,
		Rank:       rank,
		Status:     "active",
	}).Error)
}

func (s *APISuite) mustToken(m *jwt.Manager, id, username, role, department, rank string) string {
	token, err := m.GenerateToken(id, username, role, department, rank)
	s.Require().NoError(err)
	return token
}

func (s *APISuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) decodeData(w *httptest.ResponseRecorder, out interface{}) {
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &envelope))
	s.Require().True(envelope.Success, "body: %s", w.Body.String())
	s.Require().NoError(json.Unmarshal(envelope.Data, out))
}

func (s *APISuite) createDraft(token string) domain.ContentItem {
	w := s.do(http.MethodPost, "/api/v1/content", token, gin.H{
		"department": "ems",
		"title":      "Airway Management",
		"slug":       "airway-management",
		"body":       "Check the airway first.",
		"type":       "sop",
		"tags":       []string{"airway", "basics"},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var item domain.ContentItem
	s.decodeData(w, &item)
	return item
}

func (s *APISuite) TestLoginAndMe() {
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "ems-editor",
		"password": "password",
	})
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	s.decodeData(w, &resp)
	s.NotEmpty(resp.AccessToken)

	me := s.do(http.MethodGet, "/api/v1/auth/me", resp.AccessToken, nil)
	s.Equal(http.StatusOK, me.Code)
	s.Contains(me.Body.String(), "ems-editor")
}

func (s *APISuite) TestLoginRejectsBadPassword() {
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "ems-editor",
		"password": "wrong",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestContentLifecycle() {
	item := s.createDraft(s.editorToken)
	s.Equal(1, item.Version)
	s.Equal(domain.StatusDraft, item.Status)

	// Drafts are invisible to anonymous readers
	w := s.do(http.MethodGet, "/api/v1/content/"+item.ID, "", nil)
	s.Equal(http.StatusNotFound, w.Code)

	// But visible to a same-department editor
	w = s.do(http.MethodGet, "/api/v1/content/"+item.ID, s.editorToken, nil)
	s.Equal(http.StatusOK, w.Code)

	// Editors cannot publish
	w = s.do(http.MethodPost, "/api/v1/content/"+item.ID+"/publish", s.editorToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	// Admins can
	w = s.do(http.MethodPost, "/api/v1/content/"+item.ID+"/publish", s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	var published domain.ContentItem
	s.decodeData(w, &published)
	s.Equal(2, published.Version)
	s.Equal(domain.StatusPublished, published.Status)
	s.NotNil(published.PublishedAt)

	// Now anonymous readers can see it
	w = s.do(http.MethodGet, "/api/v1/content/"+item.ID, "", nil)
	s.Equal(http.StatusOK, w.Code)

	// Viewers cannot delete, admins can
	w = s.do(http.MethodDelete, "/api/v1/content/"+item.ID, s.viewerToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
	w = s.do(http.MethodDelete, "/api/v1/content/"+item.ID, s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/content/"+item.ID+"/versions", s.editorToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestVersionHistoryAndRestore() {
	item := s.createDraft(s.editorToken)

	for i := 2; i <= 3; i++ {
		w := s.do(http.MethodPut, "/api/v1/content/"+item.ID, s.editorToken, gin.H{
			"title":           fmt.Sprintf("Airway Management r%d", i),
			"changes_summary": fmt.Sprintf("Revision %d", i),
		})
		s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}

	w := s.do(http.MethodGet, "/api/v1/content/"+item.ID+"/versions", s.editorToken, nil)
	s.Equal(http.StatusOK, w.Code)
	var versions []domain.ContentVersion
	s.decodeData(w, &versions)
	s.Require().Len(versions, 3)
	s.Equal(3, versions[0].Version)
	s.True(versions[0].IsCurrentVersion)
	s.False(versions[1].IsCurrentVersion)

	// Compare v1 to v3: only the title changed
	w = s.do(http.MethodGet, "/api/v1/content/"+item.ID+"/versions/compare?from=1&to=3", s.editorToken, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	var cmp domain.VersionComparison
	s.decodeData(w, &cmp)
	s.Equal(1, cmp.ChangeCount)
	s.Require().Len(cmp.Diffs, 1)
	s.Equal("title", cmp.Diffs[0].Field)
	s.Equal(domain.DiffModified, cmp.Diffs[0].Change)

	// Restore v1: new version 4 carrying v1's fields
	w = s.do(http.MethodPost, "/api/v1/content/"+item.ID+"/versions/1/restore", s.editorToken, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
	var restored domain.ContentItem
	s.decodeData(w, &restored)
	s.Equal(4, restored.Version)
	s.Equal("Airway Management", restored.Title)

	w = s.do(http.MethodGet, "/api/v1/content/"+item.ID+"/versions/4", s.editorToken, nil)
	s.Equal(http.StatusOK, w.Code)
	var v4 domain.ContentVersion
	s.decodeData(w, &v4)
	s.Equal("Restored from version 1", v4.ChangesSummary)
	s.True(v4.IsCurrentVersion)

	var current int64
	s.Require().NoError(s.db.Model(&domain.ContentVersion{}).
		Where("content_id = ? AND is_current_version = ?", item.ID, true).
		Count(&current).Error)
	s.Equal(int64(1), current)

	// Stats reflect the whole history
	w = s.do(http.MethodGet, "/api/v1/content/"+item.ID+"/versions/stats", s.editorToken, nil)
	s.Equal(http.StatusOK, w.Code)
	var stats domain.VersionStats
	s.decodeData(w, &stats)
	s.Equal(4, stats.TotalVersions)
}

func (s *APISuite) TestRestoreUnknownVersion() {
	item := s.createDraft(s.editorToken)
	w := s.do(http.MethodPost, "/api/v1/content/"+item.ID+"/versions/9/restore", s.editorToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestViewerCannotRestore() {
	item := s.createDraft(s.editorToken)
	w := s.do(http.MethodPost, "/api/v1/content/"+item.ID+"/versions/1/restore", s.viewerToken, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APISuite) TestCrossDepartmentEditForbidden() {
	item := s.createDraft(s.editorToken)

	w := s.do(http.MethodPost, "/api/v1/content", s.editorToken, gin.H{
		"department": "pd",
		"title":      "Pursuit Policy",
		"slug":       "pursuit-policy",
		"type":       "policy",
	})
	s.Equal(http.StatusForbidden, w.Code)

	title := "Hijacked"
	w = s.do(http.MethodPut, "/api/v1/content/"+item.ID, s.mustCrossDeptToken(), gin.H{"title": title})
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APISuite) mustCrossDeptToken() string {
	m := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	return s.mustToken(m, "pd-editor", "pd-editor", domain.RoleEditor, "pd", "Captain")
}

func (s *APISuite) TestRosterOrderedByRank() {
	w := s.do(http.MethodGet, "/api/v1/roster?department=ems", "", nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	var roster []domain.User
	s.decodeData(w, &roster)
	s.Require().Len(roster, 3)
	s.Equal("Chief", roster[0].Rank)
	s.Equal("Captain", roster[1].Rank)
	s.Equal("EMT", roster[2].Rank)
}

func (s *APISuite) TestActivityLogRequiresAdmin() {
	item := s.createDraft(s.editorToken)
	_ = item

	w := s.do(http.MethodGet, "/api/v1/activity", s.editorToken, nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/v1/activity", s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), domain.ActionContentCreated)
}

func (s *APISuite) TestRadioTranslate() {
	w := s.do(http.MethodPost, "/api/v1/radio/translate", "", gin.H{
		"text": "copy that, en route to the scene",
	})
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "10-4")
	s.Contains(w.Body.String(), "10-76")

	w = s.do(http.MethodGet, "/api/v1/radio/codes/10-4", "", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/radio/codes/10-0", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestListHidesDraftsFromViewers() {
	s.createDraft(s.editorToken)

	w := s.do(http.MethodGet, "/api/v1/content?department=ems", s.viewerToken, nil)
	s.Equal(http.StatusOK, w.Code)
	var items []domain.ContentItem
	s.decodeData(w, &items)
	s.Empty(items)

	w = s.do(http.MethodGet, "/api/v1/content?department=ems", s.editorToken, nil)
	s.Equal(http.StatusOK, w.Code)
	s.decodeData(w, &items)
	s.Len(items, 1)
}

func (s *APISuite) TestNotificationsOnPublish() {
	item := s.createDraft(s.editorToken)

	w := s.do(http.MethodPost, "/api/v1/content/"+item.ID+"/publish", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	// Everyone active in the department except the actor gets notified
	w = s.do(http.MethodGet, "/api/v1/notifications", s.editorToken, nil)
	s.Equal(http.StatusOK, w.Code)
	var notifications []domain.Notification
	s.decodeData(w, &notifications)
	s.Require().NotEmpty(notifications)

	w = s.do(http.MethodGet, "/api/v1/notifications/unread-count", s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"unread":0`)
}

func (s *APISuite) TestNotificationsOnRestore() {
	item := s.createDraft(s.editorToken)

	update := map[string]interface{}{"title": "Revised title", "changes_summary": "Edited"}
	w := s.do(http.MethodPut, "/api/v1/content/"+item.ID, s.editorToken, update)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/content/"+item.ID+"/versions/1/restore", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	// Department members other than the restoring admin get notified
	w = s.do(http.MethodGet, "/api/v1/notifications", s.editorToken, nil)
	s.Equal(http.StatusOK, w.Code)
	var notifications []domain.Notification
	s.decodeData(w, &notifications)
	s.Require().NotEmpty(notifications)
	var restored bool
	for _, n := range notifications {
		if n.Type == domain.NotifyContentRestored {
			restored = true
			s.Equal(item.ID, n.ResourceID)
		}
	}
	s.True(restored)

	// The admin who restored is excluded from the fanout
	w = s.do(http.MethodGet, "/api/v1/notifications/unread-count", s.adminToken, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"unread":0`)
}
