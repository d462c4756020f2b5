package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/auth"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/middleware"
	"github.com/thomaslittle/usrp-backend/internal/service"
)

// ContentHandler handles content CRUD and publish endpoints
type ContentHandler struct {
	contentService service.ContentService
	searchService  *service.SearchService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService service.ContentService, searchService *service.SearchService) *ContentHandler {
	return &ContentHandler{contentService: contentService, searchService: searchService}
}

// List godoc
// @Summary      List content
// @Description  Lists content items filtered by department, status and type
// @Tags         content
// @Produce      json
// @Param        department  query  string  false  "Department id"
// @Param        status      query  string  false  "draft or published"
// @Param        type        query  string  false  "Content type"
// @Success      200  {object}  common.APIResponse{data=[]domain.ContentItem}
// @Router       /content [get]
func (h *ContentHandler) List(c *gin.Context) {
	page, perPage := parsePagination(c)

	status := c.Query("status")
	// Anonymous and viewer requests only see published material
	if !auth.HasPermission(middleware.GetUserRole(c), domain.RoleEditor) {
		status = domain.StatusPublished
	}

	items, total, err := h.contentService.List(c.Query("department"), status, c.Query("type"), page, perPage)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list content", err)
		return
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, perPage, total))
}

// Search godoc
// @Summary      Search content
// @Description  Full-text search over titles, bodies and tags
// @Tags         content
// @Produce      json
// @Param        q           query  string  true   "Search keyword"
// @Param        department  query  string  false  "Department id"
// @Success      200  {object}  common.APIResponse{data=[]domain.ContentItem}
// @Router       /content/search [get]
func (h *ContentHandler) Search(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Missing search keyword", nil)
		return
	}

	page, perPage := parsePagination(c)
	items, total, err := h.searchService.SearchContent(c.Request.Context(), c.Query("department"), keyword, page, perPage)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Search failed", err)
		return
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, perPage, total))
}

// Get godoc
// @Summary      Get content
// @Tags         content
// @Produce      json
// @Param        id  path  string  true  "Content id"
// @Success      200  {object}  common.APIResponse{data=domain.ContentItem}
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	item, err := h.contentService.Get(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Content not found", err)
		return
	}

	if item.Status == domain.StatusDraft && !auth.CanEditContent(middleware.GetUserRole(c), middleware.GetUserDepartment(c), item.Department) {
		common.ErrorResponse(c, http.StatusNotFound, "Content not found", nil)
		return
	}

	common.Success(c, item)
}

// Create godoc
// @Summary      Create content
// @Description  Creates a content item at version 1 with its initial snapshot
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body  domain.CreateContentRequest  true  "Content fields"
// @Success      201  {object}  common.APIResponse{data=domain.ContentItem}
// @Failure      403  {object}  common.APIResponse
// @Router       /content [post]
func (h *ContentHandler) Create(c *gin.Context) {
	var req domain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	role, dept := middleware.GetUserRole(c), middleware.GetUserDepartment(c)
	if !auth.CanEditContent(role, dept, req.Department) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to create content in this department", nil)
		return
	}
	if req.Status == domain.StatusPublished && !auth.CanPublishContent(role, dept, req.Department) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to publish in this department", nil)
		return
	}

	item, err := h.contentService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid content fields", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create content", err)
		return
	}

	middleware.CountVersionWrite("create")
	common.Created(c, item)
}

// Update godoc
// @Summary      Update content
// @Description  Applies a partial update and writes a new version snapshot
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                       true  "Content id"
// @Param        request  body  domain.UpdateContentRequest  true  "Changed fields"
// @Success      200  {object}  common.APIResponse{data=domain.ContentItem}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id} [put]
func (h *ContentHandler) Update(c *gin.Context) {
	var req domain.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	item, err := h.contentService.Get(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Content not found", err)
		return
	}

	role, dept := middleware.GetUserRole(c), middleware.GetUserDepartment(c)
	if !auth.CanEditContent(role, dept, item.Department) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to edit this content", nil)
		return
	}
	// Status transitions are publish-level changes
	if req.Status != nil && *req.Status != item.Status && !auth.CanPublishContent(role, dept, item.Department) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to change publication status", nil)
		return
	}

	updated, err := h.contentService.Update(item.ID, &req, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid content fields", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update content", err)
		return
	}

	middleware.CountVersionWrite("update")
	common.Success(c, updated)
}

// Publish godoc
// @Summary      Publish content
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Content id"
// @Success      200  {object}  common.APIResponse{data=domain.ContentItem}
// @Failure      403  {object}  common.APIResponse
// @Router       /content/{id}/publish [post]
func (h *ContentHandler) Publish(c *gin.Context) {
	h.setPublication(c, true)
}

// Unpublish godoc
// @Summary      Unpublish content
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Content id"
// @Success      200  {object}  common.APIResponse{data=domain.ContentItem}
// @Failure      403  {object}  common.APIResponse
// @Router       /content/{id}/unpublish [post]
func (h *ContentHandler) Unpublish(c *gin.Context) {
	h.setPublication(c, false)
}

func (h *ContentHandler) setPublication(c *gin.Context, publish bool) {
	item, err := h.contentService.Get(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Content not found", err)
		return
	}

	if !auth.CanPublishContent(middleware.GetUserRole(c), middleware.GetUserDepartment(c), item.Department) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to publish in this department", nil)
		return
	}

	actorID := middleware.GetUserID(c)
	var updated *domain.ContentItem
	if publish {
		updated, err = h.contentService.Publish(item.ID, actorID)
	} else {
		updated, err = h.contentService.Unpublish(item.ID, actorID)
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to change publication status", err)
		return
	}

	middleware.CountVersionWrite("update")
	common.Success(c, updated)
}

// Delete godoc
// @Summary      Delete content
// @Description  Deletes a content item and its entire version history
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Content id"
// @Success      200  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /content/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	item, err := h.contentService.Get(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Content not found", err)
		return
	}

	if !auth.CanPublishContent(middleware.GetUserRole(c), middleware.GetUserDepartment(c), item.Department) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to delete this content", nil)
		return
	}

	if err := h.contentService.Delete(item.ID, middleware.GetUserID(c)); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete content", err)
		return
	}
	common.Success(c, gin.H{"message": "Content deleted"})
}
