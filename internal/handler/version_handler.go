package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/auth"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/middleware"
	"github.com/thomaslittle/usrp-backend/internal/service"
)

// VersionHandler handles content version history endpoints
type VersionHandler struct {
	versionService service.VersionService
	contentService service.ContentService
}

// NewVersionHandler creates a new VersionHandler
func NewVersionHandler(versionService service.VersionService, contentService service.ContentService) *VersionHandler {
	return &VersionHandler{versionService: versionService, contentService: contentService}
}

// List godoc
// @Summary      List versions
// @Description  Returns every version snapshot, most recent first
// @Tags         versions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Content id"
// @Success      200  {object}  common.APIResponse{data=[]domain.ContentVersion}
// @Router       /content/{id}/versions [get]
func (h *VersionHandler) List(c *gin.Context) {
	contentID := c.Param("id")
	if _, err := h.contentService.Get(contentID); err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Content not found", err)
		return
	}
	common.Success(c, h.versionService.GetVersionsByContentID(contentID))
}

// Get godoc
// @Summary      Get one version
// @Tags         versions
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string  true  "Content id"
// @Param        version  path  int     true  "Version number"
// @Success      200  {object}  common.APIResponse{data=domain.ContentVersion}
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id}/versions/{version} [get]
func (h *VersionHandler) Get(c *gin.Context) {
	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid version number", err)
		return
	}

	version := h.versionService.GetVersionByNumber(c.Param("id"), versionNumber)
	if version == nil {
		common.ErrorResponse(c, http.StatusNotFound, "Version not found", nil)
		return
	}
	common.Success(c, version)
}

// Stats godoc
// @Summary      Version statistics
// @Description  Totals, distinct authors and the oldest/newest snapshots
// @Tags         versions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Content id"
// @Success      200  {object}  common.APIResponse{data=domain.VersionStats}
// @Router       /content/{id}/versions/stats [get]
func (h *VersionHandler) Stats(c *gin.Context) {
	common.Success(c, h.versionService.GetVersionStats(c.Param("id")))
}

// Compare godoc
// @Summary      Compare versions
// @Description  Field-level diff between two version snapshots
// @Tags         versions
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true  "Content id"
// @Param        from  query  int     true  "From version"
// @Param        to    query  int     true  "To version"
// @Success      200  {object}  common.APIResponse{data=domain.VersionComparison}
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id}/versions/compare [get]
func (h *VersionHandler) Compare(c *gin.Context) {
	from, err := strconv.Atoi(c.Query("from"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid from version", err)
		return
	}
	to, err := strconv.Atoi(c.Query("to"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid to version", err)
		return
	}

	item, err := h.contentService.Get(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Content not found", err)
		return
	}
	if !auth.CanEditContent(middleware.GetUserRole(c), middleware.GetUserDepartment(c), item.Department) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to inspect this content's history", nil)
		return
	}

	comparison, err := h.versionService.CompareVersions(item.ID, from, to)
	if err != nil {
		if errors.Is(err, common.ErrVersionNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Version not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Comparison failed", err)
		return
	}
	common.Success(c, comparison)
}

// Restore godoc
// @Summary      Restore a version
// @Description  Writes the target snapshot's fields as a brand new version
// @Tags         versions
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string  true  "Content id"
// @Param        version  path  int     true  "Version number to restore"
// @Success      200  {object}  common.APIResponse{data=domain.ContentItem}
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /content/{id}/versions/{version}/restore [post]
func (h *VersionHandler) Restore(c *gin.Context) {
	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid version number", err)
		return
	}

	item, err := h.contentService.Get(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Content not found", err)
		return
	}
	if !auth.CanEditContent(middleware.GetUserRole(c), middleware.GetUserDepartment(c), item.Department) {
		common.ErrorResponse(c, http.StatusForbidden, "Not allowed to restore this content", nil)
		return
	}

	restored, err := h.versionService.RestoreVersion(item.ID, versionNumber, middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, common.ErrVersionNotFound) || errors.Is(err, common.ErrContentNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Version not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Restore failed", err)
		return
	}

	middleware.CountVersionWrite("restore")
	common.Success(c, restored)
}
