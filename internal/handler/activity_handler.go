package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/repository"
)

// ActivityHandler exposes the append-only audit trail to admins
type ActivityHandler struct {
	repo repository.ActivityRepository
}

func NewActivityHandler(repo repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// List godoc
// @Summary      Activity log
// @Description  Lists audit entries, newest first
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        actor_id  query  string  false  "Filter by acting user"
// @Param        action    query  string  false  "Filter by action"
// @Success      200  {object}  common.APIResponse{data=[]domain.ActivityLog}
// @Router       /activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	page, perPage := parsePagination(c)
	entries, total, err := h.repo.List(c.Query("actor_id"), c.Query("action"), page, perPage)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list activity", err)
		return
	}
	common.SuccessWithMeta(c, entries, common.NewMeta(page, perPage, total))
}

// ListForResource godoc
// @Summary      Activity for a resource
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        type  path  string  true  "Resource type"
// @Param        id    path  string  true  "Resource id"
// @Success      200  {object}  common.APIResponse{data=[]domain.ActivityLog}
// @Router       /activity/{type}/{id} [get]
func (h *ActivityHandler) ListForResource(c *gin.Context) {
	entries, err := h.repo.ListByResource(c.Param("type"), c.Param("id"), 50)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list activity", err)
		return
	}
	common.Success(c, entries)
}
