package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/middleware"
	"github.com/thomaslittle/usrp-backend/internal/service"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List godoc
// @Summary      My notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=[]domain.Notification}
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	page, perPage := parsePagination(c)
	items, total, err := h.service.ListForUser(middleware.GetUserID(c), page, perPage)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}
	common.SuccessWithMeta(c, items, common.NewMeta(page, perPage, total))
}

// UnreadCount godoc
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to count notifications", err)
		return
	}
	common.Success(c, gin.H{"unread": count})
}

// MarkRead godoc
// @Summary      Mark notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Notification id"
// @Success      200  {object}  common.APIResponse
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid notification id", err)
		return
	}
	if err := h.service.MarkRead(id, middleware.GetUserID(c)); err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to mark notification read", err)
		return
	}
	common.Success(c, gin.H{"read": true})
}
