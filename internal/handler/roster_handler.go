package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/domain"
	"github.com/thomaslittle/usrp-backend/internal/middleware"
	"github.com/thomaslittle/usrp-backend/internal/service"
)

// RosterHandler handles roster and user management endpoints
type RosterHandler struct {
	rosterService service.RosterService
	userService   service.UserService
}

// NewRosterHandler creates a new RosterHandler
func NewRosterHandler(rosterService service.RosterService, userService service.UserService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService, userService: userService}
}

// GetRoster godoc
// @Summary      Department roster
// @Description  Lists department members ordered by organizational rank
// @Tags         roster
// @Produce      json
// @Param        department  query  string  true  "Department id"
// @Success      200  {object}  common.APIResponse{data=[]domain.User}
// @Router       /roster [get]
func (h *RosterHandler) GetRoster(c *gin.Context) {
	department := c.Query("department")
	if department == "" {
		department = middleware.GetUserDepartment(c)
	}
	if department == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "Missing department", nil)
		return
	}

	roster, err := h.rosterService.GetRoster(c.Request.Context(), department)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load roster", err)
		return
	}
	common.Success(c, roster)
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        department  query  string  false  "Department id"
// @Success      200  {object}  common.APIResponse{data=[]domain.User}
// @Router       /users [get]
func (h *RosterHandler) ListUsers(c *gin.Context) {
	page, perPage := parsePagination(c)
	users, total, err := h.userService.List(c.Query("department"), page, perPage)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}
	common.SuccessWithMeta(c, users, common.NewMeta(page, perPage, total))
}

// GetUser godoc
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      200  {object}  common.APIResponse{data=domain.User}
// @Failure      404  {object}  common.APIResponse
// @Router       /users/{id} [get]
func (h *RosterHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "User not found", err)
		return
	}
	common.Success(c, user)
}

// UpdateUser godoc
// @Summary      Update user
// @Description  Admin mutation of role, department, rank, callsign or status
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                    true  "User id"
// @Param        request  body  domain.UpdateUserRequest  true  "Changed fields"
// @Success      200  {object}  common.APIResponse{data=domain.User}
// @Failure      403  {object}  common.APIResponse
// @Router       /users/{id} [put]
func (h *RosterHandler) UpdateUser(c *gin.Context) {
	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	actor := &domain.User{
		ID:         middleware.GetUserID(c),
		Role:       middleware.GetUserRole(c),
		Department: middleware.GetUserDepartment(c),
	}

	user, err := h.userService.Update(c.Param("id"), &req, actor)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrForbidden):
			common.ErrorResponse(c, http.StatusForbidden, "Not allowed to apply this change", err)
		case errors.Is(err, common.ErrUserNotFound):
			common.ErrorResponse(c, http.StatusNotFound, "User not found", err)
		case errors.Is(err, common.ErrInvalidInput):
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid user fields", err)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to update user", err)
		}
		return
	}
	common.Success(c, user)
}
