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

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary      Log in
// @Description  Authenticates a user and returns access and refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  domain.LoginRequest  true  "Credentials"
// @Success      200  {object}  common.APIResponse{data=service.LoginResponse}
// @Failure      401  {object}  common.APIResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	resp, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid username or password", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	common.Success(c, resp)
}

// GetMe godoc
// @Summary      Current user
// @Description  Returns the authenticated user's record
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.APIResponse{data=domain.User}
// @Failure      404  {object}  common.APIResponse
// @Router       /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.authService.GetUser(middleware.GetUserID(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "User not found", err)
		return
	}
	common.Success(c, user)
}
