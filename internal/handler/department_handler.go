package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/repository"
)

type DepartmentHandler struct {
	repo repository.DepartmentRepository
}

func NewDepartmentHandler(repo repository.DepartmentRepository) *DepartmentHandler {
	return &DepartmentHandler{repo: repo}
}

// List godoc
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Success      200  {object}  common.APIResponse{data=[]domain.Department}
// @Router       /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.repo.List()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list departments", err)
		return
	}
	common.Success(c, departments)
}

// Get godoc
// @Summary      Get department
// @Tags         departments
// @Produce      json
// @Param        id  path  string  true  "Department id"
// @Success      200  {object}  common.APIResponse{data=domain.Department}
// @Failure      404  {object}  common.APIResponse
// @Router       /departments/{id} [get]
func (h *DepartmentHandler) Get(c *gin.Context) {
	dept, err := h.repo.FindByID(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "Department not found", err)
		return
	}
	common.Success(c, dept)
}
