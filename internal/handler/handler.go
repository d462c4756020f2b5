package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parsePagination reads page/per_page query params with sane bounds
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
