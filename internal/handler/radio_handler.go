package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thomaslittle/usrp-backend/internal/common"
	"github.com/thomaslittle/usrp-backend/internal/radio"
)

// RadioHandler translates plain-language radio traffic into ten-codes
type RadioHandler struct{}

func NewRadioHandler() *RadioHandler {
	return &RadioHandler{}
}

type translateRequest struct {
	Text string `json:"text" binding:"required"`
}

// Translate godoc
// @Summary      Translate radio traffic
// @Description  Maps plain-language phrases in the input to their ten-codes
// @Tags         radio
// @Accept       json
// @Produce      json
// @Param        request  body  translateRequest  true  "Text to translate"
// @Success      200  {object}  common.APIResponse{data=radio.Translation}
// @Router       /radio/translate [post]
func (h *RadioHandler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	common.Success(c, radio.Translate(req.Text))
}

// Lookup godoc
// @Summary      Look up a ten-code
// @Tags         radio
// @Produce      json
// @Param        code  path  string  true  "Ten-code, e.g. 10-4"
// @Success      200  {object}  common.APIResponse{data=radio.Code}
// @Failure      404  {object}  common.APIResponse
// @Router       /radio/codes/{code} [get]
func (h *RadioHandler) Lookup(c *gin.Context) {
	code, ok := radio.Lookup(c.Param("code"))
	if !ok {
		common.ErrorResponse(c, http.StatusNotFound, "Unknown code", nil)
		return
	}
	common.Success(c, code)
}
