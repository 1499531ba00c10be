package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	progressService "github.com/questforge/gamification/internal/modules/progress/service"
	"github.com/questforge/gamification/pkg/response"
)

type ProgressHandler struct {
	service progressService.ProgressService
}

func NewProgressHandler(service progressService.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, err := response.ParseUserIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	report, err := h.service.GetProgress(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   report,
	})
}
