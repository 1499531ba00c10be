package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/questforge/gamification/internal/bootstrap"
	"github.com/questforge/gamification/internal/modules/achievement/dto"
	achievementService "github.com/questforge/gamification/internal/modules/achievement/service"
	"github.com/questforge/gamification/pkg/response"
	"github.com/questforge/gamification/pkg/validator"
)

type AchievementHandler struct {
	service achievementService.AchievementService
	db      *gorm.DB
}

func NewAchievementHandler(service achievementService.AchievementService, db *gorm.DB) *AchievementHandler {
	return &AchievementHandler{service: service, db: db}
}

// HandleTaskCompleted is the webhook the tasks service calls once per status
// transition to Completed.
func (h *AchievementHandler) HandleTaskCompleted(c *gin.Context) {
	var req dto.TaskCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	unlocked, err := h.service.CheckTaskAchievements(c.Request.Context(), userID, req.ToEvent())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"unlocked_achievements": unlocked,
	})
}

func (h *AchievementHandler) GetUserAchievements(c *gin.Context) {
	userID, err := response.ParseUserIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	achievements, err := h.service.GetUserAchievements(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"achievements": achievements,
	})
}

func (h *AchievementHandler) GetUserStats(c *gin.Context) {
	userID, err := response.ParseUserIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	stats, err := h.service.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// InitializeAchievements re-runs the catalog upsert. Safe to call repeatedly;
// existing keys are left untouched.
func (h *AchievementHandler) InitializeAchievements(c *gin.Context) {
	if err := bootstrap.SeedAchievements(h.db); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Achievements initialized successfully",
	})
}
