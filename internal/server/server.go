package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/questforge/gamification/internal/config"
	"github.com/questforge/gamification/internal/middleware"
	"github.com/questforge/gamification/pkg/rewards"

	achievementHttp "github.com/questforge/gamification/internal/modules/achievement/delivery/http"
	achievementRepo "github.com/questforge/gamification/internal/modules/achievement/repository"
	achievementService "github.com/questforge/gamification/internal/modules/achievement/service"

	progressHttp "github.com/questforge/gamification/internal/modules/progress/delivery/http"
	progressService "github.com/questforge/gamification/internal/modules/progress/service"

	taskRepo "github.com/questforge/gamification/internal/modules/task/repository"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	rewardsNotifier := rewards.NewHTTPNotifier(cfg.RewardsServiceURL)

	// Achievement module
	catalogRepository := achievementRepo.NewAchievementRepository(db)
	unlockRepository := achievementRepo.NewUnlockRepository(db)
	achievementSvc := achievementService.NewAchievementService(catalogRepository, unlockRepository, rewardsNotifier, redisClient)
	achievementHandler := achievementHttp.NewAchievementHandler(achievementSvc, db)

	// Progress module
	taskRepository := taskRepo.NewTaskRepository(db)
	progressSvc := progressService.NewProgressService(taskRepository, redisClient, cfg.ProgressCacheTTL)
	progressHandler := progressHttp.NewProgressHandler(progressSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret, cfg.WebhookSecret)

	api := router.Group("/api")

	// Service-to-service webhook (shared secret, not a user token)
	webhook := api.Group("/achievements/webhook")
	webhook.Use(authMiddleware.RequireServiceToken())
	{
		webhook.POST("/task-completed", achievementHandler.HandleTaskCompleted)
	}

	// Query surface (user-facing, behind auth)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/achievements/user/:user_id", achievementHandler.GetUserAchievements)
		protected.GET("/achievements/user/:user_id/stats", achievementHandler.GetUserStats)
		protected.GET("/progress/:user_id", progressHandler.GetProgress)

		protected.POST("/admin/achievements/initialize", achievementHandler.InitializeAchievements)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Service-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
