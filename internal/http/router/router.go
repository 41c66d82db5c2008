package router

import (
	"github.com/gin-gonic/gin"

	"github.com/proposalflow/backend/internal/config"
	"github.com/proposalflow/backend/internal/http/handlers"
	"github.com/proposalflow/backend/internal/http/middleware"
	"github.com/proposalflow/backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	proposalHandler *handlers.ProposalHandler,
	assistantHandler *handlers.AssistantHandler,
	documentHandler *handlers.DocumentHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
		api.GET("/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// WebSocket авторизуется токеном в query, минуя заголовки.
	api.GET("/ws/proposals/:id", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/proposals", proposalHandler.List)
		protected.POST("/proposals", proposalHandler.Create)
		protected.GET("/proposals/stats", proposalHandler.Stats)
		protected.GET("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Get)
		protected.PATCH("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Update)
		protected.DELETE("/proposals/:id", middleware.UUIDValidator("id"), proposalHandler.Delete)
		protected.POST("/proposals/:id/duplicate", middleware.UUIDValidator("id"), proposalHandler.Duplicate)
		protected.POST("/proposals/:id/win-probability", middleware.UUIDValidator("id"), proposalHandler.RecalculateWinProbability)
		protected.PUT("/proposals/:id/sections/:sectionId", middleware.UUIDValidator("id"), middleware.UUIDValidator("sectionId"), proposalHandler.UpdateSection)
		protected.POST("/proposals/:id/collaborators", middleware.UUIDValidator("id"), proposalHandler.AddCollaborator)
		protected.DELETE("/proposals/:id/collaborators/:userId", middleware.UUIDValidator("id"), middleware.UUIDValidator("userId"), proposalHandler.RemoveCollaborator)
		protected.GET("/proposals/:id/documents", middleware.UUIDValidator("id"), documentHandler.ListByProposal)

		protected.POST("/documents", documentHandler.Upload)
		protected.GET("/documents/:id", middleware.UUIDValidator("id"), documentHandler.Get)
		protected.POST("/documents/:id/attach", middleware.UUIDValidator("id"), documentHandler.Attach)
		protected.DELETE("/documents/:id", middleware.UUIDValidator("id"), documentHandler.Delete)

		protected.GET("/assistant/welcome", assistantHandler.Welcome)
		protected.GET("/assistant/tips", assistantHandler.Tips)
		protected.POST("/assistant/chat", assistantHandler.Chat)
		protected.POST("/assistant/suggestions", assistantHandler.Suggest)
		protected.POST("/assistant/enhance", assistantHandler.Enhance)
		protected.POST("/assistant/generate-section", assistantHandler.GenerateSection)
	}

	return r
}
