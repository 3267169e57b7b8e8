package routes

import (
	"github.com/manwallet/88keys/internal/config"
	"github.com/manwallet/88keys/internal/handlers"
	"github.com/manwallet/88keys/internal/llm"
	"github.com/manwallet/88keys/internal/middleware"
	"github.com/manwallet/88keys/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(60))

	llmClient := llm.NewClient()

	settingsService := services.NewSettingsService(db, cfg)
	authService := services.NewAuthService(settingsService)
	pieceService := services.NewPieceService(db)
	sessionService := services.NewSessionService(db)
	lessonService := services.NewLessonService(db)
	goalService := services.NewGoalService(db, settingsService, llmClient)
	dailyService := services.NewDailyPracticeService(db)
	suggestionService := services.NewSuggestionService(db, settingsService, llmClient)
	aiService := services.NewAIService(db, settingsService, llmClient)

	authHandler := handlers.NewAuthHandler(authService, settingsService, cfg)
	pieceHandler := handlers.NewPieceHandler(pieceService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	lessonHandler := handlers.NewLessonHandler(lessonService)
	goalHandler := handlers.NewGoalHandler(goalService)
	dailyHandler := handlers.NewDailyPracticeHandler(dailyService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	aiHandler := handlers.NewAIHandler(aiService)

	api := router.Group("/api")

	public := api.Group("")
	{
		public.GET("/setup", authHandler.GetSetupStatus)
		public.POST("/setup", authHandler.Setup)
		public.POST("/auth/login", authHandler.Login)

		// 每日建议不含敏感信息，AI 不可用时自行降级
		public.GET("/ai-suggestion", suggestionHandler.GetDailySuggestion)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		pieces := protected.Group("/pieces")
		{
			pieces.GET("", pieceHandler.GetPieces)
			pieces.POST("", pieceHandler.CreatePiece)
			pieces.GET("/:id", pieceHandler.GetPiece)
			pieces.PUT("/:id", pieceHandler.UpdatePiece)
			pieces.DELETE("/:id", pieceHandler.DeletePiece)
			pieces.POST("/:id/split", pieceHandler.SplitPiece)
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("", sessionHandler.GetSessions)
			sessions.POST("", sessionHandler.CreateSession)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
		}

		lessons := protected.Group("/lessons")
		{
			lessons.GET("", lessonHandler.GetLessons)
			lessons.POST("", lessonHandler.CreateLesson)
			lessons.DELETE("/:id", lessonHandler.DeleteLesson)
		}

		goals := protected.Group("/goals")
		{
			goals.GET("", goalHandler.GetGoals)
			goals.POST("", goalHandler.CreateGoal)
			goals.PUT("/:id", goalHandler.UpdateGoal)
			goals.DELETE("/:id", goalHandler.DeleteGoal)
			goals.POST("/:id/generate-plan", goalHandler.GeneratePlan)
		}

		daily := protected.Group("/daily-practice")
		{
			daily.GET("", dailyHandler.GetItems)
			daily.POST("", dailyHandler.AddItem)
			daily.PATCH("/:id", dailyHandler.UpdateItem)
			daily.DELETE("/:id", dailyHandler.DeleteItem)
		}

		ai := protected.Group("/ai")
		{
			ai.POST("/fill-piece", aiHandler.FillPiece)
			ai.POST("/reorganize-piece", aiHandler.ReorganizePiece)
		}

		settings := protected.Group("/settings")
		{
			settings.GET("", settingsHandler.GetSettings)
			settings.PUT("", settingsHandler.UpdateSettings)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "服务运行正常",
		})
	})

	return router
}
