package app

import (
	"qurio_backend/docs"
	"qurio_backend/internal/config"
	"qurio_backend/internal/middleware"
	"qurio_backend/internal/model"
	"qurio_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerParticipantRoutes(authGroup, c)
		a.registerAuthorRoutes(authGroup, c)
	}

	// 3. 管理员路由
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/quizzes/public", c.quiz.GetPublicQuizzes)
		public.GET("/quizzes/join/:quizCode", c.quiz.JoinByCode)
	}
}

func (a *App) registerParticipantRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.GetProfile)
	rg.PUT("/auth/me", c.auth.UpdateProfile)
	rg.PUT("/auth/password", c.auth.ChangePassword)

	attempts := rg.Group("/attempts")
	{
		attempts.POST("/start", c.attempt.StartQuiz)
		attempts.GET("/history", c.attempt.GetMyHistory)
		attempts.POST("/:id/answers", c.attempt.SaveAnswer)
		attempts.POST("/:id/finish", c.attempt.FinishQuiz)
		attempts.GET("/:id/review", c.attempt.GetReview)
	}
}

func (a *App) registerAuthorRoutes(rg *gin.RouterGroup, c *controllers) {
	author := rg.Group("/")
	author.Use(middleware.RoleMiddleware(model.Author))
	{
		quizzes := author.Group("/quizzes")
		{
			quizzes.POST("", c.quiz.CreateQuiz)
			quizzes.GET("", c.quiz.GetMyQuizzes)
			quizzes.GET("/:id", c.quiz.GetQuiz)
			quizzes.PUT("/:id", c.quiz.UpdateQuiz)
			quizzes.DELETE("/:id", c.quiz.DeleteQuiz)

			quizzes.POST("/:id/questions", c.question.CreateQuestion)
			quizzes.GET("/:id/questions", c.question.GetQuestions)
		}

		questions := author.Group("/questions")
		{
			questions.PUT("/:id", c.question.UpdateQuestion)
			questions.DELETE("/:id", c.question.DeleteQuestion)
		}

		analytics := author.Group("/analytics")
		{
			analytics.GET("/dashboard", c.analytics.GetDashboard)
			analytics.GET("/quizzes/:quizId", c.analytics.GetQuizAnalytics)
			analytics.GET("/attempts/:id", c.analytics.GetAttemptDetail)
		}

		author.POST("/uploads/images", c.upload.UploadImage)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg),
		middleware.ActivityMiddleware(repos.user),
		middleware.RoleMiddleware(model.Admin),
	)
	{
		admin.GET("/users", c.admin.GetUsers)
		admin.GET("/users/stats", c.admin.GetUserStats)
		admin.PUT("/users/:id", c.admin.UpdateUser)
		admin.DELETE("/users/:id", c.admin.DeleteUser)

		admin.GET("/quizzes", c.admin.GetQuizzes)
		admin.GET("/quizzes/:slug", c.admin.GetQuizBySlug)
		admin.DELETE("/quizzes/:slug", c.admin.DeleteQuiz)
		admin.GET("/attempts", c.admin.GetAttempts)
	}
}
