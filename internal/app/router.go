package app

import (
	"trailhunt_backend/docs"
	"trailhunt_backend/internal/config"
	"trailhunt_backend/internal/middleware"
	"trailhunt_backend/internal/model"
	"trailhunt_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// logout 只验签名不比对设备：被顶替的设备也要能退出
	router.POST("/api/logout", middleware.TokenMiddleware(cfg), c.auth.Logout)

	// 需要有效会话的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, repos.user), middleware.ActivityMiddleware(repos.session))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/questions", c.question.ListQuestions)
		authGroup.GET("/leaderboard", c.leaderboard.Results)
		authGroup.GET("/leaderboard/changes", c.leaderboard.Changes)

		hunt := authGroup.Group("/hunt")
		{
			hunt.POST("/setup", c.hunt.Setup)
			hunt.GET("/current-question", c.hunt.CurrentQuestion)
			hunt.POST("/submit/:questionId", c.hunt.Submit)
			hunt.GET("/answers", c.hunt.MyAnswers)
		}

		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/questions", c.question.CreateQuestion)
			admin.PUT("/questions/:id", c.question.UpdateQuestion)
			admin.DELETE("/questions/:id", c.question.DeleteQuestion)
			admin.POST("/questions/import", c.question.ImportQuestions)

			admin.GET("/participants", c.review.ListParticipants)
			admin.GET("/participants/:id/answers", c.review.ParticipantAnswers)
			admin.POST("/participants/:id/answers/:answerId/review", c.review.ReviewAnswer)
		}
	}
}
