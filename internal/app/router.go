package app

import (
	"english_center_backend/docs"
	"english_center_backend/internal/config"
	"english_center_backend/internal/middleware"
	"english_center_backend/internal/model"
	"english_center_backend/pkg/monitoring"
	"english_center_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// The free-test flow: anyone may load the test and read history,
	// but starting an attempt passes the registration gate, which gets
	// its own tight rate budget (a 429 here is surfaced distinctly on
	// the form, not as a generic failure).
	freeTest := router.Group("/api/test-free")
	{
		freeTest.GET("/user-test/:email", c.delivery.GetHistory)
		freeTest.GET("/:id", c.delivery.GetTest)
		freeTest.POST("/:id/register",
			security.RateLimiter(cfg.RateLimit.RegisterMaxRequests,
				time.Duration(cfg.RateLimit.RegisterWindowMinutes)*time.Minute),
			c.delivery.Register)
		freeTest.POST("/attempts/:id/answers", c.delivery.RecordAnswer)
		freeTest.POST("/attempts/:id/submit", c.delivery.Submit)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Staff, model.Admin))
	{
		admin.POST("/test-free", c.test.CreateTest)
		admin.GET("/test-free", c.test.ListTests)
		admin.GET("/test-free/:id", c.test.GetTest)
		admin.DELETE("/test-free/:id", c.test.DeleteTest)
		admin.PATCH("/test-free/:id/basic-info", c.test.UpdateBasicInfo)

		admin.POST("/test-free/:id/questions", c.test.AddQuestion)
		admin.PUT("/test-free/:id/questions/:qid", c.test.UpdateQuestion)
		admin.DELETE("/test-free/:id/questions/:qid", c.test.DeleteQuestion)

		admin.POST("/uploads/audio", c.test.UploadQuestionAudio)
	}
}
