package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/parkpulse/survey-server/controllers"
	"github.com/parkpulse/survey-server/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")
	{
		// Public survey surface: what the QR code leads to.
		api.GET("/locations/:slug", controllers.GetLocationBySlug)
		api.POST("/survey/submit", middleware.RateLimitSurveySubmit(), controllers.SubmitSurvey)

		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/google/login", controllers.GoogleLogin)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthJWT())
		{
			protected.GET("/me", controllers.Me)
		}

		admin := protected.Group("/admin")
		{
			admin.GET("/locations", controllers.ListLocations)
			admin.POST("/locations", controllers.CreateLocation)
			admin.DELETE("/locations/:id", controllers.DeleteLocation)
			admin.GET("/locations/:id/qr", controllers.GetLocationQR)
			admin.POST("/locations/:id/qr", controllers.GenerateLocationQR)
			admin.GET("/qr/archive", controllers.DownloadQRArchive)

			admin.GET("/settings", controllers.ListSettings)
			admin.GET("/settings/:key", controllers.GetSetting)
			admin.PUT("/settings/:key", controllers.UpsertSetting)

			admin.GET("/responses", controllers.ListResponses)
			admin.GET("/responses/export", controllers.ExportResponses)
			admin.GET("/responses/:id", controllers.GetResponseDetail)
			admin.DELETE("/responses/:id", controllers.DeleteResponse)
			admin.POST("/responses/bulk-delete", controllers.BulkDeleteResponses)

			admin.POST("/exports", controllers.CreateExport)
			admin.GET("/exports/:job_id", controllers.GetExport)
		}
	}
}
