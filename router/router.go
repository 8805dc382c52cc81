package router

import (
	"dialog-faq-backend/controller"
	"dialog-faq-backend/middleware"

	"github.com/gin-gonic/gin"
)

func Register() *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	api := r.Group("/api")
	{
		public := api.Group("/user")
		{
			public.POST("/register", controller.UserRegister)
			public.POST("/login", controller.UserLogin)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/faqs", controller.ListPendingFAQs)
			protected.POST("/faq/:id/accept", controller.AcceptFAQ)
			protected.POST("/faq/:id/discard", controller.DiscardFAQ)
			protected.POST("/faqs/bulk-accept", controller.BulkAcceptFAQs)
			protected.POST("/faqs/bulk-discard", controller.BulkDiscardFAQs)

			protected.GET("/knowledge", controller.ListKnowledgeItems)
			protected.GET("/knowledge/:id", controller.GetKnowledgeItem)
			protected.PUT("/knowledge/:id", controller.UpdateKnowledgeItem)

			protected.POST("/sync", controller.TriggerScenarioSync)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.POST("/scenario", controller.CreateScenario)
				admin.GET("/scenarios", controller.ListScenarios)
				admin.GET("/scenario/:id", controller.GetScenario)
				admin.PUT("/scenario/:id", controller.UpdateScenario)

				admin.POST("/aggregation/run", controller.RunDialogAggregation)
				admin.POST("/extraction/run", controller.RunFAQExtraction)

				admin.POST("/aggregation", controller.TriggerAggregation)
				admin.POST("/extraction", controller.TriggerExtraction)
				admin.POST("/compare-sync", controller.TriggerCompareSync)
			}
		}
	}

	return r
}
