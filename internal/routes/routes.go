package routes

import (
	"eras_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every handler into the versioned API group.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.DisasterHandler.RegisterRoutes(api)
		appHandlers.AlertHandler.RegisterRoutes(api)
	}
}
