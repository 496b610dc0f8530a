package router

import (
	"github.com/labstack/echo/v4"

	"creatorMarket/internal/middleware"
	"creatorMarket/internal/rest"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendHandler) {
	reco := api.Group("/recommendations", middleware.AuthMiddleware())
	reco.GET("", handler.GetRecommendations)
	reco.POST("/invalidate", handler.Invalidate)

	admin := api.Group("/admin/recommendations", middleware.AuthMiddleware(), middleware.AdminOnly())
	admin.POST("/:id/refresh", handler.AdminRefresh)
}

func SetEventRoutes(api *echo.Group, handler *rest.EventHandler) {
	events := api.Group("/events", middleware.AuthMiddleware())
	events.POST("", handler.Submit)
}
