// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"pricing/internal/delivery/api/middleware"
	"pricing/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler            *handler.AuthHandler
	ProductHandler         *handler.ProductHandler
	MarketConditionHandler *handler.MarketConditionHandler
	CacheHandler           *handler.CacheHandler
	SessionMiddleware      *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler            *handler.AuthHandler
	productHandler         *handler.ProductHandler
	marketConditionHandler *handler.MarketConditionHandler
	cacheHandler           *handler.CacheHandler
	sessionMiddleware      *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:            params.AuthHandler,
		productHandler:         params.ProductHandler,
		marketConditionHandler: params.MarketConditionHandler,
		cacheHandler:           params.CacheHandler,
		sessionMiddleware:      params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the console routes.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.GET("/session", r.authHandler.Session)
		authGroup.POST("/register", r.authHandler.Register)
	}

	// Everything below needs a signed-in session.
	guard := r.sessionMiddleware.RequireSession

	productsGroup := e.Group("/products", guard)
	{
		productsGroup.GET("", r.productHandler.ListProducts)
		productsGroup.POST("", r.productHandler.CreateProduct)
		productsGroup.GET("/bulk-optimize", r.productHandler.BulkOptimizePrices)
		productsGroup.GET("/watch", r.productHandler.WatchProducts)
		productsGroup.GET("/:id", r.productHandler.GetProduct)
		productsGroup.PUT("/:id", r.productHandler.UpdateProduct)
		productsGroup.DELETE("/:id", r.productHandler.DeleteProduct)
		productsGroup.GET("/:id/forecast", r.productHandler.GetDemandForecast)
		productsGroup.GET("/:id/optimize", r.productHandler.OptimizePrice)
		productsGroup.GET("/:id/visualization", r.productHandler.GetVisualizationData)
	}

	historyGroup := e.Group("/product-history", guard)
	{
		historyGroup.GET("", r.productHandler.ListProductHistory)
		historyGroup.POST("", r.productHandler.CreateProductHistory)
		historyGroup.DELETE("/:id", r.productHandler.DeleteProductHistory)
	}

	conditionsGroup := e.Group("/market-conditions", guard)
	{
		conditionsGroup.GET("", r.marketConditionHandler.ListMarketConditions)
		conditionsGroup.POST("", r.marketConditionHandler.CreateMarketCondition)
		conditionsGroup.PUT("/:id", r.marketConditionHandler.UpdateMarketCondition)
		conditionsGroup.DELETE("/:id", r.marketConditionHandler.DeleteMarketCondition)
	}

	e.GET("/optimization-logs", r.productHandler.ListOptimizationLogs, guard)
	e.GET("/users", r.authHandler.ListUsers, guard)
	e.POST("/cache/refetch", r.cacheHandler.RefetchAll, guard)
}
