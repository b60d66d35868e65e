// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"smartqueue/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	PositionHandler *handler.PositionHandler
	EstimateHandler *handler.EstimateHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	positionHandler *handler.PositionHandler
	estimateHandler *handler.EstimateHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		positionHandler: params.PositionHandler,
		estimateHandler: params.EstimateHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	users := e.Group("/users/:userID")
	{
		users.GET("/position", r.positionHandler.GetPosition)
		users.PUT("/position", r.positionHandler.UpdatePosition)
		users.PATCH("/position/sharing", r.positionHandler.ToggleSharing)

		users.POST("/estimates", r.estimateHandler.ComputeEstimate)
		users.GET("/estimates/:destinationID", r.estimateHandler.GetLatestEstimate)
	}
}
