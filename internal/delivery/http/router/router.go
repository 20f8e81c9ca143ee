// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"devicerelay/config"
	"devicerelay/internal/delivery/http/middleware"
	"devicerelay/internal/delivery/http/router/handler"
	"devicerelay/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	RelayHandler    *handler.RelayHandler
	TransferHandler *handler.TransferHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Registry        *prometheus.Registry
	Config          *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	relayHandler    *handler.RelayHandler
	transferHandler *handler.TransferHandler
	authMiddleware  *middleware.AuthMiddleware
	registry        *prometheus.Registry
	config          *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		relayHandler:    params.RelayHandler,
		transferHandler: params.TransferHandler,
		authMiddleware:  params.AuthMiddleware,
		registry:        params.Registry,
		config:          params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	if path := metrics.Path(r.config); path != "" {
		e.GET(path, echo.WrapHandler(metrics.Handler(r.registry)))
	}

	// Relay routes; browsers authenticate the upgrade with the access token cookie
	relayGroup := e.Group("/relay")
	relayGroup.Use(r.authMiddleware.Authenticate)
	{
		relayGroup.POST("/wstoken", r.relayHandler.IssueToken)
		relayGroup.GET("/ws", r.relayHandler.Connect)
		relayGroup.GET("/devices", r.relayHandler.OnlineDevices)
	}

	transfersGroup := e.Group("/transfers")
	transfersGroup.Use(r.authMiddleware.Authenticate)
	{
		transfersGroup.GET("", r.transferHandler.ListTransfers)
	}
}
