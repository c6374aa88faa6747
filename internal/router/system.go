package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rmaksimov/autoservice/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of the
// business API: health, docs UI, and the static assets the docs UI
// loads.
func registerSystemRoutes(e *echo.Echo, h *handler.Handlers) {
	// Health status endpoint (used by monitors and load balancers).
	e.GET("/status", h.Health.CheckHealth)

	// Serves openapi.json and openapi.html at /static/*.
	e.Static("/static", "static")

	// Docs UI endpoint.
	e.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
