// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmaksimov/autoservice/internal/handler"
	"github.com/rmaksimov/autoservice/internal/middleware"
)

// New builds the Echo instance with the full middleware stack and all
// API routes registered. The returned *echo.Echo implements
// http.Handler and is passed to server.SetupHTTPServer.
func New(h *handler.Handlers, mw *middleware.Middlewares) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Errors returned from handlers and middleware funnel here.
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	// Order matters: recovery first so panics in later middleware are
	// caught, request id before the context enhancer so the enhancer
	// can pick it up, and the logger after both.
	e.Use(
		mw.Global.Recover(),
		mw.Global.Secure(),
		mw.Global.CORS(),
		middleware.RequestID(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
	)

	registerSystemRoutes(e, h)
	registerAPIRoutes(e, h, mw)

	return e
}

// registerAPIRoutes maps the business endpoints. Everything except
// /login sits behind the bearer-token gate.
func registerAPIRoutes(e *echo.Echo, h *handler.Handlers, mw *middleware.Middlewares) {
	e.POST("/login", handler.Handle(h.Auth.Login, http.StatusOK))

	clients := e.Group("/clients", mw.Auth.RequireAuth)
	clients.GET("", handler.Handle(h.Clients.List, http.StatusOK))
	clients.GET("/search", handler.Handle(h.Clients.Search, http.StatusOK))
	clients.POST("", handler.Handle(h.Clients.Create, http.StatusCreated))
	clients.PUT("/:id", handler.Handle(h.Clients.Update, http.StatusOK))
	clients.DELETE("/:id", handler.Handle(h.Clients.Delete, http.StatusOK))

	cars := e.Group("/cars", mw.Auth.RequireAuth)
	cars.GET("", handler.Handle(h.Cars.List, http.StatusOK))
	cars.GET("/search", handler.Handle(h.Cars.Search, http.StatusOK))
	cars.POST("", handler.Handle(h.Cars.Create, http.StatusCreated))
	cars.PUT("/:id", handler.Handle(h.Cars.Update, http.StatusOK))
	cars.DELETE("/:id", handler.Handle(h.Cars.Delete, http.StatusOK))

	repairs := e.Group("/repairs", mw.Auth.RequireAuth)
	repairs.GET("", handler.Handle(h.Repairs.List, http.StatusOK))
	repairs.GET("/search", handler.Handle(h.Repairs.Search, http.StatusOK))
	repairs.POST("", handler.Handle(h.Repairs.Create, http.StatusCreated))
	repairs.PUT("/:id", handler.Handle(h.Repairs.Update, http.StatusOK))
	repairs.DELETE("/:id", handler.Handle(h.Repairs.Delete, http.StatusOK))
}
