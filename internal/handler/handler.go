package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rmaksimov/autoservice/internal/middleware"
	"github.com/rmaksimov/autoservice/internal/validation"
)

// validatablePtr constrains PReq to be *Req implementing
// validation.Validatable, so the pipeline can allocate a fresh request
// struct per call instead of sharing one across requests.
type validatablePtr[Req any] interface {
	*Req
	validation.Validatable
}

// HandlerFunc represents a typed endpoint function that receives a
// bound and validated request payload and returns a response or an
// error.
type HandlerFunc[PReq validation.Validatable, Res any] func(c echo.Context, req PReq) (Res, error)

// Handle wraps a typed endpoint function into an echo.HandlerFunc,
// centralizing the per-request pipeline:
//
//   - allocate + bind + validate the request payload
//   - structured logging with the request-scoped logger
//   - timing (validation duration, handler duration, total)
//   - JSON response writing with the given success status
//
// Errors are returned to Echo so the global error handler formats the
// response.
//
// Usage:
//
//	group.POST("", handler.Handle(h.Create, http.StatusCreated))
func Handle[Req any, PReq validatablePtr[Req], Res any](
	fn HandlerFunc[PReq, Res],
	status int,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		logger := middleware.GetLogger(c).With().
			Str("operation", "handler").
			Str("method", c.Request().Method).
			Str("route", c.Path()).
			Logger()

		logger.Debug().Msg("handling request")

		validationStart := time.Now()
		req := PReq(new(Req))
		if err := validation.BindAndValidate(c, req); err != nil {
			logger.Warn().
				Err(err).
				Dur("validation_duration", time.Since(validationStart)).
				Msg("request validation failed")
			return err
		}
		validationDuration := time.Since(validationStart)

		handlerStart := time.Now()
		result, err := fn(c, req)
		handlerDuration := time.Since(handlerStart)

		if err != nil {
			logger.Warn().
				Err(err).
				Dur("handler_duration", handlerDuration).
				Dur("total_duration", time.Since(start)).
				Msg("handler execution failed")
			return err
		}

		logger.Debug().
			Dur("validation_duration", validationDuration).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("request completed successfully")

		return c.JSON(status, result)
	}
}
