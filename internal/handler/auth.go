package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rmaksimov/autoservice/internal/auth"
	"github.com/rmaksimov/autoservice/internal/middleware"
	"github.com/rmaksimov/autoservice/internal/server"
	"github.com/rmaksimov/autoservice/internal/validation"
)

// AuthHandler serves the operator login endpoint, the only route that
// does not require a bearer token.
type AuthHandler struct {
	Handler
	auth *auth.Service
}

func NewAuthHandler(s *server.Server, authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{
		Handler: NewHandler(s),
		auth:    authSvc,
	}
}

// LoginRequest carries the operator credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validation.Struct(r)
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login verifies the operator credential and returns a fresh token.
func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (*LoginResponse, error) {
	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		middleware.GetLogger(c).Warn().
			Str("username", req.Username).
			Msg("login rejected")
		return nil, err
	}

	middleware.GetLogger(c).Info().
		Str("username", req.Username).
		Msg("operator logged in")

	return &LoginResponse{AccessToken: token}, nil
}
