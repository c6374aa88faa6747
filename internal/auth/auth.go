package auth

import (
	"crypto/subtle"

	"github.com/rmaksimov/autoservice/internal/errs"
)

// Service authenticates the shop operator and hands out bearer tokens.
//
// There is no per-user table: valid credentials are the single
// username/password pair injected through configuration at startup.
type Service struct {
	username string
	password string
	tokens   *TokenService
}

// NewService builds the auth service around a token service and the
// configured operator credential.
func NewService(username, password string, tokens *TokenService) *Service {
	return &Service{
		username: username,
		password: password,
		tokens:   tokens,
	}
}

// Login checks the supplied credentials and, on match, issues a bearer
// token for the operator identity. Any mismatch yields a 401 without
// revealing which part was wrong.
func (s *Service) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", errs.NewUnauthorizedError("Bad credentials", false)
	}

	token, _, err := s.tokens.Issue(s.username)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Tokens exposes the token service for middleware validation.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}
