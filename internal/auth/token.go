// Package auth implements the authentication gate: it verifies the
// single operator credential and issues/validates the stateless bearer
// tokens required by every business endpoint.
//
// Tokens are HS256 JWTs carrying the operator identity and an expiry.
// Validity is purely a function of the signature and embedded expiry;
// nothing is stored server-side.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rmaksimov/autoservice/internal/config"
)

// Claims is the token payload: the registered claim set with the
// operator username as subject.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates signed bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string

	// now is swapped in tests to control expiry.
	now func() time.Time
}

// NewTokenService builds a TokenService from auth config. A
// non-positive TTL falls back to config.DefaultTokenTTL.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = config.DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(cfg.SecretKey),
		ttl:    ttl,
		issuer: "autoservice",
		now:    time.Now,
	}
}

// Issue signs a token for the given subject, expiring ttl after
// issuance.
func (ts *TokenService) Issue(subject string) (token string, expiresAt time.Time, err error) {
	now := ts.now()
	expiresAt = now.Add(ts.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    ts.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(ts.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a token, returning the embedded
// subject. Expired, malformed, or wrongly signed tokens fail.
func (ts *TokenService) Validate(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return ts.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	return claims.Subject, nil
}
