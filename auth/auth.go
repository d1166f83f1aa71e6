// Package auth provides bearer token authentication for the Flight
// server.
package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidAuthHeader is returned when the authorization header is
	// not in Bearer form.
	ErrInvalidAuthHeader = errors.New("authorization header must use Bearer scheme")

	// ErrTokenIsEmpty is returned when the bearer token is empty.
	ErrTokenIsEmpty = errors.New("authorization token is empty")

	// ErrUnauthenticated is returned when token validation fails.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Authenticator validates bearer tokens and returns a user identity.
// Implementations must be safe for concurrent use.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity string, err error)
}

// NoAuth returns an Authenticator that accepts every request as
// "anonymous". For development only.
func NoAuth() Authenticator {
	return &noAuthenticator{}
}

type noAuthenticator struct{}

func (*noAuthenticator) Authenticate(context.Context, string) (string, error) {
	return "anonymous", nil
}

// BearerAuth wraps a validation function as an Authenticator. The
// function may perform I/O; it should honor the context deadline.
func BearerAuth(validate func(ctx context.Context, token string) (identity string, err error)) Authenticator {
	return &bearerAuthenticator{validate: validate}
}

type bearerAuthenticator struct {
	validate func(ctx context.Context, token string) (string, error)
}

func (b *bearerAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return b.validate(ctx, token)
}

const bearerPrefix = "Bearer "

// TokenFromAuthorizationHeader extracts the token from a "Bearer <token>"
// header value.
func TokenFromAuthorizationHeader(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}
	token := strings.TrimPrefix(header, bearerPrefix)
	if token == "" {
		return "", ErrTokenIsEmpty
	}
	return token, nil
}

// ValidateToken authenticates the token and returns a context carrying
// the resolved identity.
func ValidateToken(ctx context.Context, token string, authenticator Authenticator) (context.Context, error) {
	if token == "" {
		return ctx, ErrTokenIsEmpty
	}
	identity, err := authenticator.Authenticate(ctx, token)
	if err != nil {
		return ctx, ErrUnauthenticated
	}
	return WithIdentity(ctx, identity), nil
}
