package auth

import (
	"context"
	"errors"
	"testing"
)

func TestNoAuth(t *testing.T) {
	identity, err := NoAuth().Authenticate(context.Background(), "anything")
	if err != nil {
		t.Fatal(err)
	}
	if identity != "anonymous" {
		t.Errorf("identity = %q, want anonymous", identity)
	}
}

func TestBearerAuth(t *testing.T) {
	authenticator := BearerAuth(func(_ context.Context, token string) (string, error) {
		if token == "secret" {
			return "scott", nil
		}
		return "", errors.New("bad token")
	})

	ctx, err := ValidateToken(context.Background(), "secret", authenticator)
	if err != nil {
		t.Fatal(err)
	}
	if got := IdentityFromContext(ctx); got != "scott" {
		t.Errorf("identity = %q, want scott", got)
	}

	if _, err := ValidateToken(context.Background(), "wrong", authenticator); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated", err)
	}
	if _, err := ValidateToken(context.Background(), "", authenticator); !errors.Is(err, ErrTokenIsEmpty) {
		t.Errorf("error = %v, want ErrTokenIsEmpty", err)
	}
}

func TestTokenFromAuthorizationHeader(t *testing.T) {
	token, err := TokenFromAuthorizationHeader("Bearer abc123")
	if err != nil {
		t.Fatal(err)
	}
	if token != "abc123" {
		t.Errorf("token = %q, want abc123", token)
	}

	if _, err := TokenFromAuthorizationHeader("Basic abc"); !errors.Is(err, ErrInvalidAuthHeader) {
		t.Errorf("error = %v, want ErrInvalidAuthHeader", err)
	}
	if _, err := TokenFromAuthorizationHeader("Bearer "); !errors.Is(err, ErrTokenIsEmpty) {
		t.Errorf("error = %v, want ErrTokenIsEmpty", err)
	}
}

func TestIdentityFromContextUnset(t *testing.T) {
	if got := IdentityFromContext(context.Background()); got != "" {
		t.Errorf("identity = %q, want empty", got)
	}
}
