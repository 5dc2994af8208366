// Package auth verifies bearer tokens issued by the external identity provider
// and resolves them to the owner id every closet operation is scoped to.
package auth

import (
	"context"
	"strings"

	"github.com/rpupo63/virtual-closet-backend/errs"
)

// Verifier resolves a raw bearer token to the owner id it was issued for.
// Failures are *errs.ApiErr values wrapping the token sentinels.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errs.NewMissingTokenError()
	}
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", errs.NewInvalidTokenError(nil)
	}
	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", errs.NewMissingTokenError()
	}
	return token, nil
}

// VerifierFunc adapts a plain function to Verifier.
type VerifierFunc func(ctx context.Context, token string) (string, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}
