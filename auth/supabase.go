package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/virtual-closet-backend/errs"
)

// SupabaseAudience is the aud claim Supabase puts on signed-in user tokens.
const SupabaseAudience = "authenticated"

// SupabaseVerifier checks HS256 access tokens signed with the project's JWT secret.
type SupabaseVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewSupabaseVerifier(secret string) (*SupabaseVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("supabase jwt secret is required")
	}
	return &SupabaseVerifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithAudience(SupabaseAudience),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

func (v *SupabaseVerifier) Verify(_ context.Context, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", errs.NewExpiredTokenError()
	case err != nil:
		return "", errs.NewInvalidTokenError(err)
	}

	if claims.Subject == "" {
		return "", errs.NewInvalidTokenError(errors.New("token has no subject"))
	}
	return claims.Subject, nil
}
