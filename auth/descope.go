package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/descope/go-sdk/descope/client"
	"github.com/rpupo63/virtual-closet-backend/errs"
)

// DescopeVerifier validates session tokens against a Descope project.
type DescopeVerifier struct {
	client *client.DescopeClient
}

func NewDescopeVerifier(projectID string) (*DescopeVerifier, error) {
	if projectID == "" {
		return nil, fmt.Errorf("descope project id is required")
	}
	c, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("create descope client: %w", err)
	}
	return &DescopeVerifier{client: c}, nil
}

func (v *DescopeVerifier) Verify(ctx context.Context, token string) (string, error) {
	ok, session, err := v.client.Auth.ValidateSessionWithToken(ctx, token)
	if err != nil {
		return "", errs.NewInvalidTokenError(err)
	}
	if !ok || session == nil || session.ID == "" {
		return "", errs.NewInvalidTokenError(errors.New("session rejected"))
	}
	return session.ID, nil
}
