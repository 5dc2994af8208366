package api

import (
	"context"
	"errors"
)

type keyType string

const userIDKey keyType = "userID"

// ctxWithUserID adds a user ID to the context
func ctxWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ctxGetUserID retrieves a user ID from the context
func ctxGetUserID(ctx context.Context) (string, error) {
	return ctxGetStringValue(ctx, userIDKey)
}

// ctxGetStringValue is a helper function to retrieve string values from the context by key
func ctxGetStringValue(ctx context.Context, key keyType) (string, error) {
	if ctxValue := ctx.Value(key); ctxValue == nil {
		return "", errors.New("key not found in context")
	} else if valueAsString, ok := ctxValue.(string); !ok {
		return "", errors.New("value is not of type `string`")
	} else {
		return valueAsString, nil
	}
}

// ownerID returns the authenticated owner or "" when the request carries none.
// Services turn "" into an AuthRequired error.
func ownerID(ctx context.Context) string {
	id, _ := ctxGetUserID(ctx)
	return id
}
