package service

import (
	"context"

	"goatmeter-be/internal/domain"
)

// AuthService validates bearer tokens and resolves the caller's identity.
type AuthService interface {
	// ValidateToken accepts a Google OAuth access token, a Google ID
	// token, or a first-party JWT, and returns the caller's identity.
	ValidateToken(ctx context.Context, token string) (*domain.UserIdentity, error)
}
