// Package auth validates the bearer tokens the frontend sends. Three
// token shapes are accepted: Google OAuth access tokens (resolved
// through the userinfo API), Google ID tokens (signature-checked
// against Google's certs), and first-party HMAC JWTs issued by our own
// tooling.
package auth

import (
	"context"
	"fmt"
	"strings"

	"goatmeter-be/internal/domain"
	"goatmeter-be/internal/service"
	"goatmeter-be/pkg/errors"
	"goatmeter-be/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Service implements service.AuthService.
type Service struct {
	clientID  string
	jwtSecret string
	logger    *logger.Logger
}

// NewService creates a new auth service. clientID is the Google OAuth
// client id used for audience checks; jwtSecret signs first-party JWTs
// and may be empty when that path is unused.
func NewService(clientID, jwtSecret string, log *logger.Logger) service.AuthService {
	return &Service{
		clientID:  clientID,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

// ValidateToken resolves a bearer token to a user identity.
func (s *Service) ValidateToken(ctx context.Context, token string) (*domain.UserIdentity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.NewAuthenticationError("Token is required")
	}

	if isGoogleAccessToken(token) {
		return s.validateAccessToken(ctx, token)
	}
	if isJWT(token) {
		// Google ID tokens and first-party JWTs share the same shape;
		// try the Google validator first, then the HMAC secret.
		identity, err := s.validateGoogleIDToken(ctx, token)
		if err == nil {
			return identity, nil
		}
		if s.jwtSecret != "" {
			return s.validateFirstPartyJWT(token)
		}
		return nil, err
	}

	s.logger.Error("unrecognized token format")
	return nil, errors.NewAuthenticationError("Unrecognized token format")
}

// validateAccessToken resolves a Google access token through the
// userinfo endpoint. Access tokens carry no audience claim, so identity
// comes from what the token can actually read.
func (s *Service) validateAccessToken(ctx context.Context, token string) (*domain.UserIdentity, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	svc, err := goauth2.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		s.logger.WithError(err).Error("failed to build oauth2 client")
		return nil, errors.NewInternalError("Failed to build token validation client", err)
	}

	info, err := svc.Userinfo.V2.Me.Get().Context(ctx).Do()
	if err != nil {
		s.logger.WithError(err).Error("google userinfo lookup failed")
		return nil, errors.NewAuthenticationError("Invalid or expired Google token")
	}

	sub := info.Id
	if sub == "" {
		sub = info.Email
	}
	if sub == "" {
		return nil, errors.NewAuthenticationError("Invalid token: no user identifier")
	}

	identity := &domain.UserIdentity{
		Sub:     sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}
	s.logger.WithField("user_id", identity.Sub).Debug("google access token validated")
	return identity, nil
}

// validateGoogleIDToken checks an ID token's signature and audience via
// Google's published certs.
func (s *Service) validateGoogleIDToken(ctx context.Context, token string) (*domain.UserIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, s.clientID)
	if err != nil {
		return nil, errors.NewAuthenticationError("Invalid ID token")
	}

	identity := &domain.UserIdentity{
		Sub:     payload.Subject,
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if identity.Sub == "" {
		return nil, errors.NewAuthenticationError("Invalid ID token: no user identifier")
	}

	s.logger.WithField("user_id", identity.Sub).Debug("google id token validated")
	return identity, nil
}

// validateFirstPartyJWT verifies an HMAC-signed JWT issued by our own
// tooling, used by load tests and admin scripts.
func (s *Service) validateFirstPartyJWT(tokenString string) (*domain.UserIdentity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		s.logger.WithError(err).Error("first-party jwt validation failed")
		return nil, errors.NewAuthenticationError("Invalid JWT token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.NewAuthenticationError("Invalid JWT token")
	}

	identity := &domain.UserIdentity{
		Sub:     claimString(claims, "sub"),
		Email:   claimString(claims, "email"),
		Name:    claimString(claims, "name"),
		Picture: claimString(claims, "picture"),
	}
	if identity.Sub == "" {
		return nil, errors.NewAuthenticationError("Invalid JWT token: no user identifier")
	}

	s.logger.WithField("user_id", identity.Sub).Debug("first-party jwt validated")
	return identity, nil
}

func isGoogleAccessToken(token string) bool {
	return strings.HasPrefix(token, "ya29.")
}

func isJWT(token string) bool {
	return strings.Count(token, ".") == 2
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
