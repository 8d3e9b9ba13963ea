// Package auth implements admin login and logout.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/batchtrack/backend/internal/domain/shared"
	infraauth "github.com/batchtrack/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for any failed login
var ErrInvalidCredentials = shared.NewUnauthorizedError("Invalid username or password")

// LoginRequest is the admin login body
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
}

// Service handles admin authentication
type Service struct {
	credentials *infraauth.AdminCredentials
	tokens      *infraauth.JWTService
	blacklist   infraauth.TokenBlacklist
	logger      *zap.Logger
}

// NewService creates a new auth service. blacklist may be nil, in which
// case logout only ends the session client-side.
func NewService(
	credentials *infraauth.AdminCredentials,
	tokens *infraauth.JWTService,
	blacklist infraauth.TokenBlacklist,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		credentials: credentials,
		tokens:      tokens,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// Login checks the admin credential and issues an access token
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.credentials.Verify(req.Username, req.Password); err != nil {
		if errors.Is(err, infraauth.ErrInvalidCredentials) {
			s.logger.Warn("Admin login failed", zap.String("username", req.Username))
			return nil, ErrInvalidCredentials
		}
		return nil, shared.NewInternalError("Failed to verify credentials", err)
	}

	token, err := s.tokens.GenerateAccessToken(req.Username)
	if err != nil {
		return nil, shared.NewInternalError("Failed to issue token", err)
	}

	s.logger.Info("Admin logged in", zap.String("username", req.Username))
	return &LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		Username:    req.Username,
	}, nil
}

// Logout revokes the token described by claims until it expires
func (s *Service) Logout(ctx context.Context, claims *infraauth.Claims) error {
	if claims == nil {
		return shared.NewUnauthorizedError("Authentication required")
	}
	if s.blacklist == nil || claims.ID == "" {
		return nil
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, s.tokens.RemainingTTL(claims)); err != nil {
		return shared.NewInternalError("Failed to revoke token", err)
	}
	s.logger.Info("Admin logged out", zap.String("username", claims.Username))
	return nil
}
