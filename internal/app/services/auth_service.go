package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/auth"
	"github.com/yigit/ratemyteacher/internal/pkg/validation"
)

// AuthService handles registration, login and token checks
type AuthService interface {
	Register(ctx context.Context, username, password string) (*dto.AuthResponse, error)
	Login(ctx context.Context, username, password string) (*dto.AuthResponse, error)
	AdminLogin(ctx context.Context, secret string) (string, error)
	// AuthenticateUser resolves a user token to the stored account
	AuthenticateUser(ctx context.Context, token string) (*models.User, error)
	AuthenticateAdmin(token string) error
}

type authServiceImpl struct {
	userRepo   repositories.UserRepository
	configRepo repositories.AdminConfigRepository
	hasher     *auth.PasswordHasher
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	configRepo repositories.AdminConfigRepository,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		configRepo: configRepo,
		hasher:     hasher,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an account and signs the caller in
func (s *authServiceImpl) Register(ctx context.Context, username, password string) (*dto.AuthResponse, error) {
	username, err := validation.Username(username)
	if err != nil {
		return nil, err
	}
	if err := validation.Password(password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// the unique index decides; ErrUsernameTaken passes through untouched
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Str("username", user.Username).Msg("User registered")
	return s.authResponse(user)
}

// Login checks a username and password pair
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		s.logger.Warn().Str("username", user.Username).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		if hash, err := s.hasher.Hash(password); err == nil {
			if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
				s.logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to upgrade password hash")
			}
		}
	}

	return s.authResponse(user)
}

func (s *authServiceImpl) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.jwtService.GenerateUserToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: user}, nil
}

// AdminLogin exchanges the shared admin secret for an admin token
func (s *authServiceImpl) AdminLogin(ctx context.Context, secret string) (string, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Error().Msg("Admin login attempted before admin config was created")
			return "", apperrors.ErrInvalidCredentials
		}
		return "", err
	}

	if !s.hasher.Verify(cfg.SecretHash, secret) {
		s.logger.Warn().Msg("Failed admin login attempt")
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAdminToken()
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// AuthenticateUser fails when the token is not a user token or the user is gone
func (s *authServiceImpl) AuthenticateUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, apperrors.NewUnauthenticatedError("user token required")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewUnauthenticatedError("user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// AuthenticateAdmin fails unless the token carries the admin flag
func (s *authServiceImpl) AuthenticateAdmin(token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return err
	}
	if !claims.IsAdmin {
		return apperrors.NewUnauthenticatedError("admin access required")
	}
	return nil
}
