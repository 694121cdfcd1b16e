package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/moderation"
	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/auth"
	"github.com/yigit/ratemyteacher/internal/pkg/helpers"
	"github.com/yigit/ratemyteacher/internal/pkg/validation"
)

// AdminConfigService manages the admin secret and the moderation toggles
type AdminConfigService interface {
	// EnsureDefault creates the config row with defaultSecret when none exists
	// and reports whether it did
	EnsureDefault(ctx context.Context, defaultSecret string) (bool, error)
	Get(ctx context.Context) (*models.AdminConfig, error)
	// Policy reads the toggles fresh from the store
	Policy(ctx context.Context) (moderation.Policy, error)
	Update(ctx context.Context, patch models.AdminConfigPatch) (*models.AdminConfig, error)
	ChangeSecret(ctx context.Context, secret string) error
}

type adminConfigServiceImpl struct {
	configRepo repositories.AdminConfigRepository
	hasher     *auth.PasswordHasher
	logger     zerolog.Logger
}

// NewAdminConfigService creates a new AdminConfigService
func NewAdminConfigService(configRepo repositories.AdminConfigRepository, hasher *auth.PasswordHasher, logger zerolog.Logger) AdminConfigService {
	return &adminConfigServiceImpl{configRepo: configRepo, hasher: hasher, logger: logger}
}

func (s *adminConfigServiceImpl) EnsureDefault(ctx context.Context, defaultSecret string) (bool, error) {
	if _, err := s.Get(ctx); err == nil {
		return false, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}

	hash, err := s.hasher.Hash(defaultSecret)
	if err != nil {
		return false, err
	}

	created, err := s.configRepo.CreateIfAbsent(ctx, &models.AdminConfig{
		ID:         models.AdminConfigID,
		SecretHash: hash,
		UpdatedAt:  helpers.NowUTC(),
	})
	if err != nil {
		return false, err
	}
	if created {
		s.logger.Info().Msg("Admin config created with the default secret")
	}
	return created, nil
}

func (s *adminConfigServiceImpl) Get(ctx context.Context) (*models.AdminConfig, error) {
	return s.configRepo.Get(ctx)
}

func (s *adminConfigServiceImpl) Policy(ctx context.Context) (moderation.Policy, error) {
	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return moderation.Policy{}, nil
		}
		return moderation.Policy{}, err
	}
	return moderation.FromConfig(cfg), nil
}

func (s *adminConfigServiceImpl) Update(ctx context.Context, patch models.AdminConfigPatch) (*models.AdminConfig, error) {
	cfg, err := s.configRepo.UpdateFlags(ctx, patch, helpers.NowUTC())
	if err != nil {
		return nil, notFound(err, "admin config")
	}

	s.logger.Info().
		Bool("anonymousReviews", cfg.AnonymousReviews).
		Bool("hideTeacherImages", cfg.HideTeacherImages).
		Msg("Moderation settings updated")
	return cfg, nil
}

// ChangeSecret replaces the admin secret. Issued admin tokens stay valid.
func (s *adminConfigServiceImpl) ChangeSecret(ctx context.Context, secret string) error {
	secret, err := validation.String("secret", secret).
		Min(validation.PasswordMinLength).
		Max(validation.PasswordMaxLength).
		Check()
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return err
	}
	if err := s.configRepo.UpdateSecret(ctx, hash, helpers.NowUTC()); err != nil {
		return notFound(err, "admin config")
	}

	s.logger.Info().Msg("Admin secret changed")
	return nil
}
