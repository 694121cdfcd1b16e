package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/auth"
	"github.com/yigit/ratemyteacher/internal/pkg/validation"
)

// UserService defines the interface for account operations
type UserService interface {
	// Setup binds the caller to a school and class, exactly once
	Setup(ctx context.Context, caller *models.User, schoolID, classID string) (*models.User, error)
	Profile(ctx context.Context, caller *models.User) (*dto.ProfileResponse, error)
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id string) error
	ResetPassword(ctx context.Context, id, newPassword string) error
	ResetPasswordByUsername(ctx context.Context, username, newPassword string) error
}

type userServiceImpl struct {
	userRepo   repositories.UserRepository
	schoolRepo repositories.SchoolRepository
	classRepo  repositories.ClassRepository
	hasher     *auth.PasswordHasher
	logger     zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.UserRepository,
	schoolRepo repositories.SchoolRepository,
	classRepo repositories.ClassRepository,
	hasher *auth.PasswordHasher,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		schoolRepo: schoolRepo,
		classRepo:  classRepo,
		hasher:     hasher,
		logger:     logger,
	}
}

func (s *userServiceImpl) Setup(ctx context.Context, caller *models.User, schoolID, classID string) (*models.User, error) {
	if caller.IsSetup {
		return nil, apperrors.ErrAlreadySetUp
	}

	var err error
	if schoolID, err = requireID("schoolId", schoolID); err != nil {
		return nil, err
	}
	if classID, err = requireID("classId", classID); err != nil {
		return nil, err
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, notFound(err, "class")
	}
	if class.SchoolID != schoolID {
		return nil, apperrors.NewValidationError("class does not belong to the selected school")
	}

	// the repository re-checks is_setup atomically
	user, err := s.userRepo.CompleteSetup(ctx, caller.ID, schoolID, classID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	s.logger.Info().Str("userID", user.ID).Str("classID", classID).Msg("User setup completed")
	return user, nil
}

func (s *userServiceImpl) Profile(ctx context.Context, caller *models.User) (*dto.ProfileResponse, error) {
	profile := &dto.ProfileResponse{User: caller}

	if caller.SchoolID != nil {
		school, err := s.schoolRepo.GetByID(ctx, *caller.SchoolID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		if school != nil {
			profile.SchoolName = school.Name
		}
	}
	if caller.ClassID != nil {
		class, err := s.classRepo.GetByID(ctx, *caller.ClassID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		if class != nil {
			profile.ClassName = class.Name
		}
	}
	return profile, nil
}

func (s *userServiceImpl) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

// Delete removes a user with their reviews, ratings and discussion posts
func (s *userServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return notFound(err, "user")
	}
	s.logger.Info().Str("userID", id).Msg("User deleted")
	return nil
}

func (s *userServiceImpl) ResetPassword(ctx context.Context, id, newPassword string) error {
	if err := validation.Password(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return notFound(err, "user")
	}

	s.logger.Info().Str("userID", id).Msg("User password reset")
	return nil
}

func (s *userServiceImpl) ResetPasswordByUsername(ctx context.Context, username, newPassword string) error {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return notFound(err, "user")
	}
	return s.ResetPassword(ctx, user.ID, newPassword)
}
