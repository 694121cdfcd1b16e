package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/validation"
)

// DiscussionService runs the global discussion board
type DiscussionService interface {
	List(ctx context.Context) ([]*models.Discussion, error)
	Post(ctx context.Context, caller *models.User, message string) (*models.Discussion, error)
	TogglePin(ctx context.Context, id string) (*models.Discussion, error)
	Delete(ctx context.Context, id string) error
}

type discussionServiceImpl struct {
	discussionRepo repositories.DiscussionRepository
	logger         zerolog.Logger
}

// NewDiscussionService creates a new DiscussionService
func NewDiscussionService(discussionRepo repositories.DiscussionRepository, logger zerolog.Logger) DiscussionService {
	return &discussionServiceImpl{discussionRepo: discussionRepo, logger: logger}
}

// List returns pinned messages first, then the newest
func (s *discussionServiceImpl) List(ctx context.Context) ([]*models.Discussion, error) {
	return s.discussionRepo.List(ctx, DiscussionLimit)
}

func (s *discussionServiceImpl) Post(ctx context.Context, caller *models.User, message string) (*models.Discussion, error) {
	message, err := validation.String("message", message).Max(validation.DiscussionMaxLength).Check()
	if err != nil {
		return nil, err
	}

	discussion := &models.Discussion{UserID: caller.ID, Username: caller.Username, Message: message}
	if err := s.discussionRepo.Create(ctx, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

func (s *discussionServiceImpl) TogglePin(ctx context.Context, id string) (*models.Discussion, error) {
	discussion, err := s.discussionRepo.TogglePin(ctx, id)
	if err != nil {
		return nil, notFound(err, "discussion")
	}

	s.logger.Info().Str("discussionID", id).Bool("isPinned", discussion.IsPinned).Msg("Discussion pin toggled")
	return discussion, nil
}

func (s *discussionServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.discussionRepo.Delete(ctx, id); err != nil {
		return notFound(err, "discussion")
	}
	s.logger.Info().Str("discussionID", id).Msg("Discussion deleted")
	return nil
}
