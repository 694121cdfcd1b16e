package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/moderation"
	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/helpers"
	"github.com/yigit/ratemyteacher/internal/pkg/validation"
)

// ReviewService defines the interface for review operations
type ReviewService interface {
	// ListForTeacher returns the newest reviews of a teacher
	ListForTeacher(ctx context.Context, teacherID string, policy moderation.Policy) ([]*models.Review, error)
	// MyReview returns the caller's review of a teacher, or nil
	MyReview(ctx context.Context, teacherID string, caller *models.User, policy moderation.Policy) (*models.Review, error)
	Create(ctx context.Context, teacherID string, caller *models.User, text string, policy moderation.Policy) (*models.Review, error)
	// Update changes the text of a review owned by the caller
	Update(ctx context.Context, reviewID string, caller *models.User, text string, policy moderation.Policy) (*models.Review, error)
	ListDetailed(ctx context.Context) ([]*models.ReviewListing, error)
	Delete(ctx context.Context, id string) error
}

type reviewServiceImpl struct {
	reviewRepo  repositories.ReviewRepository
	teacherRepo repositories.TeacherRepository
	logger      zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo repositories.ReviewRepository, teacherRepo repositories.TeacherRepository, logger zerolog.Logger) ReviewService {
	return &reviewServiceImpl{reviewRepo: reviewRepo, teacherRepo: teacherRepo, logger: logger}
}

func (s *reviewServiceImpl) ListForTeacher(ctx context.Context, teacherID string, policy moderation.Policy) ([]*models.Review, error) {
	if _, err := s.teacherRepo.GetByID(ctx, teacherID); err != nil {
		return nil, notFound(err, "teacher")
	}

	reviews, err := s.reviewRepo.ListByTeacher(ctx, teacherID, TeacherReviewLimit)
	if err != nil {
		return nil, err
	}
	return policy.Reviews(reviews), nil
}

func (s *reviewServiceImpl) MyReview(ctx context.Context, teacherID string, caller *models.User, policy moderation.Policy) (*models.Review, error) {
	review, err := s.reviewRepo.FindByTeacherAndUser(ctx, teacherID, caller.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return policy.Review(review), nil
}

func (s *reviewServiceImpl) Create(ctx context.Context, teacherID string, caller *models.User, text string, policy moderation.Policy) (*models.Review, error) {
	text, err := validation.String("text", text).Max(validation.ReviewMaxLength).Check()
	if err != nil {
		return nil, err
	}
	if _, err := s.teacherRepo.GetByID(ctx, teacherID); err != nil {
		return nil, notFound(err, "teacher")
	}

	now := helpers.NowUTC()
	review := &models.Review{
		TeacherID: teacherID,
		UserID:    caller.ID,
		Username:  caller.Username,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// a concurrent duplicate loses on the unique index with ErrReviewExists
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().Str("reviewID", review.ID).Str("teacherID", teacherID).Str("userID", caller.ID).Msg("Review created")
	return policy.Review(review), nil
}

func (s *reviewServiceImpl) Update(ctx context.Context, reviewID string, caller *models.User, text string, policy moderation.Policy) (*models.Review, error) {
	text, err := validation.String("text", text).Max(validation.ReviewMaxLength).Check()
	if err != nil {
		return nil, err
	}

	// someone else's review is reported exactly like a missing one
	review, err := s.reviewRepo.UpdateText(ctx, reviewID, caller.ID, text, helpers.NowUTC())
	if err != nil {
		return nil, notFound(err, "review")
	}
	return policy.Review(review), nil
}

func (s *reviewServiceImpl) ListDetailed(ctx context.Context) ([]*models.ReviewListing, error) {
	return s.reviewRepo.ListDetailed(ctx)
}

func (s *reviewServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return notFound(err, "review")
	}
	s.logger.Info().Str("reviewID", id).Msg("Review deleted")
	return nil
}

