package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/validation"
)

// RatingService records star ratings
type RatingService interface {
	// Rate creates or overwrites the caller's rating and refreshes the
	// teacher's average and count
	Rate(ctx context.Context, teacherID string, caller *models.User, value int) (*dto.RatingResponse, error)
	// MyRating returns the caller's rating of a teacher, or nil
	MyRating(ctx context.Context, teacherID string, caller *models.User) (*models.Rating, error)
}

type ratingServiceImpl struct {
	ratingRepo repositories.RatingRepository
	logger     zerolog.Logger
}

// NewRatingService creates a new RatingService
func NewRatingService(ratingRepo repositories.RatingRepository, logger zerolog.Logger) RatingService {
	return &ratingServiceImpl{ratingRepo: ratingRepo, logger: logger}
}

func (s *ratingServiceImpl) Rate(ctx context.Context, teacherID string, caller *models.User, value int) (*dto.RatingResponse, error) {
	if err := validation.Rating(value); err != nil {
		return nil, err
	}

	rating := &models.Rating{TeacherID: teacherID, UserID: caller.ID, Rating: value}
	teacher, err := s.ratingRepo.Record(ctx, rating)
	if err != nil {
		return nil, notFound(err, "teacher")
	}

	s.logger.Debug().
		Str("teacherID", teacherID).
		Str("userID", caller.ID).
		Int("rating", value).
		Float64("averageRating", teacher.AverageRating).
		Int("totalRatings", teacher.TotalRatings).
		Msg("Rating recorded")

	return &dto.RatingResponse{
		Rating:        rating,
		AverageRating: teacher.AverageRating,
		TotalRatings:  teacher.TotalRatings,
	}, nil
}

func (s *ratingServiceImpl) MyRating(ctx context.Context, teacherID string, caller *models.User) (*models.Rating, error) {
	rating, err := s.ratingRepo.FindByTeacherAndUser(ctx, teacherID, caller.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rating, nil
}
