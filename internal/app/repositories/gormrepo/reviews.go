package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/dberrors"
)

type reviewRepository struct {
	db *gorm.DB
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	repositories.AssignIdentity(&review.ID, &review.CreatedAt)
	if review.UpdatedAt.IsZero() {
		review.UpdatedAt = review.CreatedAt
	}
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrReviewExists
		}
		return translate(err, "creating review")
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, translate(err, "getting review")
	}
	return &review, nil
}

func (r *reviewRepository) FindByTeacherAndUser(ctx context.Context, teacherID, userID string) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, "teacher_id = ? AND user_id = ?", teacherID, userID).Error
	if err != nil {
		return nil, translate(err, "getting review")
	}
	return &review, nil
}

func (r *reviewRepository) UpdateText(ctx context.Context, reviewID, userID, text string, at time.Time) (*models.Review, error) {
	res := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Updates(map[string]interface{}{"text": text, "updated_at": at})
	if err := affected(res, "updating review"); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, reviewID)
}

func (r *reviewRepository) ListByTeacher(ctx context.Context, teacherID string, limit int) ([]*models.Review, error) {
	var reviews []*models.Review
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, translate(err, "listing reviews")
}

func (r *reviewRepository) ListDetailed(ctx context.Context) ([]*models.ReviewListing, error) {
	db := r.db.WithContext(ctx)

	var reviews []*models.Review
	if err := db.Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, translate(err, "listing reviews")
	}
	teacherNames, err := namesByID(db, &models.Teacher{})
	if err != nil {
		return nil, err
	}

	listings := make([]*models.ReviewListing, 0, len(reviews))
	for _, rv := range reviews {
		listings = append(listings, &models.ReviewListing{Review: *rv, TeacherName: teacherNames[rv.TeacherID]})
	}
	return listings, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{}), "deleting review")
}

type ratingRepository struct {
	db *gorm.DB
}

func (r *ratingRepository) FindByTeacherAndUser(ctx context.Context, teacherID, userID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).First(&rating, "teacher_id = ? AND user_id = ?", teacherID, userID).Error
	if err != nil {
		return nil, translate(err, "getting rating")
	}
	return &rating, nil
}

// Record runs on a single-connection pool, so transactions are already serialized
func (r *ratingRepository) Record(ctx context.Context, rating *models.Rating) (*models.Teacher, error) {
	repositories.AssignIdentity(&rating.ID, &rating.CreatedAt)

	var teacher models.Teacher
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Teacher{}).Where("id = ?", rating.TeacherID).Count(&count).Error; err != nil {
			return translate(err, "locking teacher")
		}
		if count == 0 {
			return apperrors.NewNotFoundError("teacher not found")
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "teacher_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating"}),
		}).Create(rating).Error
		if err != nil {
			return translate(err, "upserting rating")
		}

		var stored models.Rating
		if err := tx.First(&stored, "teacher_id = ? AND user_id = ?", rating.TeacherID, rating.UserID).Error; err != nil {
			return translate(err, "reloading rating")
		}
		*rating = stored

		if err := recomputeTeacherAggregates(tx, []string{rating.TeacherID}); err != nil {
			return err
		}
		return translate(tx.First(&teacher, "id = ?", rating.TeacherID).Error, "reloading teacher")
	})
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}
