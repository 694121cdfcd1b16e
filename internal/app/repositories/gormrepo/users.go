package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/dberrors"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	repositories.AssignIdentity(&user.ID, &user.CreatedAt)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrUsernameTaken
		}
		return translate(err, "creating user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "getting user")
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translate(err, "getting user")
	}
	return &user, nil
}

func (r *userRepository) CompleteSetup(ctx context.Context, userID, schoolID, classID string) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_setup = ?", userID, false).
		Updates(map[string]interface{}{
			"school_id": schoolID,
			"class_id":  classID,
			"is_setup":  true,
		})
	if err := affected(res, "completing setup"); err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		if _, lookupErr := r.GetByID(ctx, userID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, apperrors.ErrAlreadySetUp
	}
	return r.GetByID(ctx, userID)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return affected(r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash), "updating password")
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, translate(err, "listing users")
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := affected(tx.Where("id = ?", id).Delete(&models.User{}), "deleting user"); err != nil {
			return err
		}

		var teacherIDs []string
		if err := tx.Model(&models.Rating{}).Where("user_id = ?", id).Pluck("teacher_id", &teacherIDs).Error; err != nil {
			return translate(err, "loading rated teachers")
		}

		for _, model := range []interface{}{&models.Review{}, &models.Rating{}, &models.Discussion{}} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return translate(err, "deleting user content")
			}
		}

		return recomputeTeacherAggregates(tx, teacherIDs)
	})
}
