// Package gormrepo implements the repository interfaces on gorm, used with
// the pure-Go SQLite driver for development and tests. SQLite has no
// foreign keys here, so cascades run explicitly inside transactions.
package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

// AutoMigrate creates or updates every table of the gorm store
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&models.School{},
		&models.Class{},
		&models.User{},
		&models.Teacher{},
		&models.Review{},
		&models.Rating{},
		&models.Discussion{},
		&models.AdminConfig{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}

// NewRepositories initializes the gorm-backed repositories
func NewRepositories(db *gorm.DB) *repositories.Repositories {
	return &repositories.Repositories{
		Schools:     &schoolRepository{db: db},
		Classes:     &classRepository{db: db},
		Users:       &userRepository{db: db},
		Teachers:    &teacherRepository{db: db},
		Reviews:     &reviewRepository{db: db},
		Ratings:     &ratingRepository{db: db},
		Discussions: &discussionRepository{db: db},
		AdminConfig: &adminConfigRepository{db: db},
		Health:      &healthChecker{db: db},
	}
}

type healthChecker struct {
	db *gorm.DB
}

func (h *healthChecker) Ping(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// translate maps gorm's not-found error onto the shared sentinel
func translate(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repositories.ErrNotFound
	}
	logger.Error().Err(err).Str("action", action).Msg("Error executing sqlite statement")
	return fmt.Errorf("error %s: %w", action, err)
}

// affected maps zero affected rows to ErrNotFound
func affected(res *gorm.DB, action string) error {
	if res.Error != nil {
		return translate(res.Error, action)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

const recomputeTeacherAggregatesSQL = `
UPDATE teachers SET
	average_rating = COALESCE((SELECT AVG(r.rating) FROM ratings r WHERE r.teacher_id = teachers.id), 0),
	total_ratings  = (SELECT COUNT(*) FROM ratings r WHERE r.teacher_id = teachers.id)
WHERE id IN ?`

func recomputeTeacherAggregates(tx *gorm.DB, teacherIDs []string) error {
	if len(teacherIDs) == 0 {
		return nil
	}
	return translate(tx.Exec(recomputeTeacherAggregatesSQL, teacherIDs).Error, "recomputing teacher aggregates")
}

// deleteTeachers removes teachers with their reviews and ratings
func deleteTeachers(tx *gorm.DB, teacherIDs []string) error {
	if len(teacherIDs) == 0 {
		return nil
	}
	if err := tx.Where("teacher_id IN ?", teacherIDs).Delete(&models.Review{}).Error; err != nil {
		return translate(err, "deleting teacher reviews")
	}
	if err := tx.Where("teacher_id IN ?", teacherIDs).Delete(&models.Rating{}).Error; err != nil {
		return translate(err, "deleting teacher ratings")
	}
	return translate(tx.Where("id IN ?", teacherIDs).Delete(&models.Teacher{}).Error, "deleting teachers")
}

var (
	_ repositories.SchoolRepository      = (*schoolRepository)(nil)
	_ repositories.ClassRepository       = (*classRepository)(nil)
	_ repositories.UserRepository        = (*userRepository)(nil)
	_ repositories.TeacherRepository     = (*teacherRepository)(nil)
	_ repositories.ReviewRepository      = (*reviewRepository)(nil)
	_ repositories.RatingRepository      = (*ratingRepository)(nil)
	_ repositories.DiscussionRepository  = (*discussionRepository)(nil)
	_ repositories.AdminConfigRepository = (*adminConfigRepository)(nil)
)
