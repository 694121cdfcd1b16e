package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/db"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

var ratingColumns = []string{"id", "teacher_id", "user_id", "rating", "created_at"}

// PgRatingRepository handles rating database operations
type PgRatingRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRatingRepository creates a new PgRatingRepository
func NewRatingRepository(db *pgxpool.Pool) *PgRatingRepository {
	return &PgRatingRepository{db: db, sb: newStatementBuilder()}
}

// FindByTeacherAndUser returns the caller's rating of a teacher
func (r *PgRatingRepository) FindByTeacherAndUser(ctx context.Context, teacherID, userID string) (*models.Rating, error) {
	return getOne[models.Rating](ctx, r.db, r.sb.Select(ratingColumns...).
		From("ratings").
		Where(squirrel.Eq{"teacher_id": teacherID, "user_id": userID}), "rating")
}

// Record upserts the rating and recomputes the teacher aggregates. The teacher
// row is locked first so concurrent submissions for the same teacher apply
// one after another and the final aggregates match the ratings table.
func (r *PgRatingRepository) Record(ctx context.Context, rating *models.Rating) (*models.Teacher, error) {
	AssignIdentity(&rating.ID, &rating.CreatedAt)

	var teacher *models.Teacher
	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockSQL, lockArgs, err := r.sb.Select("id").
			From("teachers").
			Where(squirrel.Eq{"id": rating.TeacherID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build teacher lock query: %w", err)
		}
		var lockedID string
		if err := tx.QueryRow(ctx, lockSQL, lockArgs...).Scan(&lockedID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("teacher not found")
			}
			return fmt.Errorf("error locking teacher: %w", err)
		}

		stored, err := getOne[models.Rating](ctx, tx, r.sb.Insert("ratings").
			Columns(ratingColumns...).
			Values(rating.ID, rating.TeacherID, rating.UserID, rating.Rating, rating.CreatedAt).
			Suffix("ON CONFLICT (teacher_id, user_id) DO UPDATE SET rating = EXCLUDED.rating RETURNING "+joinColumns(ratingColumns)), "rating")
		if err != nil {
			return err
		}
		*rating = *stored

		if err := recomputeTeacherAggregates(ctx, tx, []string{rating.TeacherID}); err != nil {
			return err
		}

		teacher, err = getOne[models.Teacher](ctx, tx, r.sb.Select(teacherColumns...).
			From("teachers").
			Where(squirrel.Eq{"id": rating.TeacherID}), "teacher")
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error().Err(err).Str("teacherId", rating.TeacherID).Msg("Error recording rating")
		}
		return nil, err
	}
	return teacher, nil
}
