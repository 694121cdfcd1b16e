package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/dberrors"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

var reviewColumns = []string{"id", "teacher_id", "user_id", "username", "text", "created_at", "updated_at"}

// PgReviewRepository handles review database operations
type PgReviewRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReviewRepository creates a new PgReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *PgReviewRepository {
	return &PgReviewRepository{db: db, sb: newStatementBuilder()}
}

// Create inserts a review; the (teacher_id, user_id) constraint rejects a second one
func (r *PgReviewRepository) Create(ctx context.Context, review *models.Review) error {
	AssignIdentity(&review.ID, &review.CreatedAt)
	if review.UpdatedAt.IsZero() {
		review.UpdatedAt = review.CreatedAt
	}

	sql, args, err := r.sb.Insert("reviews").
		Columns(reviewColumns...).
		Values(review.ID, review.TeacherID, review.UserID, review.Username, review.Text, review.CreatedAt, review.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create review query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "reviews_teacher_user_key") {
			return apperrors.ErrReviewExists
		}
		logger.Error().Err(err).Str("teacherId", review.TeacherID).Msg("Error executing create review query")
		return fmt.Errorf("error creating review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by ID
func (r *PgReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	return getOne[models.Review](ctx, r.db, r.sb.Select(reviewColumns...).
		From("reviews").
		Where(squirrel.Eq{"id": id}), "review")
}

// FindByTeacherAndUser returns the caller's review of a teacher
func (r *PgReviewRepository) FindByTeacherAndUser(ctx context.Context, teacherID, userID string) (*models.Review, error) {
	return getOne[models.Review](ctx, r.db, r.sb.Select(reviewColumns...).
		From("reviews").
		Where(squirrel.Eq{"teacher_id": teacherID, "user_id": userID}), "review")
}

// UpdateText changes the text of a review owned by userID
func (r *PgReviewRepository) UpdateText(ctx context.Context, reviewID, userID, text string, at time.Time) (*models.Review, error) {
	return getOne[models.Review](ctx, r.db, r.sb.Update("reviews").
		Set("text", text).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": reviewID, "user_id": userID}).
		Suffix("RETURNING "+joinColumns(reviewColumns)), "review")
}

// ListByTeacher returns the newest reviews of a teacher
func (r *PgReviewRepository) ListByTeacher(ctx context.Context, teacherID string, limit int) ([]*models.Review, error) {
	return getMany[models.Review](ctx, r.db, r.sb.Select(reviewColumns...).
		From("reviews").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)), "reviews")
}

// ListDetailed returns every review with its teacher's name, newest first
func (r *PgReviewRepository) ListDetailed(ctx context.Context) ([]*models.ReviewListing, error) {
	columns := make([]string, 0, len(reviewColumns)+1)
	for _, c := range reviewColumns {
		columns = append(columns, "rv."+c)
	}
	columns = append(columns, "COALESCE(t.name, '') AS teacher_name")

	return getMany[models.ReviewListing](ctx, r.db, r.sb.Select(columns...).
		From("reviews rv").
		LeftJoin("teachers t ON t.id = rv.teacher_id").
		OrderBy("rv.created_at DESC"), "reviews")
}

// Delete removes a review
func (r *PgReviewRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, r.sb.Delete("reviews").Where(squirrel.Eq{"id": id}), "delete review")
}
