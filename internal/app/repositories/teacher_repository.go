package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

var teacherColumns = []string{
	"id", "name", "qualifications", "image_url", "class_id", "school_id",
	"average_rating", "total_ratings", "created_at",
}

// PgTeacherRepository handles teacher database operations
type PgTeacherRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new PgTeacherRepository
func NewTeacherRepository(db *pgxpool.Pool) *PgTeacherRepository {
	return &PgTeacherRepository{db: db, sb: newStatementBuilder()}
}

// Create inserts a teacher with zeroed aggregates
func (r *PgTeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	AssignIdentity(&teacher.ID, &teacher.CreatedAt)
	teacher.AverageRating = 0
	teacher.TotalRatings = 0

	sql, args, err := r.sb.Insert("teachers").
		Columns(teacherColumns...).
		Values(teacher.ID, teacher.Name, teacher.Qualifications, teacher.ImageURL, teacher.ClassID, teacher.SchoolID,
			teacher.AverageRating, teacher.TotalRatings, teacher.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create teacher query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("classId", teacher.ClassID).Msg("Error executing create teacher query")
		return fmt.Errorf("error creating teacher: %w", err)
	}
	return nil
}

// GetByID retrieves a teacher by ID
func (r *PgTeacherRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	return getOne[models.Teacher](ctx, r.db, r.sb.Select(teacherColumns...).
		From("teachers").
		Where(squirrel.Eq{"id": id}), "teacher")
}

// Update replaces the descriptive fields and placement of a teacher
func (r *PgTeacherRepository) Update(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	return getOne[models.Teacher](ctx, r.db, r.sb.Update("teachers").
		Set("name", teacher.Name).
		Set("qualifications", teacher.Qualifications).
		Set("image_url", teacher.ImageURL).
		Set("class_id", teacher.ClassID).
		Set("school_id", teacher.SchoolID).
		Where(squirrel.Eq{"id": teacher.ID}).
		Suffix("RETURNING "+joinColumns(teacherColumns)), "teacher")
}

// ListByClass returns the teachers of one class ordered by name
func (r *PgTeacherRepository) ListByClass(ctx context.Context, classID string) ([]*models.Teacher, error) {
	return getMany[models.Teacher](ctx, r.db, r.sb.Select(teacherColumns...).
		From("teachers").
		Where(squirrel.Eq{"class_id": classID}).
		OrderBy("name ASC", "created_at ASC"), "teachers")
}

// ListDetailed returns every teacher with school and class names, newest first
func (r *PgTeacherRepository) ListDetailed(ctx context.Context) ([]*models.TeacherListing, error) {
	columns := make([]string, 0, len(teacherColumns)+2)
	for _, c := range teacherColumns {
		columns = append(columns, "t."+c)
	}
	columns = append(columns, "COALESCE(s.name, '') AS school_name", "COALESCE(c.name, '') AS class_name")

	return getMany[models.TeacherListing](ctx, r.db, r.sb.Select(columns...).
		From("teachers t").
		LeftJoin("schools s ON s.id = t.school_id").
		LeftJoin("classes c ON c.id = t.class_id").
		OrderBy("t.created_at DESC"), "teachers")
}

// Delete removes a teacher; reviews and ratings cascade
func (r *PgTeacherRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, r.sb.Delete("teachers").Where(squirrel.Eq{"id": id}), "delete teacher")
}
