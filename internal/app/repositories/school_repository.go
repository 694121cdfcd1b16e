package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

var schoolColumns = []string{"id", "name", "created_at"}

// PgSchoolRepository handles school database operations
type PgSchoolRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSchoolRepository creates a new PgSchoolRepository
func NewSchoolRepository(db *pgxpool.Pool) *PgSchoolRepository {
	return &PgSchoolRepository{db: db, sb: newStatementBuilder()}
}

// Create inserts a school
func (r *PgSchoolRepository) Create(ctx context.Context, school *models.School) error {
	AssignIdentity(&school.ID, &school.CreatedAt)

	sql, args, err := r.sb.Insert("schools").
		Columns(schoolColumns...).
		Values(school.ID, school.Name, school.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create school query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error executing create school query")
		return fmt.Errorf("error creating school: %w", err)
	}
	return nil
}

// GetByID retrieves a school by ID
func (r *PgSchoolRepository) GetByID(ctx context.Context, id string) (*models.School, error) {
	return getOne[models.School](ctx, r.db, r.sb.Select(schoolColumns...).
		From("schools").
		Where(squirrel.Eq{"id": id}), "school")
}

// List returns all schools ordered by name
func (r *PgSchoolRepository) List(ctx context.Context) ([]*models.School, error) {
	return getMany[models.School](ctx, r.db, r.sb.Select(schoolColumns...).
		From("schools").
		OrderBy("name ASC", "created_at ASC"), "schools")
}

// Delete removes a school; foreign keys cascade to classes, teachers, reviews
// and ratings and detach users
func (r *PgSchoolRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, r.sb.Delete("schools").Where(squirrel.Eq{"id": id}), "delete school")
}
