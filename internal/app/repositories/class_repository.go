package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

var classColumns = []string{"id", "name", "school_id", "created_at"}

// PgClassRepository handles class database operations
type PgClassRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClassRepository creates a new PgClassRepository
func NewClassRepository(db *pgxpool.Pool) *PgClassRepository {
	return &PgClassRepository{db: db, sb: newStatementBuilder()}
}

// Create inserts a class
func (r *PgClassRepository) Create(ctx context.Context, class *models.Class) error {
	AssignIdentity(&class.ID, &class.CreatedAt)

	sql, args, err := r.sb.Insert("classes").
		Columns(classColumns...).
		Values(class.ID, class.Name, class.SchoolID, class.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create class query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("schoolId", class.SchoolID).Msg("Error executing create class query")
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

// GetByID retrieves a class by ID
func (r *PgClassRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	return getOne[models.Class](ctx, r.db, r.sb.Select(classColumns...).
		From("classes").
		Where(squirrel.Eq{"id": id}), "class")
}

// ListBySchool returns the classes of one school ordered by name
func (r *PgClassRepository) ListBySchool(ctx context.Context, schoolID string) ([]*models.Class, error) {
	return getMany[models.Class](ctx, r.db, r.sb.Select(classColumns...).
		From("classes").
		Where(squirrel.Eq{"school_id": schoolID}).
		OrderBy("name ASC", "created_at ASC"), "classes")
}

// List returns every class ordered by name
func (r *PgClassRepository) List(ctx context.Context) ([]*models.Class, error) {
	return getMany[models.Class](ctx, r.db, r.sb.Select(classColumns...).
		From("classes").
		OrderBy("name ASC", "created_at ASC"), "classes")
}

// Delete removes a class; foreign keys cascade to teachers, reviews and
// ratings and detach users
func (r *PgClassRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, r.sb.Delete("classes").Where(squirrel.Eq{"id": id}), "delete class")
}
