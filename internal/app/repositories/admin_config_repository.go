package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/pkg/helpers"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

var adminConfigColumns = []string{"id", "secret_hash", "anonymous_reviews", "hide_teacher_images", "updated_at"}

// PgAdminConfigRepository handles the admin_config row
type PgAdminConfigRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAdminConfigRepository creates a new PgAdminConfigRepository
func NewAdminConfigRepository(db *pgxpool.Pool) *PgAdminConfigRepository {
	return &PgAdminConfigRepository{db: db, sb: newStatementBuilder()}
}

// Get returns the admin configuration
func (r *PgAdminConfigRepository) Get(ctx context.Context) (*models.AdminConfig, error) {
	return getOne[models.AdminConfig](ctx, r.db, r.sb.Select(adminConfigColumns...).
		From("admin_config").
		Where(squirrel.Eq{"id": models.AdminConfigID}), "admin config")
}

// CreateIfAbsent inserts cfg unless the row already exists
func (r *PgAdminConfigRepository) CreateIfAbsent(ctx context.Context, cfg *models.AdminConfig) (bool, error) {
	cfg.ID = models.AdminConfigID
	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = helpers.NowUTC()
	}

	sql, args, err := r.sb.Insert("admin_config").
		Columns(adminConfigColumns...).
		Values(cfg.ID, cfg.SecretHash, cfg.AnonymousReviews, cfg.HideTeacherImages, cfg.UpdatedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build create admin config query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create admin config query")
		return false, fmt.Errorf("error creating admin config: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateFlags applies the set fields of patch
func (r *PgAdminConfigRepository) UpdateFlags(ctx context.Context, patch models.AdminConfigPatch, at time.Time) (*models.AdminConfig, error) {
	query := r.sb.Update("admin_config").
		Set("updated_at", at).
		Where(squirrel.Eq{"id": models.AdminConfigID}).
		Suffix("RETURNING " + joinColumns(adminConfigColumns))
	if patch.AnonymousReviews != nil {
		query = query.Set("anonymous_reviews", *patch.AnonymousReviews)
	}
	if patch.HideTeacherImages != nil {
		query = query.Set("hide_teacher_images", *patch.HideTeacherImages)
	}
	return getOne[models.AdminConfig](ctx, r.db, query, "admin config")
}

// UpdateSecret replaces the admin secret hash
func (r *PgAdminConfigRepository) UpdateSecret(ctx context.Context, secretHash string, at time.Time) error {
	return execAffecting(ctx, r.db, r.sb.Update("admin_config").
		Set("secret_hash", secretHash).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": models.AdminConfigID}), "update admin secret")
}
