package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

var discussionColumns = []string{"id", "user_id", "username", "message", "is_pinned", "created_at"}

// PgDiscussionRepository handles discussion board database operations
type PgDiscussionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDiscussionRepository creates a new PgDiscussionRepository
func NewDiscussionRepository(db *pgxpool.Pool) *PgDiscussionRepository {
	return &PgDiscussionRepository{db: db, sb: newStatementBuilder()}
}

// Create inserts a discussion message
func (r *PgDiscussionRepository) Create(ctx context.Context, discussion *models.Discussion) error {
	AssignIdentity(&discussion.ID, &discussion.CreatedAt)

	sql, args, err := r.sb.Insert("discussions").
		Columns(discussionColumns...).
		Values(discussion.ID, discussion.UserID, discussion.Username, discussion.Message, discussion.IsPinned, discussion.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create discussion query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error executing create discussion query")
		return fmt.Errorf("error creating discussion: %w", err)
	}
	return nil
}

// List returns pinned messages first, then newest first
func (r *PgDiscussionRepository) List(ctx context.Context, limit int) ([]*models.Discussion, error) {
	return getMany[models.Discussion](ctx, r.db, r.sb.Select(discussionColumns...).
		From("discussions").
		OrderBy("is_pinned DESC", "created_at DESC").
		Limit(uint64(limit)), "discussions")
}

// TogglePin flips the pinned flag in a single statement
func (r *PgDiscussionRepository) TogglePin(ctx context.Context, id string) (*models.Discussion, error) {
	return getOne[models.Discussion](ctx, r.db, r.sb.Update("discussions").
		Set("is_pinned", squirrel.Expr("NOT is_pinned")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING "+joinColumns(discussionColumns)), "discussion")
}

// Delete removes a discussion message
func (r *PgDiscussionRepository) Delete(ctx context.Context, id string) error {
	return execAffecting(ctx, r.db, r.sb.Delete("discussions").Where(squirrel.Eq{"id": id}), "delete discussion")
}
