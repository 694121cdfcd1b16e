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
	"github.com/yigit/ratemyteacher/internal/pkg/dberrors"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

var userColumns = []string{"id", "username", "password_hash", "school_id", "class_id", "is_setup", "created_at"}

// PgUserRepository handles user database operations
type PgUserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new PgUserRepository
func NewUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db, sb: newStatementBuilder()}
}

// Create inserts a user
func (r *PgUserRepository) Create(ctx context.Context, user *models.User) error {
	AssignIdentity(&user.ID, &user.CreatedAt)

	sql, args, err := r.sb.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Username, user.PasswordHash, user.SchoolID, user.ClassID, user.IsSetup, user.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameTaken
		}
		logger.Error().Err(err).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PgUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return getOne[models.User](ctx, r.db, r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}), "user")
}

// GetByUsername retrieves a user by exact username
func (r *PgUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return getOne[models.User](ctx, r.db, r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"username": username}), "user")
}

// CompleteSetup sets school and class only while the user is not yet set up.
// The conditional update makes concurrent setups resolve to a single winner.
func (r *PgUserRepository) CompleteSetup(ctx context.Context, userID, schoolID, classID string) (*models.User, error) {
	user, err := getOne[models.User](ctx, r.db, r.sb.Update("users").
		Set("school_id", schoolID).
		Set("class_id", classID).
		Set("is_setup", true).
		Where(squirrel.Eq{"id": userID, "is_setup": false}).
		Suffix("RETURNING "+joinColumns(userColumns)), "user")
	if errors.Is(err, ErrNotFound) {
		if _, lookupErr := r.GetByID(ctx, userID); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, apperrors.ErrAlreadySetUp
	}
	return user, err
}

// UpdatePassword replaces the stored password hash
func (r *PgUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return execAffecting(ctx, r.db, r.sb.Update("users").
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"id": userID}), "update password")
}

// List returns every user, newest first
func (r *PgUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return getMany[models.User](ctx, r.db, r.sb.Select(userColumns...).
		From("users").
		OrderBy("created_at DESC"), "users")
}

// Delete removes a user. Reviews, ratings and discussions go with it through
// foreign keys; the teachers they had rated get their aggregates recomputed.
func (r *PgUserRepository) Delete(ctx context.Context, id string) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select("teacher_id").From("ratings").Where(squirrel.Eq{"user_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build rated teachers query: %w", err)
		}
		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error loading rated teachers: %w", err)
		}
		teacherIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("error scanning rated teachers: %w", err)
		}

		if err := execAffecting(ctx, tx, r.sb.Delete("users").Where(squirrel.Eq{"id": id}), "delete user"); err != nil {
			return err
		}
		return recomputeTeacherAggregates(ctx, tx, teacherIDs)
	})
}
