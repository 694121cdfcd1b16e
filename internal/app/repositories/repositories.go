package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/ratemyteacher/internal/db"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepositories initializes the PostgreSQL-backed repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	pool := database.Pool
	return &Repositories{
		Schools:     NewSchoolRepository(pool),
		Classes:     NewClassRepository(pool),
		Users:       NewUserRepository(pool),
		Teachers:    NewTeacherRepository(pool),
		Reviews:     NewReviewRepository(pool),
		Ratings:     NewRatingRepository(pool),
		Discussions: NewDiscussionRepository(pool),
		AdminConfig: NewAdminConfigRepository(pool),
		Health:      database,
	}
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// getOne runs a single-row query and scans it by column name
func getOne[T any](ctx context.Context, q querier, query squirrel.Sqlizer, what string) (*T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get %s query: %w", what, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("entity", what).Msg("Error executing get query")
		return nil, fmt.Errorf("error getting %s: %w", what, err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning %s: %w", what, err)
	}
	return item, nil
}

// getMany runs a query and scans every row by column name
func getMany[T any](ctx context.Context, q querier, query squirrel.Sqlizer, what string) ([]*T, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list %s query: %w", what, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("entity", what).Msg("Error executing list query")
		return nil, fmt.Errorf("error listing %s: %w", what, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByNameLax[T])
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", what, err)
	}
	return items, nil
}

// execAffecting runs a statement and maps zero affected rows to ErrNotFound
func execAffecting(ctx context.Context, q querier, query squirrel.Sqlizer, what string) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s query: %w", what, err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("statement", what).Msg("Error executing statement")
		return fmt.Errorf("error executing %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// recomputeTeacherAggregatesSQL derives average_rating and total_ratings from the ratings table
const recomputeTeacherAggregatesSQL = `
UPDATE teachers SET
	average_rating = COALESCE((SELECT AVG(r.rating)::float8 FROM ratings r WHERE r.teacher_id = teachers.id), 0),
	total_ratings  = (SELECT COUNT(*) FROM ratings r WHERE r.teacher_id = teachers.id)
WHERE id = ANY($1)`

func recomputeTeacherAggregates(ctx context.Context, q querier, teacherIDs []string) error {
	if len(teacherIDs) == 0 {
		return nil
	}
	if _, err := q.Exec(ctx, recomputeTeacherAggregatesSQL, teacherIDs); err != nil {
		return fmt.Errorf("error recomputing teacher aggregates: %w", err)
	}
	return nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

var (
	_ SchoolRepository      = (*PgSchoolRepository)(nil)
	_ ClassRepository       = (*PgClassRepository)(nil)
	_ UserRepository        = (*PgUserRepository)(nil)
	_ TeacherRepository     = (*PgTeacherRepository)(nil)
	_ ReviewRepository      = (*PgReviewRepository)(nil)
	_ RatingRepository      = (*PgRatingRepository)(nil)
	_ DiscussionRepository  = (*PgDiscussionRepository)(nil)
	_ AdminConfigRepository = (*PgAdminConfigRepository)(nil)
)
