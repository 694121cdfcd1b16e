package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/helpers"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = apperrors.ErrNotFound

// SchoolRepository stores schools. Deleting a school removes its classes and
// teachers (with their reviews and ratings) and detaches users.
type SchoolRepository interface {
	Create(ctx context.Context, school *models.School) error
	GetByID(ctx context.Context, id string) (*models.School, error)
	List(ctx context.Context) ([]*models.School, error)
	Delete(ctx context.Context, id string) error
}

// ClassRepository stores classes. Deleting a class removes its teachers (with
// their reviews and ratings) and detaches users.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id string) (*models.Class, error)
	ListBySchool(ctx context.Context, schoolID string) ([]*models.Class, error)
	List(ctx context.Context) ([]*models.Class, error)
	Delete(ctx context.Context, id string) error
}

// UserRepository stores student accounts
type UserRepository interface {
	// Create fails with apperrors.ErrUsernameTaken on a duplicate username
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// CompleteSetup binds school and class once; a second call fails with apperrors.ErrAlreadySetUp
	CompleteSetup(ctx context.Context, userID, schoolID, classID string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	List(ctx context.Context) ([]*models.User, error)
	// Delete removes the user with their reviews, ratings and discussions and
	// recomputes the aggregates of every teacher they had rated
	Delete(ctx context.Context, id string) error
}

// TeacherRepository stores teachers. Aggregate columns are never written here.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	ListByClass(ctx context.Context, classID string) ([]*models.Teacher, error)
	ListDetailed(ctx context.Context) ([]*models.TeacherListing, error)
	Delete(ctx context.Context, id string) error
}

// ReviewRepository stores reviews
type ReviewRepository interface {
	// Create fails with apperrors.ErrReviewExists when the pair already has a review
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	FindByTeacherAndUser(ctx context.Context, teacherID, userID string) (*models.Review, error)
	// UpdateText only touches a review owned by userID
	UpdateText(ctx context.Context, reviewID, userID, text string, at time.Time) (*models.Review, error)
	ListByTeacher(ctx context.Context, teacherID string, limit int) ([]*models.Review, error)
	ListDetailed(ctx context.Context) ([]*models.ReviewListing, error)
	Delete(ctx context.Context, id string) error
}

// RatingRepository stores ratings and owns the teacher aggregates
type RatingRepository interface {
	FindByTeacherAndUser(ctx context.Context, teacherID, userID string) (*models.Rating, error)
	// Record upserts the rating and recomputes the teacher's average and count
	// in one transaction. rating is updated with the stored row.
	Record(ctx context.Context, rating *models.Rating) (*models.Teacher, error)
}

// DiscussionRepository stores the discussion board
type DiscussionRepository interface {
	Create(ctx context.Context, discussion *models.Discussion) error
	// List returns pinned messages first, newest first within each group
	List(ctx context.Context, limit int) ([]*models.Discussion, error)
	TogglePin(ctx context.Context, id string) (*models.Discussion, error)
	Delete(ctx context.Context, id string) error
}

// AdminConfigRepository stores the single admin configuration row
type AdminConfigRepository interface {
	Get(ctx context.Context) (*models.AdminConfig, error)
	// CreateIfAbsent reports whether cfg was inserted
	CreateIfAbsent(ctx context.Context, cfg *models.AdminConfig) (bool, error)
	UpdateFlags(ctx context.Context, patch models.AdminConfigPatch, at time.Time) (*models.AdminConfig, error)
	UpdateSecret(ctx context.Context, secretHash string, at time.Time) error
}

// HealthChecker reports whether the backing store answers
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Repositories holds all the repository instances of one store
type Repositories struct {
	Schools     SchoolRepository
	Classes     ClassRepository
	Users       UserRepository
	Teachers    TeacherRepository
	Reviews     ReviewRepository
	Ratings     RatingRepository
	Discussions DiscussionRepository
	AdminConfig AdminConfigRepository
	Health      HealthChecker
}

// AssignIdentity fills in a fresh id and creation time where they are unset
func AssignIdentity(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = helpers.NowUTC()
	}
}
