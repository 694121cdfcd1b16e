// Package testutil provides stores and fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/app/repositories/gormrepo"
	"github.com/yigit/ratemyteacher/internal/db"
	"github.com/yigit/ratemyteacher/internal/pkg/auth"
)

// Password is the plain-text password of every fixture user
const Password = "password123"

// Hasher returns a fast bcrypt hasher for tests
func Hasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(bcrypt.MinCost)
}

// Username returns a distinct valid username for index i
func Username(i int) string {
	return fmt.Sprintf("user%03d", i)
}

// NewSQLiteDB opens a migrated SQLite database in a temporary directory
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, gormrepo.AutoMigrate(context.Background(), gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// NewRepositories returns the SQLite-backed repositories
func NewRepositories(t *testing.T) *repositories.Repositories {
	t.Helper()
	return gormrepo.NewRepositories(NewSQLiteDB(t))
}

// Fixtures creates catalog and account rows through the repositories
type Fixtures struct {
	t     *testing.T
	repos *repositories.Repositories
	seq   int
}

// NewFixtures creates a fixture builder over repos
func NewFixtures(t *testing.T, repos *repositories.Repositories) *Fixtures {
	return &Fixtures{t: t, repos: repos}
}

func (f *Fixtures) next() time.Time {
	// strictly increasing timestamps keep ordering assertions deterministic
	f.seq++
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(f.seq) * time.Minute)
}

// School creates a school
func (f *Fixtures) School(name string) *models.School {
	f.t.Helper()
	school := &models.School{Name: name, CreatedAt: f.next()}
	require.NoError(f.t, f.repos.Schools.Create(context.Background(), school))
	return school
}

// Class creates a class in school
func (f *Fixtures) Class(school *models.School, name string) *models.Class {
	f.t.Helper()
	class := &models.Class{Name: name, SchoolID: school.ID, CreatedAt: f.next()}
	require.NoError(f.t, f.repos.Classes.Create(context.Background(), class))
	return class
}

// Teacher creates a teacher in class
func (f *Fixtures) Teacher(class *models.Class, name string) *models.Teacher {
	f.t.Helper()
	teacher := &models.Teacher{
		Name:           name,
		Qualifications: "BSc Education",
		ImageURL:       fmt.Sprintf("http://localhost:8080/uploads/%s.png", name),
		ClassID:        class.ID,
		SchoolID:       class.SchoolID,
		CreatedAt:      f.next(),
	}
	require.NoError(f.t, f.repos.Teachers.Create(context.Background(), teacher))
	return teacher
}

// User creates an account that has not completed setup
func (f *Fixtures) User(username string) *models.User {
	f.t.Helper()
	hash, err := Hasher().Hash(Password)
	require.NoError(f.t, err)

	user := &models.User{Username: username, PasswordHash: hash, CreatedAt: f.next()}
	require.NoError(f.t, f.repos.Users.Create(context.Background(), user))
	return user
}

// SetUpUser creates an account bound to class
func (f *Fixtures) SetUpUser(username string, class *models.Class) *models.User {
	f.t.Helper()
	user := f.User(username)
	updated, err := f.repos.Users.CompleteSetup(context.Background(), user.ID, class.SchoolID, class.ID)
	require.NoError(f.t, err)
	return updated
}

// Review creates a review by user
func (f *Fixtures) Review(teacher *models.Teacher, user *models.User, text string) *models.Review {
	f.t.Helper()
	at := f.next()
	review := &models.Review{
		TeacherID: teacher.ID,
		UserID:    user.ID,
		Username:  user.Username,
		Text:      text,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(f.t, f.repos.Reviews.Create(context.Background(), review))
	return review
}

// Discussion creates a discussion message by user
func (f *Fixtures) Discussion(user *models.User, message string) *models.Discussion {
	f.t.Helper()
	d := &models.Discussion{UserID: user.ID, Username: user.Username, Message: message, CreatedAt: f.next()}
	require.NoError(f.t, f.repos.Discussions.Create(context.Background(), d))
	return d
}

// Rate records a rating by user
func (f *Fixtures) Rate(teacher *models.Teacher, user *models.User, value int) *models.Teacher {
	f.t.Helper()
	updated, err := f.repos.Ratings.Record(context.Background(), &models.Rating{
		TeacherID: teacher.ID,
		UserID:    user.ID,
		Rating:    value,
	})
	require.NoError(f.t, err)
	return updated
}
