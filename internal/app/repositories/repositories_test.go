package repositories_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/testutil"
)

type storeFactory func(t *testing.T) *repositories.Repositories

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, testutil.NewRepositories)
}

func TestPostgresStore(t *testing.T) {
	database := testutil.NewPostgresDB(t)
	runStoreSuite(t, func(t *testing.T) *repositories.Repositories {
		_, err := database.Pool.Exec(context.Background(),
			`TRUNCATE schools, classes, users, teachers, reviews, ratings, discussions, admin_config CASCADE`)
		require.NoError(t, err)
		return repositories.NewRepositories(database)
	})
}

func runStoreSuite(t *testing.T, newStore storeFactory) {
	cases := map[string]func(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures){
		"usernames are unique":               testUniqueUsername,
		"setup happens once":                 testSetupOnce,
		"one review per teacher and user":    testReviewUniqueness,
		"review updates are owner scoped":    testReviewOwnership,
		"ratings upsert and aggregate":       testRatingAggregates,
		"concurrent ratings stay consistent": testConcurrentRatings,
		"discussion board ordering":          testDiscussionBoard,
		"school deletion cascades":           testSchoolCascade,
		"user deletion recomputes averages":  testUserDeletion,
		"admin config singleton":             testAdminConfig,
		"teacher listing and updates":        testTeacherListing,
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repos := newStore(t)
			tc(t, repos, testutil.NewFixtures(t, repos))
		})
	}
}

func testUniqueUsername(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	fx.User("alice")

	err := repos.Users.Create(context.Background(), &models.User{Username: "alice", PasswordHash: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	found, err := repos.Users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, found.IsSetup)

	_, err = repos.Users.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testSetupOnce(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	ctx := context.Background()
	school := fx.School("North")
	class := fx.Class(school, "9-A")
	user := fx.User("bob")

	updated, err := repos.Users.CompleteSetup(ctx, user.ID, school.ID, class.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsSetup)
	require.NotNil(t, updated.ClassID)
	assert.Equal(t, class.ID, *updated.ClassID)

	other := fx.Class(school, "9-B")
	_, err = repos.Users.CompleteSetup(ctx, user.ID, school.ID, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadySetUp)

	reloaded, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, class.ID, *reloaded.ClassID)

	_, err = repos.Users.CompleteSetup(ctx, "missing", school.ID, class.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testReviewUniqueness(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	ctx := context.Background()
	class := fx.Class(fx.School("North"), "9-A")
	teacher := fx.Teacher(class, "Smith")
	user := fx.SetUpUser("carol", class)

	fx.Review(teacher, user, "first")
	err := repos.Reviews.Create(ctx, &models.Review{TeacherID: teacher.ID, UserID: user.ID, Username: user.Username, Text: "second"})
	assert.ErrorIs(t, err, apperrors.ErrReviewExists)

	for i := 0; i < 3; i++ {
		fx.Review(teacher, fx.SetUpUser(fmt.Sprintf("reader%d", i), class), fmt.Sprintf("review %d", i))
	}

	latest, err := repos.Reviews.ListByTeacher(ctx, teacher.ID, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "review 2", latest[0].Text)
	assert.Equal(t, "review 1", latest[1].Text)

	mine, err := repos.Reviews.FindByTeacherAndUser(ctx, teacher.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", mine.Text)
}

func testReviewOwnership(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	ctx := context.Background()
	class := fx.Class(fx.School("North"), "9-A")
	teacher := fx.Teacher(class, "Smith")
	author := fx.SetUpUser("dave", class)
	intruder := fx.SetUpUser("eve", class)
	review := fx.Review(teacher, author, "original")

	_, err := repos.Reviews.UpdateText(ctx, review.ID, intruder.ID, "hijacked", time.Now().UTC())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	updated, err := repos.Reviews.UpdateText(ctx, review.ID, author.ID, "edited", at)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.True(t, updated.UpdatedAt.Equal(at))
	assert.True(t, updated.CreatedAt.Equal(review.CreatedAt))

	require.NoError(t, repos.Reviews.Delete(ctx, review.ID))
	assert.ErrorIs(t, repos.Reviews.Delete(ctx, review.ID), apperrors.ErrNotFound)
}

func testRatingAggregates(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	ctx := context.Background()
	class := fx.Class(fx.School("North"), "9-A")
	teacher := fx.Teacher(class, "Smith")
	u1 := fx.SetUpUser("u1", class)
	u2 := fx.SetUpUser("u2", class)

	updated := fx.Rate(teacher, u1, 5)
	assert.InDelta(t, 5.0, updated.AverageRating, 1e-9)
	assert.Equal(t, 1, updated.TotalRatings)

	updated = fx.Rate(teacher, u2, 3)
	assert.InDelta(t, 4.0, updated.AverageRating, 1e-9)
	assert.Equal(t, 2, updated.TotalRatings)

	first, err := repos.Ratings.FindByTeacherAndUser(ctx, teacher.ID, u1.ID)
	require.NoError(t, err)

	rerated := &models.Rating{TeacherID: teacher.ID, UserID: u1.ID, Rating: 1}
	updated, err = repos.Ratings.Record(ctx, rerated)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, updated.AverageRating, 1e-9)
	assert.Equal(t, 2, updated.TotalRatings)
	assert.Equal(t, first.ID, rerated.ID, "re-rating keeps the stored row")
	assert.Equal(t, 1, rerated.Rating)

	_, err = repos.Ratings.Record(ctx, &models.Rating{TeacherID: "missing", UserID: u1.ID, Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testConcurrentRatings(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	ctx := context.Background()
	class := fx.Class(fx.School("North"), "9-A")
	teacher := fx.Teacher(class, "Smith")

	const raters = 10
	users := make([]*models.User, raters)
	for i := range users {
		users[i] = fx.SetUpUser(fmt.Sprintf("rater%d", i), class)
	}

	var wg sync.WaitGroup
	errs := make(chan error, raters)
	sum := 0
	for i, u := range users {
		value := i%5 + 1
		sum += value
		wg.Add(1)
		go func(u *models.User, value int) {
			defer wg.Done()
			_, err := repos.Ratings.Record(ctx, &models.Rating{TeacherID: teacher.ID, UserID: u.ID, Rating: value})
			errs <- err
		}(u, value)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	final, err := repos.Teachers.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, raters, final.TotalRatings)
	assert.InDelta(t, float64(sum)/raters, final.AverageRating, 1e-9)
}

func testDiscussionBoard(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	ctx := context.Background()
	user := fx.User("frank")
	oldest := fx.Discussion(user, "oldest")
	fx.Discussion(user, "middle")
	fx.Discussion(user, "newest")

	pinned, err := repos.Discussions.TogglePin(ctx, oldest.ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	board, err := repos.Discussions.List(ctx, 100)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, []string{"oldest", "newest", "middle"}, []string{board[0].Message, board[1].Message, board[2].Message})

	unpinned, err := repos.Discussions.TogglePin(ctx, oldest.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)

	limited, err := repos.Discussions.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = repos.Discussions.TogglePin(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repos.Discussions.Delete(ctx, "missing"), apperrors.ErrNotFound)
}

func testSchoolCascade(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	ctx := context.Background()
	doomed := fx.School("Doomed")
	kept := fx.School("Kept")
	doomedClass := fx.Class(doomed, "1-A")
	keptClass := fx.Class(kept, "1-A")
	doomedTeacher := fx.Teacher(doomedClass, "Gone")
	keptTeacher := fx.Teacher(keptClass, "Stays")

	student := fx.SetUpUser("grace", doomedClass)
	other := fx.SetUpUser("heidi", keptClass)
	review := fx.Review(doomedTeacher, student, "bye")
	fx.Rate(doomedTeacher, student, 4)
	fx.Review(keptTeacher, other, "hi")

	require.NoError(t, repos.Schools.Delete(ctx, doomed.ID))

	_, err := repos.Schools.GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repos.Classes.GetByID(ctx, doomedClass.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repos.Teachers.GetByID(ctx, doomedTeacher.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repos.Reviews.GetByID(ctx, review.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = repos.Ratings.FindByTeacherAndUser(ctx, doomedTeacher.ID, student.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	detached, err := repos.Users.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.SchoolID)
	assert.Nil(t, detached.ClassID)

	_, err = repos.Teachers.GetByID(ctx, keptTeacher.ID)
	assert.NoError(t, err)
	remaining, err := repos.Reviews.ListByTeacher(ctx, keptTeacher.ID, 50)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	assert.ErrorIs(t, repos.Schools.Delete(ctx, doomed.ID), apperrors.ErrNotFound)
}

func testUserDeletion(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	ctx := context.Background()
	class := fx.Class(fx.School("North"), "9-A")
	teacher := fx.Teacher(class, "Smith")
	stays := fx.SetUpUser("ivan", class)
	leaves := fx.SetUpUser("judy", class)

	fx.Rate(teacher, stays, 5)
	updated := fx.Rate(teacher, leaves, 1)
	assert.InDelta(t, 3.0, updated.AverageRating, 1e-9)
	fx.Review(teacher, leaves, "meh")
	fx.Discussion(leaves, "bye all")

	require.NoError(t, repos.Users.Delete(ctx, leaves.ID))

	after, err := repos.Teachers.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.TotalRatings)
	assert.InDelta(t, 5.0, after.AverageRating, 1e-9)

	reviews, err := repos.Reviews.ListByTeacher(ctx, teacher.ID, 50)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	board, err := repos.Discussions.List(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, board)

	assert.ErrorIs(t, repos.Users.Delete(ctx, leaves.ID), apperrors.ErrNotFound)
}

func testAdminConfig(t *testing.T, repos *repositories.Repositories, _ *testutil.Fixtures) {
	ctx := context.Background()

	_, err := repos.AdminConfig.Get(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	created, err := repos.AdminConfig.CreateIfAbsent(ctx, &models.AdminConfig{SecretHash: "h1"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repos.AdminConfig.CreateIfAbsent(ctx, &models.AdminConfig{SecretHash: "h2"})
	require.NoError(t, err)
	assert.False(t, created)

	on := true
	cfg, err := repos.AdminConfig.UpdateFlags(ctx, models.AdminConfigPatch{AnonymousReviews: &on}, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, cfg.AnonymousReviews)
	assert.False(t, cfg.HideTeacherImages)
	assert.Equal(t, "h1", cfg.SecretHash)

	off := false
	cfg, err = repos.AdminConfig.UpdateFlags(ctx, models.AdminConfigPatch{HideTeacherImages: &on, AnonymousReviews: &off}, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, cfg.AnonymousReviews)
	assert.True(t, cfg.HideTeacherImages)

	require.NoError(t, repos.AdminConfig.UpdateSecret(ctx, "h3", time.Now().UTC()))
	cfg, err = repos.AdminConfig.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "h3", cfg.SecretHash)
}

func testTeacherListing(t *testing.T, repos *repositories.Repositories, fx *testutil.Fixtures) {
	ctx := context.Background()
	school := fx.School("North")
	class := fx.Class(school, "9-A")
	older := fx.Teacher(class, "Zed")
	newer := fx.Teacher(class, "Amy")

	byClass, err := repos.Teachers.ListByClass(ctx, class.ID)
	require.NoError(t, err)
	require.Len(t, byClass, 2)
	assert.Equal(t, "Amy", byClass[0].Name)

	listing, err := repos.Teachers.ListDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, listing, 2)
	assert.Equal(t, newer.ID, listing[0].ID)
	assert.Equal(t, "North", listing[0].SchoolName)
	assert.Equal(t, "9-A", listing[0].ClassName)

	older.Name = "Zed Jr."
	older.ImageURL = ""
	updated, err := repos.Teachers.Update(ctx, older)
	require.NoError(t, err)
	assert.Equal(t, "Zed Jr.", updated.Name)
	assert.Empty(t, updated.ImageURL)

	user := fx.SetUpUser("kim", class)
	fx.Review(newer, user, "nice")
	fx.Rate(newer, user, 4)
	require.NoError(t, repos.Teachers.Delete(ctx, newer.ID))

	reviews, err := repos.Reviews.ListDetailed(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	_, err = repos.Ratings.FindByTeacherAndUser(ctx, newer.ID, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repos.Teachers.Update(ctx, &models.Teacher{ID: "missing", Name: "x", ClassID: class.ID, SchoolID: school.ID})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
