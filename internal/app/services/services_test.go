package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/ratemyteacher/internal/app/moderation"
	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/repositories"
	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/auth"
	"github.com/yigit/ratemyteacher/internal/pkg/filestorage"
	"github.com/yigit/ratemyteacher/internal/testutil"
)

type env struct {
	repos       *repositories.Repositories
	fx          *testutil.Fixtures
	jwt         *auth.JWTService
	images      *filestorage.LocalStorage
	auth        services.AuthService
	adminConfig services.AdminConfigService
	catalog     services.CatalogService
	users       services.UserService
	teachers    services.TeacherService
	reviews     services.ReviewService
	ratings     services.RatingService
	discussions services.DiscussionService
}

func newEnv(t *testing.T) *env {
	repos := testutil.NewRepositories(t)
	hasher := testutil.Hasher()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", TokenIssuer: "test"})
	log := zerolog.Nop()
	images, err := filestorage.NewLocalStorage(t.TempDir(), "http://api.test/uploads")
	require.NoError(t, err)

	return &env{
		repos:       repos,
		fx:          testutil.NewFixtures(t, repos),
		jwt:         jwtService,
		images:      images,
		auth:        services.NewAuthService(repos.Users, repos.AdminConfig, hasher, jwtService, log),
		adminConfig: services.NewAdminConfigService(repos.AdminConfig, hasher, log),
		catalog:     services.NewCatalogService(repos.Schools, repos.Classes, log),
		users:       services.NewUserService(repos.Users, repos.Schools, repos.Classes, hasher, log),
		teachers:    services.NewTeacherService(repos.Teachers, repos.Classes, images, log),
		reviews:     services.NewReviewService(repos.Reviews, repos.Teachers, log),
		ratings:     services.NewRatingService(repos.Ratings, log),
		discussions: services.NewDiscussionService(repos.Discussions, log),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.auth.Register(ctx, "  jane.doe ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", resp.User.Username)
	assert.False(t, resp.User.IsSetup)
	assert.NotEmpty(t, resp.Token)

	_, err = e.auth.Register(ctx, "jane.doe", "another1")
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = e.auth.Register(ctx, "x", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = e.auth.Register(ctx, "bob", "123")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	login, err := e.auth.Login(ctx, "jane.doe", "secret123")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = e.auth.Login(ctx, "jane.doe", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = e.auth.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthenticateUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.fx.User("alice")

	token, err := e.jwt.GenerateUserToken(user.ID)
	require.NoError(t, err)

	caller, err := e.auth.AuthenticateUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.ID)

	adminToken, err := e.jwt.GenerateAdminToken()
	require.NoError(t, err)
	_, err = e.auth.AuthenticateUser(ctx, adminToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = e.auth.AuthenticateUser(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	require.NoError(t, e.users.Delete(ctx, user.ID))
	_, err = e.auth.AuthenticateUser(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestAdminLoginAndSecretChange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.adminConfig.EnsureDefault(ctx, "admin123")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = e.adminConfig.EnsureDefault(ctx, "other-secret")
	require.NoError(t, err)
	assert.False(t, created)

	token, err := e.auth.AdminLogin(ctx, "admin123")
	require.NoError(t, err)
	require.NoError(t, e.auth.AuthenticateAdmin(token))

	claims, err := e.jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)

	_, err = e.auth.AdminLogin(ctx, "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	userToken, err := e.jwt.GenerateUserToken(e.fx.User("bob").ID)
	require.NoError(t, err)
	assert.ErrorIs(t, e.auth.AuthenticateAdmin(userToken), apperrors.ErrUnauthenticated)

	require.NoError(t, e.adminConfig.ChangeSecret(ctx, "new-secret"))
	_, err = e.auth.AdminLogin(ctx, "admin123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = e.auth.AdminLogin(ctx, "new-secret")
	assert.NoError(t, err)

	// tokens issued before the change keep working
	assert.NoError(t, e.auth.AuthenticateAdmin(token))

	assert.ErrorIs(t, e.adminConfig.ChangeSecret(ctx, "abc"), apperrors.ErrValidationFailed)
}

func TestAdminLoginWithoutConfig(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.AdminLogin(context.Background(), "admin123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	policy, err := e.adminConfig.Policy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, moderation.Policy{}, policy)
}

func TestSetupOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	school := e.fx.School("North High")
	class := e.fx.Class(school, "9-A")
	other := e.fx.Class(e.fx.School("South High"), "9-B")
	user := e.fx.User("carol")

	_, err := e.users.Setup(ctx, user, school.ID, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = e.users.Setup(ctx, user, school.ID, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err := e.users.Setup(ctx, user, school.ID, class.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsSetup)
	require.NotNil(t, updated.ClassID)
	assert.Equal(t, class.ID, *updated.ClassID)

	// a stale caller value still hits the store-side guard
	_, err = e.users.Setup(ctx, user, other.SchoolID, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadySetUp)
	_, err = e.users.Setup(ctx, updated, other.SchoolID, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadySetUp)

	stored, err := e.repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, class.ID, *stored.ClassID)

	profile, err := e.users.Profile(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, "North High", profile.SchoolName)
	assert.Equal(t, "9-A", profile.ClassName)
}

func TestTeachersForUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	school := e.fx.School("North High")
	classA := e.fx.Class(school, "A")
	classB := e.fx.Class(school, "B")
	mine := e.fx.Teacher(classA, "Smith")
	e.fx.Teacher(classB, "Jones")

	_, err := e.teachers.ListForUser(ctx, e.fx.User("pending"), moderation.Policy{})
	assert.ErrorIs(t, err, apperrors.ErrSetupRequired)

	caller := e.fx.SetUpUser("dave", classA)
	teachers, err := e.teachers.ListForUser(ctx, caller, moderation.Policy{})
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, mine.ID, teachers[0].ID)
	assert.NotEmpty(t, teachers[0].ImageURL)

	hidden, err := e.teachers.ListForUser(ctx, caller, moderation.Policy{HideTeacherImages: true})
	require.NoError(t, err)
	assert.Empty(t, hidden[0].ImageURL)

	stored, err := e.teachers.Get(ctx, mine.ID, moderation.Policy{})
	require.NoError(t, err)
	assert.Equal(t, mine.ImageURL, stored.ImageURL)

	_, err = e.teachers.Get(ctx, "missing", moderation.Policy{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTeacherAdminCRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	school := e.fx.School("North High")
	class := e.fx.Class(school, "A")
	foreign := e.fx.Class(e.fx.School("Elsewhere"), "Z")

	_, err := e.teachers.Create(ctx, &dto.TeacherRequest{Name: "X", ClassID: foreign.ID, SchoolID: school.ID})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = e.teachers.Create(ctx, &dto.TeacherRequest{Name: " ", ClassID: class.ID, SchoolID: school.ID})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	teacher, err := e.teachers.Create(ctx, &dto.TeacherRequest{
		Name: "Ms. Brown", Qualifications: "PhD", ClassID: class.ID, SchoolID: school.ID,
	})
	require.NoError(t, err)
	e.fx.Rate(teacher, e.fx.SetUpUser("eve", class), 5)

	updated, err := e.teachers.Update(ctx, teacher.ID, &dto.TeacherRequest{
		Name: "Dr. Brown", ImageURL: "http://img/x.png", ClassID: class.ID, SchoolID: school.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Brown", updated.Name)
	assert.Equal(t, 5.0, updated.AverageRating)
	assert.Equal(t, 1, updated.TotalRatings)

	listing, err := e.teachers.ListDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, "North High", listing[0].SchoolName)
	assert.Equal(t, "A", listing[0].ClassName)

	require.NoError(t, e.teachers.Delete(ctx, teacher.ID))
	assert.ErrorIs(t, e.teachers.Delete(ctx, teacher.ID), apperrors.ErrNotFound)
	_, err = e.teachers.Update(ctx, teacher.ID, &dto.TeacherRequest{Name: "Y", ClassID: class.ID, SchoolID: school.ID})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTeacherImageCleanup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	school := e.fx.School("North High")
	class := e.fx.Class(school, "A")

	save := func() (string, string) {
		url, err := e.images.Save([]byte("png"), "teachers", ".png")
		require.NoError(t, err)
		path := e.images.GetFullPath(url)
		require.FileExists(t, path)
		return url, path
	}
	request := func(imageURL string) *dto.TeacherRequest {
		return &dto.TeacherRequest{Name: "Smith", ImageURL: imageURL, ClassID: class.ID, SchoolID: school.ID}
	}

	firstURL, firstPath := save()
	teacher, err := e.teachers.Create(ctx, request(firstURL))
	require.NoError(t, err)

	_, err = e.teachers.Update(ctx, teacher.ID, request(firstURL))
	require.NoError(t, err)
	assert.FileExists(t, firstPath, "an unchanged image is kept")

	_, err = e.teachers.Update(ctx, teacher.ID, request("https://cdn.example.com/smith.png"))
	require.NoError(t, err)
	assert.NoFileExists(t, firstPath, "a replaced local image is removed")

	secondURL, secondPath := save()
	_, err = e.teachers.Update(ctx, teacher.ID, request(secondURL))
	require.NoError(t, err)
	assert.FileExists(t, secondPath)

	require.NoError(t, e.teachers.Delete(ctx, teacher.ID))
	assert.NoFileExists(t, secondPath, "deleting the teacher removes its image")

	_, err = e.teachers.Update(ctx, teacher.ID, request(""))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviewLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	class := e.fx.Class(e.fx.School("North High"), "A")
	teacher := e.fx.Teacher(class, "Smith")
	author := e.fx.SetUpUser("frank", class)
	other := e.fx.SetUpUser("grace", class)

	mine, err := e.reviews.MyReview(ctx, teacher.ID, author, moderation.Policy{})
	require.NoError(t, err)
	assert.Nil(t, mine)

	review, err := e.reviews.Create(ctx, teacher.ID, author, "Great teacher", moderation.Policy{})
	require.NoError(t, err)

	_, err = e.reviews.Create(ctx, teacher.ID, author, "Again", moderation.Policy{})
	assert.ErrorIs(t, err, apperrors.ErrReviewExists)
	_, err = e.reviews.Create(ctx, "missing", author, "Hello", moderation.Policy{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = e.reviews.Create(ctx, teacher.ID, other, "   ", moderation.Policy{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	mine, err = e.reviews.MyReview(ctx, teacher.ID, author, moderation.Policy{})
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, "Great teacher", mine.Text)
	assert.Equal(t, "frank", mine.Username)

	_, err = e.reviews.Update(ctx, review.ID, other, "Hijacked", moderation.Policy{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	edited, err := e.reviews.Update(ctx, review.ID, author, "Even better", moderation.Policy{})
	require.NoError(t, err)
	assert.Equal(t, "Even better", edited.Text)

	anonymous, err := e.reviews.ListForTeacher(ctx, teacher.ID, moderation.Policy{AnonymousReviews: true})
	require.NoError(t, err)
	require.Len(t, anonymous, 1)
	assert.Equal(t, moderation.AnonymousName, anonymous[0].Username)

	_, err = e.reviews.ListForTeacher(ctx, "missing", moderation.Policy{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	listing, err := e.reviews.ListDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, listing, 1)
	assert.Equal(t, "frank", listing[0].Username)
	assert.Equal(t, "Smith", listing[0].TeacherName)

	require.NoError(t, e.reviews.Delete(ctx, review.ID))
	assert.ErrorIs(t, e.reviews.Delete(ctx, review.ID), apperrors.ErrNotFound)
}

func TestReviewResponsesFollowAnonymity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	class := e.fx.Class(e.fx.School("North High"), "A")
	teacher := e.fx.Teacher(class, "Smith")
	author := e.fx.SetUpUser("gina", class)
	anonymous := moderation.Policy{AnonymousReviews: true}

	created, err := e.reviews.Create(ctx, teacher.ID, author, "Clear lectures", anonymous)
	require.NoError(t, err)
	assert.Equal(t, moderation.AnonymousName, created.Username)

	edited, err := e.reviews.Update(ctx, created.ID, author, "Very clear lectures", anonymous)
	require.NoError(t, err)
	assert.Equal(t, moderation.AnonymousName, edited.Username)

	mine, err := e.reviews.MyReview(ctx, teacher.ID, author, anonymous)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, moderation.AnonymousName, mine.Username)

	stored, err := e.repos.Reviews.FindByTeacherAndUser(ctx, teacher.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "gina", stored.Username, "stored rows keep the real name")
}

func TestReviewListingCap(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	class := e.fx.Class(e.fx.School("North High"), "A")
	teacher := e.fx.Teacher(class, "Smith")

	for i := 0; i < services.TeacherReviewLimit+5; i++ {
		e.fx.Review(teacher, e.fx.User(testutil.Username(i)), "text")
	}

	reviews, err := e.reviews.ListForTeacher(ctx, teacher.ID, moderation.Policy{})
	require.NoError(t, err)
	assert.Len(t, reviews, services.TeacherReviewLimit)
	assert.Equal(t, testutil.Username(services.TeacherReviewLimit+4), reviews[0].Username)
}

func TestRatingAggregates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	class := e.fx.Class(e.fx.School("North High"), "A")
	teacher := e.fx.Teacher(class, "Smith")

	var last *dto.RatingResponse
	for i, value := range []int{5, 3, 4} {
		resp, err := e.ratings.Rate(ctx, teacher.ID, e.fx.User(testutil.Username(i)), value)
		require.NoError(t, err)
		last = resp
	}
	assert.Equal(t, 4.0, last.AverageRating)
	assert.Equal(t, 3, last.TotalRatings)
	assert.Equal(t, 4, last.Rating.Rating)

	voter := e.fx.User("henry")
	first, err := e.ratings.Rate(ctx, teacher.ID, voter, 1)
	require.NoError(t, err)
	second, err := e.ratings.Rate(ctx, teacher.ID, voter, 5)
	require.NoError(t, err)
	assert.Equal(t, first.Rating.ID, second.Rating.ID)
	assert.Equal(t, 4, second.TotalRatings)
	assert.InDelta(t, 4.25, second.AverageRating, 1e-9)

	mine, err := e.ratings.MyRating(ctx, teacher.ID, voter)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, 5, mine.Rating)

	none, err := e.ratings.MyRating(ctx, teacher.ID, e.fx.User("ivy"))
	require.NoError(t, err)
	assert.Nil(t, none)

	for _, bad := range []int{0, 6, -1} {
		_, err = e.ratings.Rate(ctx, teacher.ID, voter, bad)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	}
	_, err = e.ratings.Rate(ctx, "missing", voter, 3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConcurrentRatingsSettle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	class := e.fx.Class(e.fx.School("North High"), "A")
	teacher := e.fx.Teacher(class, "Smith")

	const voters = 12
	users := make([]*models.User, voters)
	for i := range users {
		users[i] = e.fx.User(testutil.Username(i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i, u := range users {
		wg.Add(1)
		go func(u *models.User, value int) {
			defer wg.Done()
			_, err := e.ratings.Rate(ctx, teacher.ID, u, value)
			errs <- err
		}(u, i%5+1)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := e.repos.Teachers.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, voters, stored.TotalRatings)

	// values cycle 1..5, 1..5, 1, 2
	assert.InDelta(t, float64(15+15+1+2)/voters, stored.AverageRating, 1e-9)
}

func TestCatalogCascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	school, err := e.catalog.CreateSchool(ctx, "  Zeta High ")
	require.NoError(t, err)
	assert.Equal(t, "Zeta High", school.Name)
	_, err = e.catalog.CreateSchool(ctx, "Alpha High")
	require.NoError(t, err)

	schools, err := e.catalog.ListSchools(ctx)
	require.NoError(t, err)
	require.Len(t, schools, 2)
	assert.Equal(t, "Alpha High", schools[0].Name)

	_, err = e.catalog.CreateClass(ctx, "B", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	classB, err := e.catalog.CreateClass(ctx, "B", school.ID)
	require.NoError(t, err)
	_, err = e.catalog.CreateClass(ctx, "A", school.ID)
	require.NoError(t, err)

	classes, err := e.catalog.ListClasses(ctx, school.ID)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "A", classes[0].Name)

	_, err = e.catalog.ListClasses(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	teacher := e.fx.Teacher(classB, "Smith")
	user := e.fx.SetUpUser("jack", classB)
	e.fx.Rate(teacher, user, 4)

	require.NoError(t, e.catalog.DeleteSchool(ctx, school.ID))
	assert.ErrorIs(t, e.catalog.DeleteSchool(ctx, school.ID), apperrors.ErrNotFound)

	_, err = e.repos.Classes.GetByID(ctx, classB.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = e.repos.Teachers.GetByID(ctx, teacher.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = e.repos.Ratings.FindByTeacherAndUser(ctx, teacher.ID, user.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	detached, err := e.repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, detached.IsSetup)
	assert.Nil(t, detached.ClassID)

	teachers, err := e.teachers.ListForUser(ctx, detached, moderation.Policy{})
	require.NoError(t, err)
	assert.Empty(t, teachers)
}

func TestUserAdminOperations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	class := e.fx.Class(e.fx.School("North High"), "A")
	teacher := e.fx.Teacher(class, "Smith")
	stays := e.fx.SetUpUser("kate", class)
	leaves := e.fx.SetUpUser("liam", class)
	e.fx.Rate(teacher, stays, 2)
	e.fx.Rate(teacher, leaves, 4)
	e.fx.Review(teacher, leaves, "bye")
	e.fx.Discussion(leaves, "hello")

	users, err := e.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "liam", users[0].Username)

	require.NoError(t, e.users.ResetPassword(ctx, stays.ID, "fresh-pass"))
	_, err = e.auth.Login(ctx, "kate", "fresh-pass")
	assert.NoError(t, err)
	assert.ErrorIs(t, e.users.ResetPassword(ctx, stays.ID, "x"), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, e.users.ResetPassword(ctx, "missing", "fresh-pass"), apperrors.ErrNotFound)
	require.NoError(t, e.users.ResetPasswordByUsername(ctx, "kate", "other-pass"))
	assert.ErrorIs(t, e.users.ResetPasswordByUsername(ctx, "nobody", "other-pass"), apperrors.ErrNotFound)

	require.NoError(t, e.users.Delete(ctx, leaves.ID))
	assert.ErrorIs(t, e.users.Delete(ctx, leaves.ID), apperrors.ErrNotFound)

	stored, err := e.repos.Teachers.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalRatings)
	assert.Equal(t, 2.0, stored.AverageRating)

	board, err := e.discussions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, board)
}

func TestDiscussionBoard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.fx.User("mia")

	first := e.fx.Discussion(user, "first")
	e.fx.Discussion(user, "second")
	posted, err := e.discussions.Post(ctx, user, "  third ")
	require.NoError(t, err)
	assert.Equal(t, "third", posted.Message)
	assert.Equal(t, "mia", posted.Username)

	_, err = e.discussions.Post(ctx, user, "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	pinned, err := e.discussions.TogglePin(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	board, err := e.discussions.List(ctx)
	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, "first", board[0].Message)
	assert.Equal(t, "third", board[1].Message)
	assert.Equal(t, "second", board[2].Message)

	unpinned, err := e.discussions.TogglePin(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)

	require.NoError(t, e.discussions.Delete(ctx, first.ID))
	assert.ErrorIs(t, e.discussions.Delete(ctx, first.ID), apperrors.ErrNotFound)
	_, err = e.discussions.TogglePin(ctx, first.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDiscussionBoardCap(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := e.fx.User("noah")

	oldest := e.fx.Discussion(user, "pinned notice")
	for i := 0; i < services.DiscussionLimit+1; i++ {
		e.fx.Discussion(user, fmt.Sprintf("message %d", i))
	}
	_, err := e.discussions.TogglePin(ctx, oldest.ID)
	require.NoError(t, err)

	board, err := e.discussions.List(ctx)
	require.NoError(t, err)
	require.Len(t, board, services.DiscussionLimit)
	assert.Equal(t, oldest.ID, board[0].ID)
	assert.True(t, board[0].IsPinned)
	assert.Equal(t, fmt.Sprintf("message %d", services.DiscussionLimit), board[1].Message)
	for _, d := range board[1:] {
		assert.False(t, d.IsPinned)
		assert.NotEqual(t, "message 0", d.Message, "the oldest unpinned messages fall off the board")
		assert.NotEqual(t, "message 1", d.Message)
	}
}

func TestModerationSettings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.adminConfig.EnsureDefault(ctx, "admin123")
	require.NoError(t, err)

	on := true
	cfg, err := e.adminConfig.Update(ctx, models.AdminConfigPatch{HideTeacherImages: &on})
	require.NoError(t, err)
	assert.True(t, cfg.HideTeacherImages)
	assert.False(t, cfg.AnonymousReviews)

	cfg, err = e.adminConfig.Update(ctx, models.AdminConfigPatch{AnonymousReviews: &on})
	require.NoError(t, err)
	assert.True(t, cfg.HideTeacherImages)

	policy, err := e.adminConfig.Policy(ctx)
	require.NoError(t, err)
	assert.Equal(t, moderation.Policy{AnonymousReviews: true, HideTeacherImages: true}, policy)
}
