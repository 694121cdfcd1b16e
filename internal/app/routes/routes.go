package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/ratemyteacher/internal/app/controllers"
	"github.com/yigit/ratemyteacher/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Catalog    *controllers.CatalogController
	Teacher    *controllers.TeacherController
	Review     *controllers.ReviewController
	Rating     *controllers.RatingController
	Discussion *controllers.DiscussionController
	Admin      *controllers.AdminController
	Health     *controllers.HealthController
}

// SetupRouter configures all application routes. limiter may be nil to
// disable rate limiting of the credential endpoints.
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.IPRateLimiter,
) {
	router.GET("/health", c.Health.Health)

	credentials := []gin.HandlerFunc{}
	if limiter != nil {
		credentials = append(credentials, middleware.RateLimit(limiter))
	}
	withLimit := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, credentials...), h)
	}

	api := router.Group("/api")

	// --- Public routes ---
	api.POST("/register", withLimit(c.Auth.Register)...)
	api.POST("/login", withLimit(c.Auth.Login)...)
	api.GET("/schools", c.Catalog.ListSchools)
	api.GET("/schools/:schoolId/classes", c.Catalog.ListSchoolClasses)

	// --- User routes: the caller is resolved and passed to each handler ---
	user := authMiddleware.User
	api.POST("/setup", user(c.Auth.Setup))
	api.GET("/me", user(c.Auth.Me))

	teachers := api.Group("/teachers")
	{
		teachers.GET("", user(c.Teacher.List))
		teachers.GET("/:teacherId", user(c.Teacher.Get))
		teachers.GET("/:teacherId/reviews", user(c.Review.ListForTeacher))
		teachers.POST("/:teacherId/reviews", user(c.Review.Create))
		teachers.GET("/:teacherId/my-review", user(c.Review.MyReview))
		teachers.GET("/:teacherId/my-rating", user(c.Rating.MyRating))
		teachers.POST("/:teacherId/ratings", user(c.Rating.Rate))
	}
	api.PUT("/reviews/:reviewId", user(c.Review.Update))

	api.GET("/discussions", user(c.Discussion.List))
	api.POST("/discussions", user(c.Discussion.Post))

	// --- Admin routes ---
	api.POST("/admin/login", withLimit(c.Auth.AdminLogin)...)

	admin := api.Group("/admin")
	admin.Use(authMiddleware.AdminAuth())
	{
		admin.GET("/config", c.Admin.GetConfig)
		admin.PUT("/config", c.Admin.UpdateConfig)
		admin.PUT("/secret", c.Admin.ChangeSecret)
		admin.POST("/upload-image", c.Admin.UploadImage)

		admin.GET("/schools", c.Catalog.ListSchools)
		admin.POST("/schools", c.Catalog.CreateSchool)
		admin.DELETE("/schools/:id", c.Catalog.DeleteSchool)

		admin.GET("/classes", c.Catalog.ListClasses)
		admin.POST("/classes", c.Catalog.CreateClass)
		admin.DELETE("/classes/:id", c.Catalog.DeleteClass)

		admin.GET("/teachers", c.Teacher.AdminList)
		admin.POST("/teachers", c.Teacher.Create)
		admin.PUT("/teachers/:id", c.Teacher.Update)
		admin.DELETE("/teachers/:id", c.Teacher.Delete)

		admin.GET("/reviews", c.Review.AdminList)
		admin.DELETE("/reviews/:id", c.Review.Delete)

		admin.GET("/users", c.Admin.ListUsers)
		admin.DELETE("/users/:id", c.Admin.DeleteUser)
		admin.POST("/users/:userId/reset-password", c.Admin.ResetPassword)

		admin.PUT("/discussions/:id/pin", c.Discussion.TogglePin)
		admin.DELETE("/discussions/:id", c.Discussion.Delete)
	}
}
