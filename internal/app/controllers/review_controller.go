package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/middleware"
)

// ReviewController handles teacher reviews
type ReviewController struct {
	reviewService      services.ReviewService
	adminConfigService services.AdminConfigService
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviewService services.ReviewService, adminConfigService services.AdminConfigService) *ReviewController {
	return &ReviewController{reviewService: reviewService, adminConfigService: adminConfigService}
}

// ListForTeacher returns the newest reviews of a teacher
// @Summary List reviews of a teacher
// @Description Latest 50 reviews. Author names read "Anonymous" while anonymous reviews are on.
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param teacherId path string true "Teacher ID"
// @Success 200 {array} models.Review
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{teacherId}/reviews [get]
func (c *ReviewController) ListForTeacher(ctx *gin.Context, _ *models.User) {
	policy, err := c.adminConfigService.Policy(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	reviews, err := c.reviewService.ListForTeacher(ctx.Request.Context(), ctx.Param("teacherId"), policy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reviews)
}

// MyReview returns the caller's review of a teacher or null
// @Summary My review of a teacher
// @Description Author name reads "Anonymous" while anonymous reviews are on.
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} models.Review "null when the caller has not reviewed the teacher"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /teachers/{teacherId}/my-review [get]
func (c *ReviewController) MyReview(ctx *gin.Context, caller *models.User) {
	policy, err := c.adminConfigService.Policy(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	review, err := c.reviewService.MyReview(ctx.Request.Context(), ctx.Param("teacherId"), caller, policy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, review)
}

// Create adds the caller's review of a teacher
// @Summary Review a teacher
// @Description One review per teacher and user. Author name reads "Anonymous" while anonymous reviews are on.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teacherId path string true "Teacher ID"
// @Param request body dto.ReviewRequest true "Review"
// @Success 201 {object} models.Review
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Failure 409 {object} dto.ErrorResponse "Already reviewed"
// @Router /teachers/{teacherId}/reviews [post]
func (c *ReviewController) Create(ctx *gin.Context, caller *models.User) {
	var req dto.ReviewRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	policy, err := c.adminConfigService.Policy(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	review, err := c.reviewService.Create(ctx.Request.Context(), ctx.Param("teacherId"), caller, req.Text, policy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, review)
}

// Update edits the text of the caller's own review
// @Summary Edit my review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewId path string true "Review ID"
// @Param request body dto.ReviewRequest true "Review"
// @Success 200 {object} models.Review
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Review not found or not owned by the caller"
// @Router /reviews/{reviewId} [put]
func (c *ReviewController) Update(ctx *gin.Context, caller *models.User) {
	var req dto.ReviewRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	policy, err := c.adminConfigService.Policy(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	review, err := c.reviewService.Update(ctx.Request.Context(), ctx.Param("reviewId"), caller, req.Text, policy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, review)
}

// AdminList returns every review with its teacher's name
// @Summary List reviews (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ReviewListing
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/reviews [get]
func (c *ReviewController) AdminList(ctx *gin.Context) {
	reviews, err := c.reviewService.ListDetailed(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reviews)
}

// Delete removes a review
// @Summary Delete review
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Review not found"
// @Router /admin/reviews/{id} [delete]
func (c *ReviewController) Delete(ctx *gin.Context) {
	if err := c.reviewService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Review deleted"))
}
