package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/middleware"
)

// RatingController handles star ratings
type RatingController struct {
	ratingService services.RatingService
}

// NewRatingController creates a new RatingController
func NewRatingController(ratingService services.RatingService) *RatingController {
	return &RatingController{ratingService: ratingService}
}

// Rate creates or replaces the caller's rating of a teacher
// @Summary Rate a teacher
// @Description Submitting again overwrites the previous value. Returns the teacher's refreshed average.
// @Tags ratings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teacherId path string true "Teacher ID"
// @Param request body dto.RatingRequest true "Rating"
// @Success 200 {object} dto.RatingResponse
// @Failure 400 {object} dto.ErrorResponse "Rating outside 1..5"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{teacherId}/ratings [post]
func (c *RatingController) Rate(ctx *gin.Context, caller *models.User) {
	var req dto.RatingRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.ratingService.Rate(ctx.Request.Context(), ctx.Param("teacherId"), caller, req.Rating)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// MyRating returns the caller's rating of a teacher or null
// @Summary My rating of a teacher
// @Tags ratings
// @Produce json
// @Security BearerAuth
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} models.Rating "null when the caller has not rated the teacher"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /teachers/{teacherId}/my-rating [get]
func (c *RatingController) MyRating(ctx *gin.Context, caller *models.User) {
	rating, err := c.ratingService.MyRating(ctx.Request.Context(), ctx.Param("teacherId"), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rating)
}
