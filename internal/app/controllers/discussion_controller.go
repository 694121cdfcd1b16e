package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/middleware"
)

// DiscussionController handles the discussion board
type DiscussionController struct {
	discussionService services.DiscussionService
}

// NewDiscussionController creates a new DiscussionController
func NewDiscussionController(discussionService services.DiscussionService) *DiscussionController {
	return &DiscussionController{discussionService: discussionService}
}

// List returns the board
// @Summary List discussions
// @Description Latest 100 messages, pinned first
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Discussion
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /discussions [get]
func (c *DiscussionController) List(ctx *gin.Context, _ *models.User) {
	discussions, err := c.discussionService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, discussions)
}

// Post adds a message to the board
// @Summary Post a discussion message
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DiscussionRequest true "Message"
// @Success 201 {object} models.Discussion
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /discussions [post]
func (c *DiscussionController) Post(ctx *gin.Context, caller *models.User) {
	var req dto.DiscussionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	discussion, err := c.discussionService.Post(ctx.Request.Context(), caller, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, discussion)
}

// TogglePin flips a message's pinned flag
// @Summary Pin or unpin a discussion
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Discussion ID"
// @Success 200 {object} models.Discussion
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Discussion not found"
// @Router /admin/discussions/{id}/pin [put]
func (c *DiscussionController) TogglePin(ctx *gin.Context) {
	discussion, err := c.discussionService.TogglePin(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, discussion)
}

// Delete removes a message
// @Summary Delete discussion
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Discussion ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Discussion not found"
// @Router /admin/discussions/{id} [delete]
func (c *DiscussionController) Delete(ctx *gin.Context) {
	if err := c.discussionService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Discussion deleted"))
}
