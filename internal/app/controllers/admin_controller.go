package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/middleware"
	"github.com/yigit/ratemyteacher/internal/pkg/apperrors"
	"github.com/yigit/ratemyteacher/internal/pkg/filestorage"
)

// multipartOverhead is the body allowance on top of the image size limit
const multipartOverhead = 1 << 20

// AdminController handles moderation settings, uploads and user administration
type AdminController struct {
	adminConfigService services.AdminConfigService
	userService        services.UserService
	imageSink          filestorage.ImageSink
	maxImageBytes      int64
	logger             zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	adminConfigService services.AdminConfigService,
	userService services.UserService,
	imageSink filestorage.ImageSink,
	maxImageBytes int64,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		adminConfigService: adminConfigService,
		userService:        userService,
		imageSink:          imageSink,
		maxImageBytes:      maxImageBytes,
		logger:             logger,
	}
}

// GetConfig returns the moderation settings
// @Summary Get moderation settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AdminConfigResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/config [get]
func (c *AdminController) GetConfig(ctx *gin.Context) {
	cfg, err := c.adminConfigService.Get(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, configResponse(cfg))
}

// UpdateConfig changes the moderation settings that are present in the body
// @Summary Update moderation settings
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateAdminConfigRequest true "Settings to change"
// @Success 200 {object} dto.AdminConfigResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid body"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/config [put]
func (c *AdminController) UpdateConfig(ctx *gin.Context) {
	var req dto.UpdateAdminConfigRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	cfg, err := c.adminConfigService.Update(ctx.Request.Context(), models.AdminConfigPatch{
		AnonymousReviews:  req.AnonymousReviews,
		HideTeacherImages: req.HideTeacherImages,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, configResponse(cfg))
}

func configResponse(cfg *models.AdminConfig) dto.AdminConfigResponse {
	return dto.AdminConfigResponse{
		AnonymousReviews:  cfg.AnonymousReviews,
		HideTeacherImages: cfg.HideTeacherImages,
	}
}

// ChangeSecret rotates the admin secret
// @Summary Change admin secret
// @Description Issued admin tokens remain valid
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangeSecretRequest true "New secret"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/secret [put]
func (c *AdminController) ChangeSecret(ctx *gin.Context) {
	var req dto.ChangeSecretRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.adminConfigService.ChangeSecret(ctx.Request.Context(), req.Secret); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Admin secret changed"))
}

// UploadImage stores a teacher image and returns its URL
// @Summary Upload image
// @Description JPEG, PNG, GIF or WebP up to 5 MiB. Larger images are scaled down to fit 800x800.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} dto.UploadImageResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid image"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/upload-image [post]
func (c *AdminController) UploadImage(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxImageBytes+multipartOverhead)

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleAPIError(ctx, apperrors.NewInvalidImageError("image is too large"))
			return
		}
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("image file is required"))
		return
	}
	if fileHeader.Size > c.maxImageBytes {
		middleware.HandleAPIError(ctx, apperrors.NewInvalidImageError("image is too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.imageSink.Upload(ctx.Request.Context(), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("url", url).Str("filename", fileHeader.Filename).Msg("Image uploaded")
	ctx.JSON(http.StatusOK, dto.UploadImageResponse{URL: url})
}

// ListUsers returns every account
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	users, err := c.userService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, users)
}

// DeleteUser removes an account with its reviews, ratings and messages
// @Summary Delete user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	if err := c.userService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("User deleted"))
}

// ResetPassword sets a new password for a user
// @Summary Reset user password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param request body dto.ResetPasswordRequest true "New password"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{userId}/reset-password [post]
func (c *AdminController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.userService.ResetPassword(ctx.Request.Context(), ctx.Param("userId"), req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Password reset"))
}
