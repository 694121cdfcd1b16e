package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/middleware"
)

// TeacherController handles teacher browsing and administration
type TeacherController struct {
	teacherService     services.TeacherService
	adminConfigService services.AdminConfigService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService services.TeacherService, adminConfigService services.AdminConfigService) *TeacherController {
	return &TeacherController{teacherService: teacherService, adminConfigService: adminConfigService}
}

// List returns the teachers of the caller's class
// @Summary List my class's teachers
// @Description Requires completed setup. Image URLs are blank while teacher images are hidden.
// @Tags teachers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Teacher
// @Failure 400 {object} dto.ErrorResponse "Setup required"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /teachers [get]
func (c *TeacherController) List(ctx *gin.Context, caller *models.User) {
	policy, err := c.adminConfigService.Policy(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	teachers, err := c.teacherService.ListForUser(ctx.Request.Context(), caller, policy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, teachers)
}

// Get returns one teacher
// @Summary Get teacher
// @Tags teachers
// @Produce json
// @Security BearerAuth
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} models.Teacher
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /teachers/{teacherId} [get]
func (c *TeacherController) Get(ctx *gin.Context, _ *models.User) {
	policy, err := c.adminConfigService.Policy(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	teacher, err := c.teacherService.Get(ctx.Request.Context(), ctx.Param("teacherId"), policy)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, teacher)
}

// AdminList returns every teacher with school and class names
// @Summary List teachers (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.TeacherListing
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/teachers [get]
func (c *TeacherController) AdminList(ctx *gin.Context) {
	teachers, err := c.teacherService.ListDetailed(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, teachers)
}

// Create adds a teacher
// @Summary Create teacher
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TeacherRequest true "Teacher"
// @Success 201 {object} models.Teacher
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /admin/teachers [post]
func (c *TeacherController) Create(ctx *gin.Context) {
	var req dto.TeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	teacher, err := c.teacherService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, teacher)
}

// Update replaces a teacher's details
// @Summary Update teacher
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Param request body dto.TeacherRequest true "Teacher"
// @Success 200 {object} models.Teacher
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Teacher or class not found"
// @Router /admin/teachers/{id} [put]
func (c *TeacherController) Update(ctx *gin.Context) {
	var req dto.TeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	teacher, err := c.teacherService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, teacher)
}

// Delete removes a teacher with its reviews and ratings
// @Summary Delete teacher
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Teacher ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /admin/teachers/{id} [delete]
func (c *TeacherController) Delete(ctx *gin.Context) {
	if err := c.teacherService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Teacher deleted"))
}
