package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/middleware"
)

// CatalogController handles schools and classes
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ListSchools returns every school
// @Summary List schools
// @Tags catalog
// @Produce json
// @Success 200 {array} models.School
// @Router /schools [get]
func (c *CatalogController) ListSchools(ctx *gin.Context) {
	schools, err := c.catalogService.ListSchools(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, schools)
}

// ListSchoolClasses returns the classes of one school
// @Summary List classes of a school
// @Tags catalog
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {array} models.Class
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /schools/{schoolId}/classes [get]
func (c *CatalogController) ListSchoolClasses(ctx *gin.Context) {
	classes, err := c.catalogService.ListClasses(ctx.Request.Context(), ctx.Param("schoolId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, classes)
}

// ListClasses returns all classes, optionally filtered by school
// @Summary List classes (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param schoolId query string false "School ID"
// @Success 200 {array} models.Class
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/classes [get]
func (c *CatalogController) ListClasses(ctx *gin.Context) {
	classes, err := c.catalogService.ListClasses(ctx.Request.Context(), ctx.Query("schoolId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, classes)
}

// CreateSchool adds a school
// @Summary Create school
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSchoolRequest true "School"
// @Success 201 {object} models.School
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /admin/schools [post]
func (c *CatalogController) CreateSchool(ctx *gin.Context) {
	var req dto.CreateSchoolRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	school, err := c.catalogService.CreateSchool(ctx.Request.Context(), req.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, school)
}

// DeleteSchool removes a school with its classes and teachers
// @Summary Delete school
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "School ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /admin/schools/{id} [delete]
func (c *CatalogController) DeleteSchool(ctx *gin.Context) {
	if err := c.catalogService.DeleteSchool(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("School deleted"))
}

// CreateClass adds a class to a school
// @Summary Create class
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateClassRequest true "Class"
// @Success 201 {object} models.Class
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "School not found"
// @Router /admin/classes [post]
func (c *CatalogController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.catalogService.CreateClass(ctx.Request.Context(), req.Name, req.SchoolID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, class)
}

// DeleteClass removes a class with its teachers
// @Summary Delete class
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Class ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /admin/classes/{id} [delete]
func (c *CatalogController) DeleteClass(ctx *gin.Context) {
	if err := c.catalogService.DeleteClass(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Class deleted"))
}
