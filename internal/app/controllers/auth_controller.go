// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/ratemyteacher/internal/app/models"
	"github.com/yigit/ratemyteacher/internal/app/models/dto"
	"github.com/yigit/ratemyteacher/internal/app/services"
	"github.com/yigit/ratemyteacher/internal/middleware"
)

// AuthController handles registration, login and account setup
type AuthController struct {
	authService services.AuthService
	userService services.UserService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, userService services.UserService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		userService: userService,
		logger:      logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates an account and returns a token. The account must complete setup before browsing teachers.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Credentials"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Register(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Setup binds the caller to a school and class
// @Summary Complete account setup
// @Description Selects the caller's school and class. Allowed once per account.
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SetupRequest true "School and class"
// @Success 200 {object} models.User
// @Failure 400 {object} dto.ErrorResponse "Already set up or class outside the school"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /setup [post]
func (c *AuthController) Setup(ctx *gin.Context, caller *models.User) {
	var req dto.SetupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.Setup(ctx.Request.Context(), caller, req.SchoolID, req.ClassID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// Me returns the caller's profile
// @Summary Current user
// @Description Returns the caller's account with school and class names
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /me [get]
func (c *AuthController) Me(ctx *gin.Context, caller *models.User) {
	profile, err := c.userService.Profile(ctx.Request.Context(), caller)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

// AdminLogin exchanges the admin secret for an admin token
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin secret"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid secret"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	token, err := c.authService.AdminLogin(ctx.Request.Context(), req.Secret)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("clientIP", ctx.ClientIP()).Msg("Admin logged in")
	ctx.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
