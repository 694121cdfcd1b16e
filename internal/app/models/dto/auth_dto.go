package dto

import "github.com/yigit/ratemyteacher/internal/app/models"

// RegisterRequest is the body of POST /api/register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32" example:"jane.doe"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"secret123"`
}

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"jane.doe"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// AuthResponse carries a user token and the public user view
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// SetupRequest is the body of POST /api/setup
type SetupRequest struct {
	SchoolID string `json:"schoolId" binding:"required"`
	ClassID  string `json:"classId" binding:"required"`
}

// AdminLoginRequest is the body of POST /api/admin/login
type AdminLoginRequest struct {
	Secret string `json:"secret" binding:"required" example:"admin123"`
}

// TokenResponse carries a bare token
type TokenResponse struct {
	Token string `json:"token"`
}

// ChangeSecretRequest is the body of PUT /api/admin/secret
type ChangeSecretRequest struct {
	Secret string `json:"secret" binding:"required,min=6,max=72"`
}

// ResetPasswordRequest is the body of POST /api/admin/users/:id/reset-password
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6,max=72"`
}

// ProfileResponse is the caller's own view with resolved catalog names
type ProfileResponse struct {
	*models.User
	SchoolName string `json:"schoolName,omitempty"`
	ClassName  string `json:"className,omitempty"`
}
