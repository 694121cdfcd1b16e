package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message" example:"Teacher deleted"`
}

// NewSuccessResponse wraps a confirmation message
func NewSuccessResponse(message string) SuccessResponse {
	return SuccessResponse{Message: message}
}

// HealthResponse reports liveness and store reachability
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}
