package dto

// AdminConfigResponse exposes the moderation toggles
type AdminConfigResponse struct {
	AnonymousReviews  bool `json:"anonymousReviews"`
	HideTeacherImages bool `json:"hideTeacherImages"`
}

// UpdateAdminConfigRequest changes only the fields that are present
type UpdateAdminConfigRequest struct {
	AnonymousReviews  *bool `json:"anonymousReviews"`
	HideTeacherImages *bool `json:"hideTeacherImages"`
}

// UploadImageResponse carries the public URL of a stored image
type UploadImageResponse struct {
	URL string `json:"url" example:"http://localhost:8080/uploads/teachers/3b1f.jpg"`
}
