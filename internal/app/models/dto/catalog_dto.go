package dto

// CreateSchoolRequest is the body of POST /api/admin/schools
type CreateSchoolRequest struct {
	Name string `json:"name" binding:"required,max=200" example:"Springfield High"`
}

// CreateClassRequest is the body of POST /api/admin/classes
type CreateClassRequest struct {
	Name     string `json:"name" binding:"required,max=200" example:"10-B"`
	SchoolID string `json:"schoolId" binding:"required"`
}

// TeacherRequest is the body of teacher create and update
type TeacherRequest struct {
	Name           string `json:"name" binding:"required,max=200" example:"Mr. Smith"`
	Qualifications string `json:"qualifications" binding:"max=1000" example:"MSc Physics"`
	ImageURL       string `json:"imageUrl" binding:"omitempty,max=2048"`
	ClassID        string `json:"classId" binding:"required"`
	SchoolID       string `json:"schoolId" binding:"required"`
}
