package models

import "time"

// Teacher is a rateable entity bound to one class and school.
// AverageRating and TotalRatings are derived from the ratings table and
// only written by the rating aggregator.
type Teacher struct {
	ID             string    `json:"id" db:"id" gorm:"primaryKey"`
	Name           string    `json:"name" db:"name" gorm:"not null" example:"Mr. Smith"`
	Qualifications string    `json:"qualifications" db:"qualifications" gorm:"not null" example:"MSc Physics"`
	ImageURL       string    `json:"imageUrl" db:"image_url" gorm:"not null"`
	ClassID        string    `json:"classId" db:"class_id" gorm:"not null;index"`
	SchoolID       string    `json:"schoolId" db:"school_id" gorm:"not null;index"`
	AverageRating  float64   `json:"averageRating" db:"average_rating" gorm:"not null" example:"4.5"`
	TotalRatings   int       `json:"totalRatings" db:"total_ratings" gorm:"not null" example:"12"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

// TeacherListing is the admin view of a teacher with its catalog names resolved
type TeacherListing struct {
	Teacher
	SchoolName string `json:"schoolName" db:"school_name"`
	ClassName  string `json:"className" db:"class_name"`
}
