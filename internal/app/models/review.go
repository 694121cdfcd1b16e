package models

import "time"

// Review is free text left by a user on a teacher, at most one per pair.
// Username is copied from the author at creation time.
type Review struct {
	ID        string    `json:"id" db:"id" gorm:"primaryKey"`
	TeacherID string    `json:"teacherId" db:"teacher_id" gorm:"not null;uniqueIndex:idx_reviews_teacher_user"`
	UserID    string    `json:"userId" db:"user_id" gorm:"not null;uniqueIndex:idx_reviews_teacher_user;index:idx_reviews_user"`
	Username  string    `json:"username" db:"username" gorm:"not null"`
	Text      string    `json:"text" db:"text" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"not null"`
}

// ReviewListing is the admin view of a review with the teacher name resolved
type ReviewListing struct {
	Review
	TeacherName string `json:"teacherName" db:"teacher_name"`
}

// Rating is a 1..5 star value, at most one per (teacher, user) pair
type Rating struct {
	ID        string    `json:"id" db:"id" gorm:"primaryKey"`
	TeacherID string    `json:"teacherId" db:"teacher_id" gorm:"not null;uniqueIndex:idx_ratings_teacher_user"`
	UserID    string    `json:"userId" db:"user_id" gorm:"not null;uniqueIndex:idx_ratings_teacher_user;index:idx_ratings_user"`
	Rating    int       `json:"rating" db:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5" example:"4"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}
