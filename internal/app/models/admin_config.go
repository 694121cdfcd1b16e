package models

import "time"

// AdminConfigID is the primary key of the single admin_config row
const AdminConfigID = "singleton"

// AdminConfig holds the admin secret hash and the moderation toggles
type AdminConfig struct {
	ID                string    `json:"-" db:"id" gorm:"primaryKey"`
	SecretHash        string    `json:"-" db:"secret_hash" gorm:"not null"`
	AnonymousReviews  bool      `json:"anonymousReviews" db:"anonymous_reviews" gorm:"not null"`
	HideTeacherImages bool      `json:"hideTeacherImages" db:"hide_teacher_images" gorm:"not null"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at" gorm:"not null"`
}

// TableName keeps the singular table name shared with the SQL migrations
func (AdminConfig) TableName() string {
	return "admin_config"
}

// AdminConfigPatch is a partial update of the moderation toggles
type AdminConfigPatch struct {
	AnonymousReviews  *bool
	HideTeacherImages *bool
}
