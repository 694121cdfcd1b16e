package models

import "time"

// User is a student account. SchoolID and ClassID are set once, during setup.
type User struct {
	ID           string    `json:"id" db:"id" gorm:"primaryKey"`
	Username     string    `json:"username" db:"username" gorm:"not null;uniqueIndex" example:"jane.doe"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"not null"`
	SchoolID     *string   `json:"schoolId" db:"school_id" gorm:"index"`
	ClassID      *string   `json:"classId" db:"class_id" gorm:"index"`
	IsSetup      bool      `json:"isSetup" db:"is_setup" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}
