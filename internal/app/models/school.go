package models

import "time"

// School is the top of the catalog hierarchy
type School struct {
	ID        string    `json:"id" db:"id" gorm:"primaryKey" example:"1f0c6a9e-3c55-4a57-b6c5-1d7a3c1b2f10"`
	Name      string    `json:"name" db:"name" gorm:"not null" example:"Springfield High"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

// Class belongs to exactly one school
type Class struct {
	ID        string    `json:"id" db:"id" gorm:"primaryKey"`
	Name      string    `json:"name" db:"name" gorm:"not null" example:"10-B"`
	SchoolID  string    `json:"schoolId" db:"school_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}
