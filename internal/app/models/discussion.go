package models

import "time"

// Discussion is a message on the global board
type Discussion struct {
	ID        string    `json:"id" db:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" db:"user_id" gorm:"not null;index"`
	Username  string    `json:"username" db:"username" gorm:"not null"`
	Message   string    `json:"message" db:"message" gorm:"not null"`
	IsPinned  bool      `json:"isPinned" db:"is_pinned" gorm:"not null;index:idx_discussions_board,priority:1"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;index:idx_discussions_board,priority:2"`
}
