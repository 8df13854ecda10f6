package models

import "time"

// Review is an append-only movie review owned by the user that created it.
// The user_id reference is weak: deleting a user does not remove their
// reviews.
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Movie     string    `gorm:"type:text;not null"`
	Content   string    `gorm:"type:text;not null"`
	Rating    int       `gorm:"not null"`
	UserID    int64     `gorm:"column:user_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
