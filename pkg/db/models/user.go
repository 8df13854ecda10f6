package models

import (
	"time"

	"github.com/hostelworks/roster-backend/pkg/enums"
)

// User represents a roster account: a hostel student or an admin. In the
// open-roster deployment the id may be supplied by the client; otherwise the
// store generates it.
type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement"`
	Name         string     `gorm:"type:text;not null"`
	Username     string     `gorm:"type:text;not null;uniqueIndex"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Room         *string    `gorm:"column:room"`
	Phone        *string    `gorm:"column:phone"`
	FeesPaid     bool       `gorm:"column:fees_paid;not null;default:false"`
	Role         enums.Role `gorm:"column:role;type:text;not null;default:student"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
