package users

import (
	"time"

	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Room      *string    `json:"room,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	FeesPaid  bool       `json:"fees_paid"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	ID           *int64
	Name         string
	Username     string
	Email        string
	PasswordHash string
	Room         *string
	Phone        *string
	FeesPaid     bool
	Role         enums.Role
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Email:     u.Email,
		Room:      u.Room,
		Phone:     u.Phone,
		FeesPaid:  u.FeesPaid,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromModels(list []models.User) []*UserDTO {
	out := make([]*UserDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.RoleStudent
	}

	user := &models.User{
		Name:         c.Name,
		Username:     c.Username,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Room:         c.Room,
		Phone:        c.Phone,
		FeesPaid:     c.FeesPaid,
		Role:         role,
	}
	if c.ID != nil {
		user.ID = *c.ID
	}
	return user
}
