package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel is the staff directory row. Role carries the org role used by every
// evaluation guard: admin, Director, Leader or employee.
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName  string    `gorm:"size:50;not null" json:"user_name" validate:"required,min=3,max=50"`
	FullName  string    `gorm:"size:120" json:"full_name" validate:"omitempty,max=120"`
	Email     string    `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Role      string    `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// DisplayName falls back to the user name when no full name is set.
func (u UserModel) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.UserName
}
