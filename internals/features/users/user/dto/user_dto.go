package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	uModel "restaurantops_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateUserRequest registers a staff member by admin.
type CreateUserRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	FullName string `json:"full_name" validate:"omitempty,max=120"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Role     string `json:"role" validate:"omitempty,oneof=admin Director Leader employee"`
}

func (r *CreateUserRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.TrimSpace(r.Role)
}

func (r CreateUserRequest) ToModel() uModel.UserModel {
	role := r.Role
	if role == "" {
		role = "employee"
	}
	return uModel.UserModel{UserName: r.UserName, FullName: r.FullName, Email: r.Email, Role: role, IsActive: true}
}

// UpdateUserRequest changes the org role or deactivates a user.
type UpdateUserRequest struct {
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin Director Leader employee"`
	IsActive *bool   `json:"is_active,omitempty"`
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	FullName  string    `json:"full_name,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(u uModel.UserModel) UserResponse {
	return UserResponse{
		ID:        u.ID,
		UserName:  u.UserName,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func FromModels(rows []uModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(rows))
	for _, u := range rows {
		out = append(out, FromModel(u))
	}
	return out
}
