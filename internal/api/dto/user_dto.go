package dto

import (
	"time"

	"github.com/spec-kit/portfolio-api/internal/domain"
)

// UserResponse is the identity projection. Secret fields never appear.
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email,omitempty"`
	Roles     []string  `json:"roles"`
	Avatar    string    `json:"avatar,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Roles:     domain.RoleStrings(user.Roles),
		Avatar:    user.Avatar,
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewUserResponses maps a slice.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// UpdateProfileRequest payload for PATCH /users/me.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=1,max=120"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
}
