package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/paging"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/users"
)

type CreateRequest struct {
	Login    string `json:"login"              validate:"required,min=3,max=20"`
	Password string `json:"password,omitempty" validate:"omitempty,min=10,max=72"`
	Role     string `json:"role"               validate:"required,oneof=ADMIN CI CONSUMER"`
}

type ListQuery struct {
	paging.Query

	Role   string `query:"role"   validate:"omitempty,oneof=ADMIN CI CONSUMER"`
	Active *bool  `query:"active"`
}

type PasswordRequest struct {
	Password string `json:"password" validate:"required,min=10,max=72"`
}

type ActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type UserResponse struct {
	ID                uuid.UUID  `json:"id"`
	Login             string     `json:"login"`
	Role              string     `json:"role"`
	Active            bool       `json:"active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	LastInteractionAt *time.Time `json:"last_interaction_at,omitempty"`
}

func newUserResponse(user users.User) UserResponse {
	return UserResponse{
		ID:                user.ID,
		Login:             user.Login,
		Role:              string(user.Role),
		Active:            user.Active,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
		LastLoginAt:       user.LastLoginAt,
		LastInteractionAt: user.LastInteractionAt,
	}
}
