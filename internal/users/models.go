package users

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
)

const (
	prefix = "user:"

	prefixByID      = prefix + "id:"
	prefixByLogin   = prefix + "login:"
	prefixByLoginCI = prefix + "login_ci:"
)

// userModel represents a user in the system
type userModel struct {
	storage.BaseEntity

	Login             string     `json:"login"`
	PasswordHash      *string    `json:"password_hash,omitempty"`
	Role              Role       `json:"role"`
	Active            bool       `json:"active"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	LastInteractionAt *time.Time `json:"last_interaction_at,omitempty"`
	TokenVersion      int64      `json:"token_version"`
}

func newUserModel(user *User) *userModel {
	return &userModel{
		BaseEntity: storage.BaseEntity{
			ID:        user.ID,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
		Login:             user.Login,
		PasswordHash:      user.PasswordHash,
		Role:              user.Role,
		Active:            user.Active,
		LastLoginAt:       user.LastLoginAt,
		LastInteractionAt: user.LastInteractionAt,
		TokenVersion:      user.TokenVersion,
	}
}

func keyByID(id uuid.UUID) string {
	return prefixByID + id.String()
}

func keyByLogin(login string) string {
	return prefixByLogin + login
}

func keyByLoginCI(login string) string {
	return prefixByLoginCI + strings.ToLower(login)
}

func (u *userModel) StorageKey() string {
	return keyByID(u.ID)
}

func (u *userModel) StorageIndexes() []string {
	return []string{keyByLogin(u.Login), keyByLoginCI(u.Login)}
}

func (u *userModel) MarshalStorage() ([]byte, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user: %w", err)
	}

	return data, nil
}

func (u *userModel) UnmarshalStorage(data []byte) error {
	if err := json.Unmarshal(data, u); err != nil {
		return fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return nil
}

func (u *userModel) toDomain() *User {
	if u == nil {
		return nil
	}

	return &User{
		ID:                u.ID,
		Login:             u.Login,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role,
		Active:            u.Active,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
		LastLoginAt:       u.LastLoginAt,
		LastInteractionAt: u.LastInteractionAt,
		TokenVersion:      u.TokenVersion,
	}
}
