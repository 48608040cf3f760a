package apikeys

import (
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/apikeys"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/paging"
)

type CreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Role string `json:"role" validate:"required"`
	// ExpireBy is the key lifetime in milliseconds. Empty or zero never expires.
	ExpireBy *int64 `json:"expire_by,omitempty"`
}

type ListQuery struct {
	paging.Query

	Role   string `query:"role"`
	Active bool   `query:"active"`
}

type APIKeyResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	ApplicationID uuid.UUID  `json:"application_id"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

// CreatedAPIKeyResponse is the only response that ever carries the key.
type CreatedAPIKeyResponse struct {
	APIKeyResponse

	APIKey string `json:"api_key"`
}

func newAPIKeyResponse(key apikeys.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:            key.ID,
		Name:          key.Name,
		Role:          string(key.Role),
		ApplicationID: key.ApplicationID,
		Active:        key.Active,
		CreatedAt:     key.CreatedAt,
		LastUsedAt:    key.LastUsedAt,
		ExpiresAt:     key.ExpiresAt,
	}
}
