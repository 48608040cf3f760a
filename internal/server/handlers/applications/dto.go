package applications

import (
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/applications"
)

type CreateRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	BundleID    string `json:"bundle_id"   validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateRequest struct {
	Name        *string `json:"name,omitempty"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type ApplicationResponse struct {
	CreateRequest

	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newApplicationResponse(application applications.Application) ApplicationResponse {
	return ApplicationResponse{
		CreateRequest: CreateRequest{
			Name:        application.Name,
			BundleID:    application.BundleID,
			Description: application.Description,
		},
		ID:        application.ID,
		CreatedAt: application.CreatedAt,
		UpdatedAt: application.UpdatedAt,
	}
}
