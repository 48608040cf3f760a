package applications

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationDraft struct {
	Name        string
	BundleID    string // Android package name, immutable
	Description string
}

type ApplicationUpdate struct {
	Name        *string
	Description *string
}

type Application struct {
	ApplicationDraft

	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
