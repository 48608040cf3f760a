package applications

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
)

const (
	prefix = "application:"

	prefixByID     = prefix + "id:"
	prefixByName   = prefix + "name:"
	prefixByBundle = prefix + "bundle:"
)

type applicationModel struct {
	storage.BaseEntity

	Name        string `json:"name"`
	BundleID    string `json:"bundle_id"`
	Description string `json:"description"`
}

func newApplicationModel(draft *ApplicationDraft, now time.Time) *applicationModel {
	return &applicationModel{
		BaseEntity:  storage.NewBaseEntity(now),
		Name:        draft.Name,
		BundleID:    draft.BundleID,
		Description: draft.Description,
	}
}

func newApplication(model *applicationModel) *Application {
	if model == nil {
		return nil
	}

	return &Application{
		ApplicationDraft: ApplicationDraft{
			Name:        model.Name,
			BundleID:    model.BundleID,
			Description: model.Description,
		},
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func keyByID(id uuid.UUID) string {
	return prefixByID + id.String()
}

// names and bundle ids are unique ignoring case
func keyByName(name string) string {
	return prefixByName + strings.ToLower(name)
}

func keyByBundle(bundleID string) string {
	return prefixByBundle + strings.ToLower(bundleID)
}

func (m *applicationModel) StorageKey() string {
	return keyByID(m.ID)
}

func (m *applicationModel) StorageIndexes() []string {
	return []string{keyByName(m.Name), keyByBundle(m.BundleID)}
}

func (m *applicationModel) MarshalStorage() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal application: %w", err)
	}

	return data, nil
}

func (m *applicationModel) UnmarshalStorage(data []byte) error {
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("failed to unmarshal application: %w", err)
	}

	return nil
}
