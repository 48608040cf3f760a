package apikeys

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/storage"
)

const (
	prefix = "apikey:"

	prefixByID          = prefix + "id:"
	prefixByDigest      = prefix + "digest:"
	prefixByApplication = prefix + "application:"
)

type apiKeyModel struct {
	storage.BaseEntity

	Name          string     `json:"name"`
	KeyHash       string     `json:"key_hash"`
	Role          Role       `json:"role"`
	ApplicationID uuid.UUID  `json:"application_id"`
	Active        bool       `json:"active"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	TokenVersion  int64      `json:"token_version"`
}

func newAPIKeyModel(key *APIKey) *apiKeyModel {
	return &apiKeyModel{
		BaseEntity: storage.BaseEntity{
			ID:        key.ID,
			CreatedAt: key.CreatedAt,
			UpdatedAt: time.Now(),
		},
		Name:          key.Name,
		KeyHash:       key.KeyHash,
		Role:          key.Role,
		ApplicationID: key.ApplicationID,
		Active:        key.Active,
		LastUsedAt:    key.LastUsedAt,
		ExpiresAt:     key.ExpiresAt,
		TokenVersion:  key.TokenVersion,
	}
}

func keyByID(id uuid.UUID) string {
	return prefixByID + id.String()
}

func keyByDigest(digest string) string {
	return prefixByDigest + digest
}

func applicationPrefix(applicationID uuid.UUID) string {
	return prefixByApplication + applicationID.String() + ":"
}

func (m *apiKeyModel) StorageKey() string {
	return keyByID(m.ID)
}

// ids are time ordered, so the application index lists keys by creation
func (m *apiKeyModel) StorageIndexes() []string {
	return []string{
		keyByDigest(m.KeyHash),
		applicationPrefix(m.ApplicationID) + m.ID.String(),
	}
}

func (m *apiKeyModel) MarshalStorage() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal API key: %w", err)
	}

	return data, nil
}

func (m *apiKeyModel) UnmarshalStorage(data []byte) error {
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("failed to unmarshal API key: %w", err)
	}

	return nil
}

func (m *apiKeyModel) toDomain() *APIKey {
	if m == nil {
		return nil
	}

	return &APIKey{
		ID:            m.ID,
		Name:          m.Name,
		KeyHash:       m.KeyHash,
		Role:          m.Role,
		ApplicationID: m.ApplicationID,
		Active:        m.Active,
		CreatedAt:     m.CreatedAt,
		LastUsedAt:    m.LastUsedAt,
		ExpiresAt:     m.ExpiresAt,
		TokenVersion:  m.TokenVersion,
	}
}
