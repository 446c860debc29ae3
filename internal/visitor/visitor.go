// Package visitor issues the stable anonymous visitor identity and tracks
// whether the privacy notice has been acknowledged.
package visitor

import (
	"fmt"
	"log/slog"

	"github.com/realmeta/docent/internal/ids"
	"github.com/realmeta/docent/internal/kvstore"
)

const (
	visitorIDKey  = "realmeta_visitor_id"
	privacyAckKey = "realmeta_privacy_ack"
)

// Manager persists visitor identity and consent state in the durable store.
type Manager struct {
	store kvstore.Store
}

func NewManager(store kvstore.Store) *Manager {
	return &Manager{store: store}
}

// ID returns the visitor id, generating and persisting one on first call.
// The id is immutable for the lifetime of the durable store.
func (m *Manager) ID() (string, error) {
	id, exists, err := m.store.Get(visitorIDKey)
	if err != nil {
		return "", fmt.Errorf("read visitor id: %w", err)
	}
	if exists && id != "" {
		return id, nil
	}

	id = ids.New("visitor")
	if err := m.store.Set(visitorIDKey, id); err != nil {
		return "", fmt.Errorf("persist visitor id: %w", err)
	}
	slog.Info("Issued new visitor id", "visitor_id", id)
	return id, nil
}

// ConsentAcknowledged reports whether the privacy notice was ever dismissed.
// The banner is shown only while this is false.
func (m *Manager) ConsentAcknowledged() bool {
	value, exists, err := m.store.Get(privacyAckKey)
	if err != nil {
		slog.Warn("Failed to read privacy ack flag", "err", err)
		return false
	}
	return exists && value == "true"
}

// AcknowledgeConsent permanently dismisses the privacy notice.
func (m *Manager) AcknowledgeConsent() error {
	if err := m.store.Set(privacyAckKey, "true"); err != nil {
		return fmt.Errorf("persist privacy ack: %w", err)
	}
	return nil
}
