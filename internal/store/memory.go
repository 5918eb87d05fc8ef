package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/models"
)

// MemoryClient is an in-process Client used in tests and local development.
// It round-trips documents through JSON so callers never share pointers with
// the stored copy, matching the isolation the remote host provides.
type MemoryClient struct {
	mu  sync.Mutex
	raw []byte

	// Failure injection for tests.
	FailFetch bool
	FailSave  bool

	// SaveCount counts successful saves.
	SaveCount int
}

// NewMemoryClient returns an empty in-memory document host.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// Fetch returns a copy of the stored document, or an empty normalized one if
// nothing has been saved yet.
func (m *MemoryClient) Fetch(ctx context.Context) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailFetch {
		return nil, fmt.Errorf("memory store: fetch unavailable")
	}

	doc := &models.Document{}
	if m.raw != nil {
		if err := json.Unmarshal(m.raw, doc); err != nil {
			return nil, fmt.Errorf("memory store: corrupt document: %w", err)
		}
	}
	doc.Normalize()
	return doc, nil
}

// Save overwrites the stored document wholesale.
func (m *MemoryClient) Save(ctx context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSave {
		return fmt.Errorf("memory store: save unavailable")
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memory store: marshal: %w", err)
	}
	m.raw = raw
	m.SaveCount++
	return nil
}
