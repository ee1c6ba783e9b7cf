package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// MemoryStore keeps the latest result in process memory. Copies are
// exchanged at the boundary so callers cannot mutate the stored result.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, result *t.AnalysisResponse) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if result == nil {
		return fmt.Errorf("result is required")
	}
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = b
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (*t.AnalysisResponse, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, ErrNotFound
	}
	var out t.AnalysisResponse
	if err := json.Unmarshal(s.data, &out); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &out, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
