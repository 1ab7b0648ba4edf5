package unitconfig

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps unit policies in process. It backs the memory store driver
// and the tests.
type MemoryStore struct {
	mu      sync.RWMutex
	configs map[string]Config
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{configs: map[string]Config{}, now: time.Now}
}

func (m *MemoryStore) Find(_ context.Context, unitID string) (Config, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.configs[unitID]
	return cfg, ok, nil
}

func (m *MemoryStore) Upsert(_ context.Context, cfg Config) (Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg.UpdatedAt = m.now().UTC()
	m.configs[cfg.UnitID] = cfg
	return cfg, nil
}

func (m *MemoryStore) List(_ context.Context) ([]Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Config, 0, len(m.configs))
	for _, cfg := range m.configs {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out, nil
}
