package auth

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string]User{}}
}

func (m *MemoryStore) FindByUsername(_ context.Context, username string) (User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	return u, ok, nil
}

func (m *MemoryStore) EnsureUser(_ context.Context, user User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return false, nil
	}
	m.users[user.Username] = user
	return true, nil
}
