// Package storage holds the URL record type and the non-networked record
// stores: an in-memory map for development and tests, and a bbolt file store.
package storage

import (
	"context"
	"sync"
	"time"
)

type MemoryStorage struct {
	mu      sync.RWMutex
	records map[string]URLRecord
}

func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		records: make(map[string]URLRecord),
	}, nil
}

func (m *MemoryStorage) Create(_ context.Context, record URLRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.ShortCode]; exists {
		return ErrDuplicateKey
	}
	m.records[record.ShortCode] = record
	return nil
}

func (m *MemoryStorage) FindByCode(_ context.Context, code string) (*URLRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, exists := m.records[code]
	if !exists {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *MemoryStorage) UpdateActive(_ context.Context, code string, active bool) (*URLRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, exists := m.records[code]
	if !exists {
		return nil, ErrNotFound
	}
	now := time.Now().UTC()
	r.Active = active
	r.UpdatedAt = &now
	m.records[code] = r
	return &r, nil
}

func (m *MemoryStorage) Delete(_ context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[code]; !exists {
		return false, nil
	}
	delete(m.records, code)
	return true, nil
}

func (m *MemoryStorage) PingContext(_ context.Context) error {
	return nil
}
