package store

import (
	"fmt"
	"sync"
)

// MemStore is an in-memory Store used in tests and as a scratch backend.
type MemStore struct {
	mu      sync.Mutex
	records []*Record
	nextID  int64
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{nextID: 1}
}

func (m *MemStore) SaveAnalysis(rec *Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	cp.ID = m.nextID
	cp.CreatedAt = nowUTC()
	m.nextID++
	m.records = append(m.records, &cp)
	rec.ID = cp.ID
	return cp.ID, nil
}

func (m *MemStore) GetAnalysis(id int64) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

func (m *MemStore) ListAnalyses(limit int) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Record
	for i := len(m.records) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		cp := *m.records[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemStore) Close() error { return nil }
