package interview

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{records: map[string]Record{}, now: time.Now}
}

func (m *memoryStore) Create(_ context.Context, rec Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := m.now().UTC()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now
	}
	rec.UpdatedAt = now
	m.records[rec.ID] = rec.clone()
	return rec.ID, nil
}

func (m *memoryStore) Update(_ context.Context, id string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	rec = rec.clone()
	cur.CandidateName = rec.CandidateName
	cur.Responses = rec.Responses
	cur.Feedback = rec.Feedback
	cur.IsComplete = rec.IsComplete
	cur.UpdatedAt = m.now().UTC()
	m.records[id] = cur
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec.clone(), nil
}

func (m *memoryStore) List(_ context.Context, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	all := make([]Summary, 0, len(m.records))
	for _, rec := range m.records {
		if opts.CandidateID != "" && rec.CandidateID != opts.CandidateID {
			continue
		}
		all = append(all, rec.Summary())
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].ID > all[j].ID
	})
	off := max(opts.Offset, 0)
	if off >= len(all) {
		return []Summary{}, nil
	}
	all = all[off:]
	if n := opts.limit(); len(all) > n {
		all = all[:n]
	}
	return all, nil
}
