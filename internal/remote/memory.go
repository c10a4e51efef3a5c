package remote

import (
	"context"
	"sync"

	"github.com/abhisek/vocabz/internal/vocab"
)

// Memory is an in-process Gateway with failure injection, used in tests
// and when no DSN is configured for dry runs.
type Memory struct {
	mu      sync.Mutex
	records map[string]vocab.Record
	order   []string

	// Err, when set, is returned by every data call.
	Err error
	// Status, when set, is returned by CheckConnectivity.
	Status *Status

	upserts int
	deletes int
	updates int
}

// NewMemory returns a Memory gateway seeded with records.
func NewMemory(records ...vocab.Record) *Memory {
	m := &Memory{records: make(map[string]vocab.Record)}
	for _, r := range records {
		m.put(r)
	}
	return m
}

func (m *Memory) put(r vocab.Record) {
	k := r.Key()
	if _, ok := m.records[k]; !ok {
		m.order = append(m.order, k)
	}
	m.records[k] = r
}

// Fail sets the error returned by data calls.
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// SetStatus overrides the connectivity result.
func (m *Memory) SetStatus(s Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Status = &s
}

func (m *Memory) List(_ context.Context) ([]vocab.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]vocab.Record, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.records[k])
	}
	return out, nil
}

func (m *Memory) UpsertMany(_ context.Context, records []vocab.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	if m.Err != nil {
		return m.Err
	}
	for _, r := range records {
		if old, ok := m.records[r.Key()]; ok {
			r.ID = old.ID
		}
		m.put(r)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, word string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if m.Err != nil {
		return m.Err
	}
	k := vocab.Key(word)
	if _, ok := m.records[k]; !ok {
		return nil
	}
	delete(m.records, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) UpdateProgress(_ context.Context, r vocab.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.Err != nil {
		return m.Err
	}
	old, ok := m.records[r.Key()]
	if !ok {
		return nil
	}
	old.Mastery = r.Mastery
	old.Attempts = r.Attempts
	old.Correct = r.Correct
	old.LastPracticed = r.LastPracticed
	m.records[r.Key()] = old
	return nil
}

func (m *Memory) CheckConnectivity(_ context.Context) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Status != nil {
		return *m.Status
	}
	return Status{Connected: true}
}

// Get returns the stored record for word.
func (m *Memory) Get(word string) (vocab.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[vocab.Key(word)]
	return r, ok
}

// Calls returns how many upsert, delete and update calls were made.
func (m *Memory) Calls() (upserts, deletes, updates int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts, m.deletes, m.updates
}
