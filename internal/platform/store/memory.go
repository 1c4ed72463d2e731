package store

import (
	"context"
	"sync"
)

// Memory is a Repository backed by a slice seeded with fixture records.
// Insertion order is preserved; Save on an existing ID replaces in place.
type Memory[T Record] struct {
	mu    sync.RWMutex
	items []T
	index map[string]int
}

// NewMemory returns a Memory store holding a copy of seed.
func NewMemory[T Record](seed []T) *Memory[T] {
	m := &Memory[T]{
		items: make([]T, 0, len(seed)),
		index: make(map[string]int, len(seed)),
	}
	for _, rec := range seed {
		m.put(rec)
	}
	return m
}

func (m *Memory[T]) put(rec T) {
	if i, ok := m.index[rec.GetID()]; ok {
		m.items[i] = rec
		return
	}
	m.index[rec.GetID()] = len(m.items)
	m.items = append(m.items, rec)
}

func (m *Memory[T]) List(_ context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *Memory[T]) Find(_ context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.index[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return m.items[i], nil
}

func (m *Memory[T]) Filter(_ context.Context, pred func(T) bool) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []T{}
	for _, rec := range m.items {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *Memory[T]) Save(_ context.Context, rec T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(rec)
	return nil
}

func (m *Memory[T]) Update(_ context.Context, id string, fn func(*T) error) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	i, ok := m.index[id]
	if !ok {
		return zero, ErrNotFound
	}
	rec := m.items[i]
	if err := fn(&rec); err != nil {
		return zero, err
	}
	m.items[i] = rec
	return rec, nil
}

func (m *Memory[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.index[id]
	if !ok {
		return ErrNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.items); j++ {
		m.index[m.items[j].GetID()] = j
	}
	return nil
}
