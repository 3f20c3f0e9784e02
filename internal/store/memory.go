package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process Repository. It backs --ephemeral runs and tests.
type Memory struct {
	mu    sync.Mutex
	data  map[Kind]Collection
	saves map[Kind]int
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{data: map[Kind]Collection{}, saves: map[Kind]int{}}
}

func (m *Memory) LoadCollection(ctx context.Context, kind Kind) (Collection, error) {
	if err := ctx.Err(); err != nil {
		return Collection{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data[kind]
	if !ok {
		return DefaultCollection(kind), nil
	}
	c.Data = slices.Clone(c.Data)
	return c, nil
}

func (m *Memory) SaveCollection(ctx context.Context, kind Kind, c Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c.Kind = kind
	c.Data = slices.Clone(c.Data)
	m.data[kind] = c
	m.saves[kind]++
	return nil
}

// Saves reports how many times kind has been saved.
func (m *Memory) Saves(kind Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[kind]
}
