package store

import (
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store. Contents are lost on restart.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]string),
	}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	v, ok := m.items[key]
	m.mu.RUnlock()
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}

// Size returns current number of items.
func (m *Memory) Size() int {
	m.mu.RLock()
	sz := len(m.items)
	m.mu.RUnlock()
	return sz
}

func (m *Memory) Close() error { return nil }
