package kvstore

import "context"

// Memory is an in-process Store used by tests and as a throwaway
// fallback when no on-disk store can be opened.
type Memory struct {
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *Memory) MultiGet(_ context.Context, keys []string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := m.values[key]; ok {
			values[key] = value
		}
	}
	return values, nil
}

func (m *Memory) MultiSet(_ context.Context, pairs map[string]string) error {
	for key, value := range pairs {
		m.values[key] = value
	}
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func (m *Memory) MultiRemove(_ context.Context, keys []string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
