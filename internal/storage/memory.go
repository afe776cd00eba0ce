package storage

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

// MemoryStore is an in-process Storage with the same read, merge and
// notification semantics as Service. It backs STORE_DRIVER=memory and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]map[string]json.RawMessage // parent -> key -> value
	subs  map[string]map[chan struct{}]struct{} // parent -> listeners
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]map[string]json.RawMessage),
		subs:  make(map[string]map[chan struct{}]struct{}),
	}
}

// Put replaces the value at path. Records are created outside the
// application, so this exists for seeding.
func (m *MemoryStore) Put(path string, value any) error {
	parent, key, err := splitPath(path)
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.nodes[parent] == nil {
		m.nodes[parent] = make(map[string]json.RawMessage)
	}
	m.nodes[parent][key] = data
	m.mu.Unlock()

	m.notify(parent)
	return nil
}

func (m *MemoryStore) Read(ctx context.Context, path string) (Snapshot, error) {
	parent, key, err := splitPath(path)
	if err != nil {
		return Snapshot{}, err
	}

	m.mu.RLock()
	value, ok := m.nodes[parent][key]
	m.mu.RUnlock()
	if ok {
		return Snapshot{Key: key, Value: slices.Clone(value)}, nil
	}
	return m.ReadOrdered(ctx, path)
}

func (m *MemoryStore) ReadOrdered(_ context.Context, path string) (Snapshot, error) {
	p, err := cleanPath(path)
	if err != nil {
		return Snapshot{}, err
	}
	_, key, _ := splitPath(p)

	m.mu.RLock()
	defer m.mu.RUnlock()

	children := m.nodes[p]
	keys := make([]string, 0, len(children))
	for k := range children {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	snap := Snapshot{Key: key}
	for _, k := range keys {
		snap.Children = append(snap.Children, Snapshot{Key: k, Value: slices.Clone(children[k])})
	}
	return snap, nil
}

func (m *MemoryStore) Update(_ context.Context, path string, fields map[string]any) error {
	parent, key, err := splitPath(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	merged, err := mergeFields(m.nodes[parent][key], fields)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if m.nodes[parent] == nil {
		m.nodes[parent] = make(map[string]json.RawMessage)
	}
	m.nodes[parent][key] = merged
	m.mu.Unlock()

	m.notify(parent)
	return nil
}

func (m *MemoryStore) notify(parent string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for ch := range m.subs[parent] {
		select {
		case ch <- struct{}{}:
		default: // a delivery is already pending
		}
	}
}

func (m *MemoryStore) Subscribe(ctx context.Context, path string, onChange func(Snapshot)) (Subscription, error) {
	p, err := cleanPath(path)
	if err != nil {
		return nil, err
	}

	ch := make(chan struct{}, 1)
	m.mu.Lock()
	if m.subs[p] == nil {
		m.subs[p] = make(map[chan struct{}]struct{})
	}
	m.subs[p][ch] = struct{}{}
	m.mu.Unlock()

	release := func() error {
		m.mu.Lock()
		delete(m.subs[p], ch)
		m.mu.Unlock()
		return nil
	}
	read := func(ctx context.Context) (Snapshot, error) { return m.ReadOrdered(ctx, p) }
	return startPump(ctx, p, ch, read, onChange, release), nil
}

func (m *MemoryStore) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Close()
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// Listeners reports how many subscriptions are attached below path.
func (m *MemoryStore) Listeners(path string) int {
	p, err := cleanPath(path)
	if err != nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs[p])
}
