package complaint_test

import (
	"context"
	"sync"

	"gnacomplaints/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of storage.Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Read(ctx context.Context, path string) (storage.Snapshot, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(storage.Snapshot), args.Error(1)
}

func (m *MockStorage) ReadOrdered(ctx context.Context, path string) (storage.Snapshot, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(storage.Snapshot), args.Error(1)
}

func (m *MockStorage) Update(ctx context.Context, path string, fields map[string]any) error {
	args := m.Called(ctx, path, fields)
	return args.Error(0)
}

func (m *MockStorage) Subscribe(ctx context.Context, path string, onChange func(storage.Snapshot)) (storage.Subscription, error) {
	args := m.Called(ctx, path, onChange)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(storage.Subscription), args.Error(1)
}

func (m *MockStorage) Unsubscribe(sub storage.Subscription) error {
	args := m.Called(sub)
	return args.Error(0)
}

func (m *MockStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingInvalidator remembers invalidated routes.
type recordingInvalidator struct {
	mu     sync.Mutex
	routes []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, routes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, routes...)
}

func (r *recordingInvalidator) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.routes...)
}

// recordingCache is an in-memory cache.Cache that remembers every Set.
type recordingCache struct {
	recordingInvalidator
	values map[string]any
	sets   []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{values: make(map[string]any)}
}

func (c *recordingCache) Get(_ context.Context, route string, _ any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[route]
	return ok
}

func (c *recordingCache) Set(_ context.Context, route string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[route] = v
	c.sets = append(c.sets, route)
}

// Sets returns the routes written since the last call.
func (c *recordingCache) Sets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.sets
	c.sets = nil
	return out
}

func (c *recordingCache) Value(route string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[route]
}
