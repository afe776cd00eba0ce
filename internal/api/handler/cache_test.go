package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gnacomplaints/backend/internal/api/handler"
	"gnacomplaints/backend/internal/complaint"
	"gnacomplaints/backend/internal/livehub"
	"gnacomplaints/backend/internal/localization"
	"gnacomplaints/backend/internal/models"
	"gnacomplaints/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is a cache.Cache over a JSON map.
type mapCache struct {
	mu     sync.Mutex
	values map[string][]byte
	sets   int
}

func (c *mapCache) Get(_ context.Context, route string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.values[route]
	return ok && json.Unmarshal(data, dst) == nil
}

func (c *mapCache) Set(_ context.Context, route string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, _ := json.Marshal(v)
	c.values[route] = data
	c.sets++
}

func (c *mapCache) Invalidate(_ context.Context, routes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range routes {
		delete(c.values, r)
	}
}

func newCachedRouter(t *testing.T, c *mapCache) (*gin.Engine, *storage.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(storage.Join(complaintsPath, "-N0001"), map[string]any{"name": "Stored"}))

	loc, err := localization.Default()
	require.NoError(t, err)
	svc := complaint.NewService(store, complaintsPath, "", time.UTC)
	h := handler.NewHandler(svc, livehub.NewManagerService(), c, loc, handler.NewViewerTokens("s", time.Hour), store)
	router, err := handler.NewRouter(h, handler.RouterOptions{})
	require.NoError(t, err)
	return router, store
}

func TestViews_MissesAreNotCached(t *testing.T) {
	c := &mapCache{values: make(map[string][]byte)}
	router, _ := newCachedRouter(t, c)

	for _, path := range []string{"/", "/complaint/-N0001", "/api/complaints", "/api/complaints/-N0001"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "Stored", path)
	}
	assert.Zero(t, c.sets, "page reads never write the cache")
}

func TestViews_ServeCachedEntries(t *testing.T) {
	c := &mapCache{values: make(map[string][]byte)}
	router, _ := newCachedRouter(t, c)

	cached := models.Complaint{ID: "-N0001", Name: "cached name", Resolution: models.Pending()}
	c.Set(context.Background(), complaint.DetailRoute("-N0001"), cached)
	c.Set(context.Background(), complaint.ListRoute, complaint.ListView{Complaints: []models.Complaint{cached}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/complaint/-N0001", nil))
	assert.Contains(t, w.Body.String(), "Cached Name")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "Cached Name")
}
