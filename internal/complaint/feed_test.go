package complaint_test

import (
	"context"
	"testing"
	"time"

	"gnacomplaints/backend/internal/complaint"
	"gnacomplaints/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewFeed_CachesChangedRecords(t *testing.T) {
	svc, store := newMemoryService(t)
	require.NoError(t, store.Put("gna-counter", 10))
	c := newRecordingCache()

	var published []complaint.ListView
	feed := complaint.NewViewFeed(svc, c, func(_ context.Context, view complaint.ListView) {
		published = append(published, view)
	})

	a := models.Complaint{ID: "-N0001", Name: "a", Resolution: models.Pending()}
	b := models.Complaint{ID: "-N0002", Name: "b", Resolution: models.Pending()}

	ctx := context.Background()
	feed.Apply(ctx, []models.Complaint{b, a})
	assert.ElementsMatch(t, []string{"/complaint/-N0001", "/complaint/-N0002", "/"}, c.Sets())

	a.Resolution = models.Completed("05/03/2024 | 02:00 PM")
	feed.Apply(ctx, []models.Complaint{b, a})
	assert.ElementsMatch(t, []string{"/complaint/-N0001", "/"}, c.Sets(), "unchanged records are not rewritten")
	assert.Equal(t, a, c.Value(complaint.DetailRoute("-N0001")))

	require.Len(t, published, 2)
	assert.Equal(t, 10, published[1].SerialOffset)
	assert.Equal(t, []models.Complaint{b, a}, published[1].Complaints)
	assert.Equal(t, published[1], c.Value(complaint.ListRoute))
}

// A write from another process reaches the cached detail view through the
// subscription, without any local invalidation.
func TestViewFeed_ExternalWriteRefreshesDetail(t *testing.T) {
	svc, store := newMemoryService(t)
	seed(t, store, "-N0001", map[string]any{"name": "a", "status": "pending"})
	c := newRecordingCache()
	feed := complaint.NewViewFeed(svc, c, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	applied := make(chan struct{}, 8)
	sub, err := svc.SubscribeComplaints(ctx, func(list []models.Complaint) {
		feed.Apply(ctx, list)
		applied <- struct{}{}
	})
	require.NoError(t, err)
	defer sub.Close()

	waitApplied(t, applied)
	seed(t, store, "-N0001", map[string]any{"name": "a", "status": "completed", "date_resolved": "05/03/2024 | 02:00 PM"})
	waitApplied(t, applied)

	rec, ok := c.Value(complaint.DetailRoute("-N0001")).(models.Complaint)
	require.True(t, ok)
	assert.Equal(t, "completed", rec.Status())
}

func waitApplied(t *testing.T, applied <-chan struct{}) {
	t.Helper()
	select {
	case <-applied:
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot was not applied")
	}
}
