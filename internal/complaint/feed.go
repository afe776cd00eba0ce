package complaint

import (
	"context"

	"gnacomplaints/backend/internal/cache"
	"gnacomplaints/backend/internal/models"
)

// ViewFeed keeps the view cache and live viewers in step with the store. It
// is the only writer of cached views: each snapshot is taken after the
// change it reports, so entries never go back to an older value. Apply must
// be called from a single goroutine, the subscription pump.
type ViewFeed struct {
	Service *Service
	Cache   cache.Cache
	Publish func(ctx context.Context, view ListView)

	seen map[string]models.Complaint
}

func NewViewFeed(svc *Service, c cache.Cache, publish func(ctx context.Context, view ListView)) *ViewFeed {
	if c == nil {
		c = cache.Noop{}
	}
	return &ViewFeed{Service: svc, Cache: c, Publish: publish}
}

// Apply caches the list and every record that changed since the previous
// snapshot, then publishes the list.
func (f *ViewFeed) Apply(ctx context.Context, list []models.Complaint) {
	view := ListView{Complaints: list, SerialOffset: f.Service.SerialOffset(ctx)}

	seen := make(map[string]models.Complaint, len(list))
	for _, c := range list {
		seen[c.ID] = c
		if prev, ok := f.seen[c.ID]; ok && prev == c {
			continue
		}
		f.Cache.Set(ctx, DetailRoute(c.ID), c)
	}
	f.seen = seen

	f.Cache.Set(ctx, ListRoute, view)
	if f.Publish != nil {
		f.Publish(ctx, view)
	}
}
