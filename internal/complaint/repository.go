package complaint

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"gnacomplaints/backend/internal/models"
	"gnacomplaints/backend/internal/storage"

	"github.com/getsentry/sentry-go"
)

// ListComplaints returns every complaint, newest first. Read failures are
// logged and yield an empty list.
func (s *Service) ListComplaints(ctx context.Context) []models.Complaint {
	snap, err := s.Storage.ReadOrdered(ctx, s.ComplaintsPath)
	if err != nil {
		s.reportStoreError("list complaints", err, "path", s.ComplaintsPath)
		return []models.Complaint{}
	}
	if !snap.Exists() {
		slog.Info("no complaints found", "path", s.ComplaintsPath)
		return []models.Complaint{}
	}
	return normalizeList(snap)
}

// GetComplaint returns the complaint with the given id. ok is false when the
// record is absent or could not be read.
func (s *Service) GetComplaint(ctx context.Context, id string) (models.Complaint, bool) {
	if !validID(id) {
		return models.Complaint{}, false
	}

	snap, err := s.Storage.Read(ctx, storage.Join(s.ComplaintsPath, id))
	if err != nil {
		s.reportStoreError("get complaint", err, "id", id)
		return models.Complaint{}, false
	}
	if len(snap.Value) == 0 {
		slog.Info("complaint not found", "id", id)
		return models.Complaint{}, false
	}
	return normalize(id, snap), true
}

// SubscribeComplaints calls onUpdate with the full normalized list, newest
// first, now and after every change under the complaints path. The returned
// subscription must be closed when the consumer goes away.
func (s *Service) SubscribeComplaints(ctx context.Context, onUpdate func([]models.Complaint)) (storage.Subscription, error) {
	return s.Storage.Subscribe(ctx, s.ComplaintsPath, func(snap storage.Snapshot) {
		onUpdate(normalizeList(snap))
	})
}

// SerialOffset reads the display serial number offset. It is 0 when unset.
func (s *Service) SerialOffset(ctx context.Context) int {
	if s.CounterPath == "" {
		return 0
	}
	snap, err := s.Storage.Read(ctx, s.CounterPath)
	if err != nil {
		s.reportStoreError("read counter", err, "path", s.CounterPath)
		return 0
	}

	var v any
	if err := snap.Decode(&v); err != nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(t))
		return n
	}
	return 0
}

// validID rejects ids that would address anything but a direct child.
func validID(id string) bool {
	return strings.TrimSpace(id) != "" && !strings.Contains(id, "/")
}

func (s *Service) reportStoreError(op string, err error, attrs ...any) {
	slog.Error("store "+op+" failed", append(attrs, "error", err)...)
	sentry.CaptureException(err)
}

// LoadListView reads the list and the serial offset together.
func (s *Service) LoadListView(ctx context.Context) ListView {
	return ListView{
		Complaints:   s.ListComplaints(ctx),
		SerialOffset: s.SerialOffset(ctx),
	}
}
