// Package complaint reads complaint records from the record store, keeps
// them in their normalized shape and applies operator status updates.
package complaint

import (
	"time"

	"gnacomplaints/backend/internal/cache"
	"gnacomplaints/backend/internal/models"
	"gnacomplaints/backend/internal/storage"
)

// Service handles the business logic for complaints.
type Service struct {
	Storage        storage.Storage
	ComplaintsPath string
	CounterPath    string

	// Location and Now produce resolution timestamps.
	Location *time.Location
	Now      func() time.Time

	// Invalidator is told which display routes went stale after an update.
	Invalidator cache.Invalidator
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, complaintsPath, counterPath string, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		Storage:        s,
		ComplaintsPath: complaintsPath,
		CounterPath:    counterPath,
		Location:       loc,
		Now:            time.Now,
		Invalidator:    cache.Noop{},
	}
}

// ListRoute and DetailRoute name the display routes backed by complaint data.
const ListRoute = "/"

func DetailRoute(id string) string { return "/complaint/" + id }

// ListView is the data behind ListRoute.
type ListView struct {
	Complaints   []models.Complaint `json:"complaints"`
	SerialOffset int                `json:"serialOffset"`
}
