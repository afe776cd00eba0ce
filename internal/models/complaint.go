package models

import (
	"encoding/json"
	"strings"
)

// Record field keys as they are stored under the complaints path.
const (
	FieldName         = "name"
	FieldDepartment   = "dept"
	FieldBlock        = "block"
	FieldRoom         = "room-no"
	FieldIssue        = "complaints"
	FieldReportedDate = "date"
	FieldStatus       = "status"
	FieldComment      = "comment"
	FieldResolvedAt   = "date_resolved"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Resolution is the lifecycle state of a complaint: pending, or completed at
// a given time. Only a completed resolution carries a timestamp.
type Resolution struct {
	completed  bool
	resolvedAt string
}

// Pending returns an open resolution.
func Pending() Resolution { return Resolution{} }

// Completed returns a resolution closed at resolvedAt.
func Completed(resolvedAt string) Resolution {
	return Resolution{completed: true, resolvedAt: resolvedAt}
}

// ParseStatus maps a stored or submitted status to a Resolution. Anything
// other than "completed" (case-insensitive) is pending.
func ParseStatus(status, resolvedAt string) Resolution {
	if strings.ToLower(strings.TrimSpace(status)) == StatusCompleted {
		return Completed(resolvedAt)
	}
	return Pending()
}

func (r Resolution) IsCompleted() bool { return r.completed }

func (r Resolution) Status() string {
	if r.completed {
		return StatusCompleted
	}
	return StatusPending
}

func (r Resolution) ResolvedAt() string {
	if !r.completed {
		return ""
	}
	return r.resolvedAt
}

// Fields returns the record fields a write of this resolution must set.
// date_resolved is always present so that reopening clears it.
func (r Resolution) Fields() map[string]any {
	return map[string]any{
		FieldStatus:     r.Status(),
		FieldResolvedAt: r.ResolvedAt(),
	}
}

// Complaint is one normalized issue report.
type Complaint struct {
	ID           string
	Name         string
	Department   string
	Block        string
	Room         string
	Issue        string
	ReportedDate string
	Comment      string
	Resolution   Resolution
}

func (c Complaint) Status() string     { return c.Resolution.Status() }
func (c Complaint) ResolvedAt() string { return c.Resolution.ResolvedAt() }

type complaintJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Department   string `json:"department"`
	Block        string `json:"block"`
	Room         string `json:"room"`
	Issue        string `json:"issue"`
	ReportedDate string `json:"reportedDate"`
	Status       string `json:"status"`
	Comment      string `json:"comment"`
	ResolvedAt   string `json:"resolvedAt"`
}

func (c Complaint) MarshalJSON() ([]byte, error) {
	return json.Marshal(complaintJSON{
		ID:           c.ID,
		Name:         c.Name,
		Department:   c.Department,
		Block:        c.Block,
		Room:         c.Room,
		Issue:        c.Issue,
		ReportedDate: c.ReportedDate,
		Status:       c.Status(),
		Comment:      c.Comment,
		ResolvedAt:   c.ResolvedAt(),
	})
}

func (c *Complaint) UnmarshalJSON(data []byte) error {
	var raw complaintJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Complaint{
		ID:           raw.ID,
		Name:         raw.Name,
		Department:   raw.Department,
		Block:        raw.Block,
		Room:         raw.Room,
		Issue:        raw.Issue,
		ReportedDate: raw.ReportedDate,
		Comment:      raw.Comment,
		Resolution:   ParseStatus(raw.Status, raw.ResolvedAt),
	}
	return nil
}
