package complaint

import (
	"context"
	"log/slog"
	"strings"

	"gnacomplaints/backend/internal/config"
	"gnacomplaints/backend/internal/metrics"
	"gnacomplaints/backend/internal/models"
	"gnacomplaints/backend/internal/storage"
)

const (
	MsgUpdated       = "Complaint updated successfully!"
	MsgRequired      = "Complaint ID and Status are required."
	MsgInvalidStatus = "Status must be pending or completed."
	MsgNotFound      = "Complaint not found."
	MsgFailed        = "Failed to update. Please try again."
)

// Result is what the operator sees after submitting an update.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Outcome is one of the metrics.Outcome* values.
	Outcome string `json:"outcome"`
}

// UpdateComplaint sets the status and comment of an existing complaint.
// Completing a complaint stamps the resolution time; any other status clears
// it. The write is a single attempt; failures are reported, never returned.
func (s *Service) UpdateComplaint(ctx context.Context, id, status, comment string) Result {
	id = strings.TrimSpace(id)
	status = strings.ToLower(strings.TrimSpace(status))
	if id == "" || status == "" {
		return s.reject(metrics.OutcomeInvalid, MsgRequired)
	}
	if status != models.StatusPending && status != models.StatusCompleted {
		return s.reject(metrics.OutcomeInvalid, MsgInvalidStatus)
	}
	if !validID(id) {
		return s.reject(metrics.OutcomeNotFound, MsgNotFound)
	}

	path := storage.Join(s.ComplaintsPath, id)

	// Records are created elsewhere; a merge into a missing id would create one.
	snap, err := s.Storage.Read(ctx, path)
	if err != nil {
		s.reportStoreError("read before update", err, "id", id)
		return s.reject(metrics.OutcomeFailed, MsgFailed)
	}
	if len(snap.Value) == 0 {
		return s.reject(metrics.OutcomeNotFound, MsgNotFound)
	}

	resolution := models.Pending()
	if status == models.StatusCompleted {
		resolution = models.Completed(s.Now().In(s.Location).Format(config.ResolvedAtLayout))
	}

	fields := resolution.Fields()
	fields[models.FieldComment] = normalizeComment(comment)

	if err := s.Storage.Update(ctx, path, fields); err != nil {
		s.reportStoreError("update complaint", err, "id", id)
		return s.reject(metrics.OutcomeFailed, MsgFailed)
	}

	slog.Info("complaint updated", "id", id, "status", resolution.Status())
	metrics.ComplaintUpdates.WithLabelValues(metrics.OutcomeUpdated).Inc()
	s.Invalidator.Invalidate(ctx, ListRoute, DetailRoute(id))
	return Result{Success: true, Message: MsgUpdated, Outcome: metrics.OutcomeUpdated}
}

// normalizeComment lowercases the comment. Blank input clears it.
func normalizeComment(comment string) string {
	if strings.TrimSpace(comment) == "" {
		return ""
	}
	return strings.ToLower(comment)
}

func (s *Service) reject(outcome, msg string) Result {
	metrics.ComplaintUpdates.WithLabelValues(outcome).Inc()
	return Result{Success: false, Message: msg, Outcome: outcome}
}
