package complaint

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"gnacomplaints/backend/internal/config"
	"gnacomplaints/backend/internal/models"
	"gnacomplaints/backend/internal/storage"
)

// normalize maps a raw record to a Complaint with every field defaulted.
func normalize(id string, snap storage.Snapshot) models.Complaint {
	fields, ok := snap.Fields()
	if !ok {
		slog.Warn("complaint record is not an object, showing defaults", "id", id, "value", string(snap.Value))
	}
	get := func(key, fallback string) string {
		if v := stringValue(fields[key]); v != "" {
			return v
		}
		return fallback
	}

	return models.Complaint{
		ID:           id,
		Name:         get(models.FieldName, config.DefaultName),
		Department:   get(models.FieldDepartment, config.DefaultDepartment),
		Block:        get(models.FieldBlock, config.DefaultBlock),
		Room:         get(models.FieldRoom, config.DefaultRoom),
		Issue:        get(models.FieldIssue, config.DefaultIssue),
		ReportedDate: get(models.FieldReportedDate, config.DefaultDate),
		Comment:      get(models.FieldComment, ""),
		Resolution:   models.ParseStatus(get(models.FieldStatus, ""), get(models.FieldResolvedAt, "")),
	}
}

// normalizeList returns the children of snap newest first. Store keys grow
// with creation time, so that is reverse key order.
func normalizeList(snap storage.Snapshot) []models.Complaint {
	out := make([]models.Complaint, 0, len(snap.Children))
	for i := len(snap.Children) - 1; i >= 0; i-- {
		child := snap.Children[i]
		out = append(out, normalize(child.Key, child))
	}
	return out
}

// stringValue renders scalar JSON values; room numbers and years are often
// stored as numbers.
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
