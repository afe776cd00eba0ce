package livehub

import "gnacomplaints/backend/internal/models"

const TypeSnapshot = "snapshot"

// Message is what viewers receive: the whole list, newest first.
type Message struct {
	Type         string             `json:"type"`
	Complaints   []models.Complaint `json:"complaints"`
	SerialOffset int                `json:"serialOffset"`
}

// Snapshot wraps a freshly read complaint list.
func Snapshot(complaints []models.Complaint, serialOffset int) Message {
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return Message{Type: TypeSnapshot, Complaints: complaints, SerialOffset: serialOffset}
}
