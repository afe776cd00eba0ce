package config

// Field defaults applied when a stored complaint lacks a value.
const (
	DefaultName       = "Unknown Name"
	DefaultDepartment = "Unknown Department"
	DefaultBlock      = "Unknown Block"
	DefaultRoom       = "Unknown Room"
	DefaultIssue      = "No issue described"
	DefaultDate       = "N/A"
)

// Display placeholders for empty formatted values.
const (
	PlaceholderIssue   = "No issue description provided."
	PlaceholderComment = "No comments added yet."
	PlaceholderOther   = "N/A"
)

// ResolvedAtLayout renders resolution timestamps as "DD/MM/YYYY | hh:mm AM/PM".
const ResolvedAtLayout = "02/01/2006 | 03:04 PM"
