// Package entity defines the core business entities for the domain layer.
package entity

import "time"

// TimestampLayout is the ISO-8601 layout used for client-side timestamps.
// It matches the millisecond precision produced by mobile clients.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// UnknownWasteTitle is used when an entry carries no category title.
const UnknownWasteTitle = "Ukjent avfallstype"

// PendingEntry is a single locally recorded disposal event that has not yet
// been submitted to the remote sink.
//
// The JSON field names are the on-device wire shape and must not change:
// existing devices hold lists encoded with them.
type PendingEntry struct {
	WasteID    *string `json:"wasteId"`
	WasteTitle string  `json:"wasteTitle"`
	AmountKg   float64 `json:"amountKg"`
	UserID     *string `json:"userId"`
	SavedAt    string  `json:"savedAt"`
	ImageURL   *string `json:"imageUrl"`
}

// NewPendingEntry creates a PendingEntry stamped with the given time.
// Validation of weight and title happens before this is called.
func NewPendingEntry(wasteID *string, title string, amountKg float64, userID *string, imageURL *string, now time.Time) *PendingEntry {
	return &PendingEntry{
		WasteID:    wasteID,
		WasteTitle: title,
		AmountKg:   amountKg,
		UserID:     userID,
		SavedAt:    FormatTimestamp(now),
		ImageURL:   imageURL,
	}
}

// Title returns the entry title, falling back to UnknownWasteTitle.
func (e *PendingEntry) Title() string {
	if e.WasteTitle == "" {
		return UnknownWasteTitle
	}
	return e.WasteTitle
}

// LastEntry is the summary of the most recently appended entry, shown on the
// confirmation screen after a weight has been logged.
type LastEntry struct {
	WasteTitle string  `json:"wasteTitle"`
	Weight     float64 `json:"weight"`
	SavedAt    string  `json:"savedAt"`
}

// FormatTimestamp formats t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
