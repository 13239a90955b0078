package entity

import "time"

// Document field names for a submitted waste record.
const (
	FieldWasteID    = "wasteId"
	FieldWasteTitle = "wasteTitle"
	FieldAmountKg   = "amountKg"
	FieldUserID     = "userId"
	FieldSavedAt    = "savedAt"
	FieldTimestamp  = "timestamp"
)

// WasteSubmission is one aggregated group as written to the waste collection.
type WasteSubmission struct {
	WasteID    *string
	WasteTitle string
	AmountKg   float64
	UserID     *string
	SavedAt    time.Time
}

// ToFields converts the submission to document fields. The timestamp field is
// assigned by the document store, not here.
func (s *WasteSubmission) ToFields() Fields {
	return Fields{
		FieldWasteID:    nullable(s.WasteID),
		FieldWasteTitle: s.WasteTitle,
		FieldAmountKg:   s.AmountKg,
		FieldUserID:     nullable(s.UserID),
		FieldSavedAt:    FormatTimestamp(s.SavedAt),
	}
}

func nullable(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
