// Package valueobject contains domain value objects for the ecoVekt system.
package valueobject

import (
	"github.com/shopspring/decimal"

	"github.com/ecovekt/backend/internal/domain/entity"
)

const (
	// NoIDSentinel stands in for a missing waste category id in aggregation keys.
	NoIDSentinel = "no-id"
	// KeySeparator joins the id and title parts of an aggregation key.
	KeySeparator = "__"
)

// AggregatedGroup summarises every pending entry that shares an aggregation key.
// It is derived on demand and never persisted.
type AggregatedGroup struct {
	Key        string
	WasteID    *string
	WasteTitle string
	TotalKg    float64
	Count      int
	ImageURL   *string
}

// AggregationKey returns the composite key for an entry. Entries without an id
// still merge when their titles match exactly.
func AggregationKey(e *entity.PendingEntry) string {
	idPart := NoIDSentinel
	if e.WasteID != nil {
		idPart = *e.WasteID
	}
	return idPart + KeySeparator + e.Title()
}

// Aggregate groups entries by AggregationKey. Groups are returned in order of
// first occurrence; the image of a group is the one of its first entry.
// Sums are accumulated in decimal so that 0.3 + 0.2 yields exactly 0.5.
func Aggregate(entries []*entity.PendingEntry) []AggregatedGroup {
	order := make([]string, 0)
	groups := make(map[string]*AggregatedGroup)
	totals := make(map[string]decimal.Decimal)

	for _, e := range entries {
		if e == nil {
			continue
		}
		key := AggregationKey(e)
		g, ok := groups[key]
		if !ok {
			g = &AggregatedGroup{
				Key:        key,
				WasteID:    e.WasteID,
				WasteTitle: e.Title(),
				ImageURL:   e.ImageURL,
			}
			groups[key] = g
			totals[key] = decimal.Zero
			order = append(order, key)
		}
		totals[key] = totals[key].Add(decimal.NewFromFloat(e.AmountKg))
		g.Count++
	}

	result := make([]AggregatedGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		g.TotalKg = totals[key].InexactFloat64()
		result = append(result, *g)
	}
	return result
}
