package valueobject

import (
	"strings"

	"github.com/shopspring/decimal"
)

// UnknownType labels history records without a category.
const UnknownType = "Ukjent"

// preferredHighlights are checked in order when picking the highlighted category.
var preferredHighlights = []string{"Restavfall", "Restavfall ", "restavfall", "Rest"}

// CategoryTotal is the accumulated weight for one category of submitted waste.
type CategoryTotal struct {
	Title   string
	TotalKg float64
	Records int
}

// WasteTotals accumulates submitted weights per category title, keeping the
// order in which titles were first seen.
type WasteTotals struct {
	order  []string
	sums   map[string]decimal.Decimal
	counts map[string]int
}

// NewWasteTotals creates an empty accumulator.
func NewWasteTotals() *WasteTotals {
	return &WasteTotals{
		sums:   make(map[string]decimal.Decimal),
		counts: make(map[string]int),
	}
}

// Add records kg for title. A blank title counts as UnknownType.
func (t *WasteTotals) Add(title string, kg float64) {
	if strings.TrimSpace(title) == "" {
		title = UnknownType
	}
	if _, ok := t.sums[title]; !ok {
		t.order = append(t.order, title)
		t.sums[title] = decimal.Zero
	}
	t.sums[title] = t.sums[title].Add(decimal.NewFromFloat(kg))
	t.counts[title]++
}

// Categories returns the totals with a positive weight, in first-seen order.
func (t *WasteTotals) Categories() []CategoryTotal {
	result := make([]CategoryTotal, 0, len(t.order))
	for _, title := range t.order {
		sum := t.sums[title]
		if !sum.IsPositive() {
			continue
		}
		result = append(result, CategoryTotal{
			Title:   title,
			TotalKg: sum.InexactFloat64(),
			Records: t.counts[title],
		})
	}
	return result
}

// GrandTotal returns the sum over all categories.
func (t *WasteTotals) GrandTotal() float64 {
	total := decimal.Zero
	for _, title := range t.order {
		total = total.Add(t.sums[title])
	}
	return total.InexactFloat64()
}

// Highlight picks the category shown in the profile summary: a residual-waste
// variant if present, otherwise the first category. ok is false when empty.
func (t *WasteTotals) Highlight() (CategoryTotal, bool) {
	categories := t.Categories()
	if len(categories) == 0 {
		return CategoryTotal{}, false
	}
	for _, preferred := range preferredHighlights {
		for _, c := range categories {
			if c.Title == preferred {
				return c, true
			}
		}
	}
	return categories[0], true
}
