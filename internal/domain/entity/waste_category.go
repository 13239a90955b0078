package entity

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Catalog document field names.
var (
	CatalogTitleFieldPriority = []string{"title", "name"}
)

// User document field names.
const (
	FieldSelectedWaste = "selectedWaste"
	FieldUpdatedAt     = "updatedAt"
)

// WasteCategory is an entry of the waste-type catalog (collection "trash").
type WasteCategory struct {
	ID          string
	Title       string
	Description string
	ImageURL    *string
}

// WasteCategoryFromDocument decodes a catalog document. The title falls back
// to the document id when neither title nor name is present.
func WasteCategoryFromDocument(doc *Document) *WasteCategory {
	c := &WasteCategory{ID: doc.ID}
	if title, ok := DecodeString(doc.Fields, CatalogTitleFieldPriority...); ok {
		c.Title = strings.TrimSpace(title)
	} else {
		c.Title = doc.ID
	}
	if description, ok := DecodeString(doc.Fields, "description"); ok {
		c.Description = description
	}
	if img, ok := DecodeString(doc.Fields, ImageURLFieldPriority...); ok {
		c.ImageURL = &img
	}
	return c
}

// SortWasteCategories puts categories with numeric ids first, in id order,
// followed by the rest ordered by title.
func SortWasteCategories(categories []*WasteCategory) {
	sort.SliceStable(categories, func(i, j int) bool {
		a, errA := strconv.Atoi(categories[i].ID)
		b, errB := strconv.Atoi(categories[j].ID)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return categories[i].Title < categories[j].Title
	})
}

// UserSelection holds the waste categories a user has chosen to track.
type UserSelection struct {
	UserID        string
	SelectedWaste []string
	UpdatedAt     *time.Time
}

// NormalizeSelection trims titles and drops blanks and duplicates, keeping
// the first occurrence.
func NormalizeSelection(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	result := make([]string, 0, len(titles))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}

// UserSelectionFromDocument decodes the selectedWaste list of a user document.
// Non-string items are ignored.
func UserSelectionFromDocument(doc *Document) *UserSelection {
	selection := &UserSelection{UserID: doc.ID, SelectedWaste: []string{}}

	if raw, ok := doc.Fields[FieldSelectedWaste].([]any); ok {
		titles := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				titles = append(titles, s)
			}
		}
		selection.SelectedWaste = NormalizeSelection(titles)
	}
	if updatedAt, ok := DecodeString(doc.Fields, FieldUpdatedAt); ok {
		if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			selection.UpdatedAt = &t
		}
	}
	return selection
}
