// Package statistics contains use cases summarising a user's submitted waste.
package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/domain/valueobject"
)

// DefaultWindow is how far back statistics look when no start is given.
const DefaultWindow = 90 * 24 * time.Hour

// statisticsTitleFields are checked in order for a record's category.
var statisticsTitleFields = []string{entity.FieldWasteTitle, "type"}

// statisticsTimeFields are checked in order for a record's time.
var statisticsTimeFields = append(append([]string{}, entity.TimeFieldPriority...), entity.FieldTimestamp)

// GetWasteStatisticsInput represents the input for the statistics query.
type GetWasteStatisticsInput struct {
	Since *time.Time // Optional, defaults to now minus the configured window
}

// GetWasteStatisticsOutput represents the per-category totals of a user.
type GetWasteStatisticsOutput struct {
	UserID     string
	Since      time.Time
	Categories []valueobject.CategoryTotal
	TotalKg    float64
	Records    int
	Highlight  *valueobject.CategoryTotal
}

// GetWasteStatisticsUseCase handles the statistics query.
type GetWasteStatisticsUseCase struct {
	documents  adapter.DocumentStore
	identity   adapter.IdentityProvider
	clock      adapter.Clock
	window     time.Duration
	collection string
}

// NewGetWasteStatisticsUseCase creates a new GetWasteStatisticsUseCase instance.
func NewGetWasteStatisticsUseCase(
	documents adapter.DocumentStore,
	identity adapter.IdentityProvider,
	clock adapter.Clock,
	window time.Duration,
) *GetWasteStatisticsUseCase {
	if window <= 0 {
		window = DefaultWindow
	}
	return &GetWasteStatisticsUseCase{
		documents:  documents,
		identity:   identity,
		clock:      clock,
		window:     window,
		collection: entity.CollectionWaste,
	}
}

// Execute totals the signed-in user's submitted waste per category.
// Records without a parseable time are always counted.
func (uc *GetWasteStatisticsUseCase) Execute(ctx context.Context, input GetWasteStatisticsInput) (*GetWasteStatisticsOutput, error) {
	userID, ok := uc.identity.CurrentUserID(ctx)
	if !ok {
		return nil, domainerror.ErrNotAuthenticated
	}

	since := uc.clock.Now().UTC().Add(-uc.window)
	if input.Since != nil {
		since = input.Since.UTC()
	}

	docs, err := uc.documents.GetDocuments(ctx, uc.collection, &entity.FieldFilter{
		Field: entity.FieldUserID,
		Value: userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get waste history: %w", err)
	}

	totals := valueobject.NewWasteTotals()
	records := 0
	for _, doc := range docs {
		if at, ok := recordTime(doc.Fields); ok && at.Before(since) {
			continue
		}
		kg, _ := entity.DecodeWeight(doc.Fields)
		title, _ := entity.DecodeString(doc.Fields, statisticsTitleFields...)
		totals.Add(title, kg)
		records++
	}

	output := &GetWasteStatisticsOutput{
		UserID:     userID,
		Since:      since,
		Categories: totals.Categories(),
		TotalKg:    totals.GrandTotal(),
		Records:    records,
	}
	if highlight, ok := totals.Highlight(); ok {
		output.Highlight = &highlight
	}
	return output, nil
}

func recordTime(fields entity.Fields) (time.Time, bool) {
	raw, ok := entity.DecodeString(fields, statisticsTimeFields...)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WithCollection overrides the collection the use case reads.
func (uc *GetWasteStatisticsUseCase) WithCollection(collection string) *GetWasteStatisticsUseCase {
	if collection != "" {
		uc.collection = collection
	}
	return uc
}
