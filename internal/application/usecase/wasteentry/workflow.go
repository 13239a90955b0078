// Package wasteentry contains the pending waste-entry workflow: validate and
// append entries locally, view and correct the aggregated groups, and submit
// them to the remote sink.
package wasteentry

import (
	"context"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
	"github.com/ecovekt/backend/internal/domain/valueobject"
)

// Workflow orchestrates the append/view/delete/submit lifecycle of pending
// entries. Calls are expected to be serialized by the caller; the workflow
// holds no locks of its own.
type Workflow struct {
	store      adapter.PendingEntryStore
	sink       adapter.DocumentSink
	identity   adapter.IdentityProvider
	clock      adapter.Clock
	collection string
}

// NewWorkflow creates a new Workflow instance writing to the waste collection.
func NewWorkflow(
	store adapter.PendingEntryStore,
	sink adapter.DocumentSink,
	identity adapter.IdentityProvider,
	clock adapter.Clock,
) *Workflow {
	return &Workflow{
		store:      store,
		sink:       sink,
		identity:   identity,
		clock:      clock,
		collection: entity.CollectionWaste,
	}
}

// WithCollection returns a copy of the workflow that submits to collection.
func (w *Workflow) WithCollection(collection string) *Workflow {
	cp := *w
	cp.collection = collection
	return &cp
}

// AggregatedView loads the pending entries and aggregates them.
func (w *Workflow) AggregatedView(ctx context.Context) []valueobject.AggregatedGroup {
	return valueobject.Aggregate(w.store.Load(ctx))
}

// LastEntry returns the summary of the most recently appended entry, or nil.
func (w *Workflow) LastEntry(ctx context.Context) *entity.LastEntry {
	return w.store.LoadLast(ctx)
}

// currentUser snapshots the identity as a nullable id.
func (w *Workflow) currentUser(ctx context.Context) *string {
	if w.identity == nil {
		return nil
	}
	userID, ok := w.identity.CurrentUserID(ctx)
	if !ok {
		return nil
	}
	return entity.StringPtr(userID)
}
