package wasteentry

import (
	"context"
	"log/slog"

	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/domain/valueobject"
)

// SubmitAllOutput represents the result of a fully successful submission.
type SubmitAllOutput struct {
	Groups      []valueobject.AggregatedGroup
	DocumentIDs []string
}

// SubmitAll writes one document per aggregated group, in group order, then
// clears the pending list.
//
// Writes are independent, not a transaction. The first failed write aborts the
// loop; the groups already written stay on the server, local storage is left
// intact and the returned *SubmissionError lists their keys in Succeeded. A
// retry writes every group again, so duplicates are possible.
func (w *Workflow) SubmitAll(ctx context.Context) (*SubmitAllOutput, error) {
	groups := valueobject.Aggregate(w.store.Load(ctx))
	if len(groups) == 0 {
		return nil, domainerror.NewSubmissionError(
			domainerror.ErrCodeNothingToSubmit,
			"there are no pending entries to submit",
			domainerror.ErrNothingToSubmit,
			nil,
		)
	}

	userID := w.currentUser(ctx)
	succeeded := make([]string, 0, len(groups))
	documentIDs := make([]string, 0, len(groups))

	for _, g := range groups {
		submission := &entity.WasteSubmission{
			WasteID:    g.WasteID,
			WasteTitle: g.WasteTitle,
			AmountKg:   g.TotalKg,
			UserID:     userID,
			SavedAt:    w.clock.Now(),
		}

		id, err := w.sink.AddDocument(ctx, w.collection, submission.ToFields())
		if err != nil {
			slog.Error("Failed to submit waste group",
				"key", g.Key,
				"written", len(succeeded),
				"remaining", len(groups)-len(succeeded),
				"error", err,
			)
			subErr := domainerror.NewSubmissionError(
				domainerror.ErrCodeRemoteWriteFailed,
				"could not save to server, try again later",
				domainerror.ErrRemoteWriteFailed,
				err,
			)
			subErr.Succeeded = succeeded
			subErr.FailedKey = g.Key
			return nil, subErr
		}

		succeeded = append(succeeded, g.Key)
		documentIDs = append(documentIDs, id)
	}

	if err := w.store.Clear(ctx); err != nil {
		slog.Error("Submitted all groups but failed to clear pending entries",
			"groups", len(groups),
			"error", err,
		)
		subErr := domainerror.NewSubmissionError(
			domainerror.ErrCodeClearFailed,
			"entries were submitted but could not be cleared locally",
			domainerror.ErrClearFailed,
			err,
		)
		subErr.Succeeded = succeeded
		return nil, subErr
	}

	slog.Info("Submitted pending waste entries", "groups", len(groups))

	return &SubmitAllOutput{
		Groups:      groups,
		DocumentIDs: documentIDs,
	}, nil
}

// RetryClear clears the pending list after a ClearFailed submission, when the
// server already holds every group.
func (w *Workflow) RetryClear(ctx context.Context) error {
	return w.store.Clear(ctx)
}
