// Package metrics holds the Prometheus collectors of the waste workflow.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainerror "github.com/ecovekt/backend/internal/domain/error"
)

// Submission results.
const (
	ResultSuccess     = "success"
	ResultPartial     = "partial"
	ResultClearFailed = "clear_failed"
	ResultEmpty       = "empty"
	ResultError       = "error"
)

var (
	// entriesAppended counts pending entries accepted by the workflow.
	entriesAppended = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ecovekt",
		Subsystem: "pending",
		Name:      "entries_appended_total",
		Help:      "Total pending waste entries appended",
	})

	// validationRejections counts rejected entries.
	// Labels: code (validation error code)
	validationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecovekt",
		Subsystem: "pending",
		Name:      "validation_rejections_total",
		Help:      "Total pending entries rejected by validation",
	}, []string{"code"})

	// submissions counts submitAll calls by outcome.
	// Labels: result (success, partial, clear_failed, empty, error)
	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecovekt",
		Subsystem: "pending",
		Name:      "submissions_total",
		Help:      "Total pending-list submissions by result",
	}, []string{"result"})

	// groupsWritten counts aggregated groups written to the document store.
	groupsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ecovekt",
		Subsystem: "pending",
		Name:      "groups_written_total",
		Help:      "Total aggregated groups written to the waste collection",
	})

	// documentWrites counts document API writes.
	// Labels: collection, result (success, error)
	documentWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecovekt",
		Subsystem: "documents",
		Name:      "writes_total",
		Help:      "Total document writes by collection and result",
	}, []string{"collection", "result"})
)

// Handler returns the /metrics handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAppend records the outcome of an append.
func RecordAppend(err error) {
	if err == nil {
		entriesAppended.Inc()
		return
	}
	var validationErr *domainerror.ValidationError
	if errors.As(err, &validationErr) {
		validationRejections.WithLabelValues(string(validationErr.Code)).Inc()
	}
}

// RecordSubmission records the outcome of a submission that wrote groups documents.
func RecordSubmission(groups int, err error) {
	result := SubmissionResult(err)
	submissions.WithLabelValues(result).Inc()

	var subErr *domainerror.SubmissionError
	switch {
	case err == nil:
		groupsWritten.Add(float64(groups))
	case errors.As(err, &subErr):
		groupsWritten.Add(float64(len(subErr.Succeeded)))
	}
}

// SubmissionResult classifies a submission error.
func SubmissionResult(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, domainerror.ErrNothingToSubmit):
		return ResultEmpty
	case errors.Is(err, domainerror.ErrClearFailed):
		return ResultClearFailed
	case errors.Is(err, domainerror.ErrRemoteWriteFailed):
		return ResultPartial
	default:
		return ResultError
	}
}

// RecordDocumentWrite records a document API write.
func RecordDocumentWrite(collection string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	documentWrites.WithLabelValues(collection, result).Inc()
}
