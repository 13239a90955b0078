package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/ecovekt/backend/internal/application/usecase/wasteentry"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/infra/metrics"
	"github.com/ecovekt/backend/internal/integration/entrypoint/dto"
	"github.com/ecovekt/backend/internal/integration/entrypoint/middleware"
)

// WorkflowProvider returns the pending-entry workflow of one user.
type WorkflowProvider func(userID string) *wasteentry.Workflow

// PendingController handles the server-side pending list of web clients.
// Requests of one user are serialized, since the workflow holds no locks.
type PendingController struct {
	workflowFor WorkflowProvider
	locks       sync.Map // user id -> *sync.Mutex
}

// NewPendingController creates a new pending controller instance.
func NewPendingController(workflowFor WorkflowProvider) *PendingController {
	return &PendingController{
		workflowFor: workflowFor,
	}
}

// workflow resolves the caller's workflow and locks it, writing 401 when
// unauthenticated. The caller must call unlock when ok.
func (c *PendingController) workflow(ctx *gin.Context) (workflow *wasteentry.Workflow, unlock func(), ok bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return nil, nil, false
	}

	value, _ := c.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return c.workflowFor(userID), mu.Unlock, true
}

// Append handles POST /pending/entries requests.
func (c *PendingController) Append(ctx *gin.Context) {
	workflow, unlock, ok := c.workflow(ctx)
	if !ok {
		return
	}
	defer unlock()

	var req dto.AppendEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidRequest),
		})
		return
	}

	output, err := workflow.AppendEntry(ctx.Request.Context(), req.ToInput())
	metrics.RecordAppend(err)
	if err != nil {
		c.handlePendingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AppendEntryResponse{
		Entry:  dto.ToPendingEntryResponse(output.Entry),
		Groups: dto.ToAggregatedGroupResponses(output.Groups),
	})
}

// Groups handles GET /pending/groups requests.
func (c *PendingController) Groups(ctx *gin.Context) {
	workflow, unlock, ok := c.workflow(ctx)
	if !ok {
		return
	}
	defer unlock()

	groups := workflow.AggregatedView(ctx.Request.Context())
	ctx.JSON(http.StatusOK, dto.ToPendingGroupsResponse(groups))
}

// DeleteGroup handles DELETE /pending/groups?key= and DELETE /pending/groups/:key
// requests. Keys whose title contains "/" must use the query form.
func (c *PendingController) DeleteGroup(ctx *gin.Context) {
	key := ctx.Query("key")
	if key == "" {
		key = ctx.Param("key")
	}
	if key == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Group key is required",
			Code:  string(domainerror.ErrCodeInvalidRequest),
		})
		return
	}

	workflow, unlock, ok := c.workflow(ctx)
	if !ok {
		return
	}
	defer unlock()

	groups, err := workflow.DeleteGroup(ctx.Request.Context(), key)
	if err != nil {
		c.handlePendingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPendingGroupsResponse(groups))
}

// Submit handles POST /pending/submit requests.
func (c *PendingController) Submit(ctx *gin.Context) {
	workflow, unlock, ok := c.workflow(ctx)
	if !ok {
		return
	}
	defer unlock()

	output, err := workflow.SubmitAll(ctx.Request.Context())
	groups := 0
	if output != nil {
		groups = len(output.Groups)
	}
	metrics.RecordSubmission(groups, err)

	if err != nil {
		var subErr *domainerror.SubmissionError
		if errors.As(err, &subErr) && subErr.Code == domainerror.ErrCodeClearFailed {
			// Every group is on the server; only the local clear failed.
			response := dto.SubmitResponse{Submitted: len(subErr.Succeeded), DocumentIDs: []string{}}
			if retryErr := workflow.RetryClear(ctx.Request.Context()); retryErr != nil {
				slog.Error("Retry of pending clear failed", "error", retryErr)
				response.Warning = "entries were submitted but could not be cleared; do not submit them again"
			}
			ctx.JSON(http.StatusOK, response)
			return
		}
		c.handlePendingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SubmitResponse{
		Submitted:   len(output.Groups),
		DocumentIDs: output.DocumentIDs,
	})
}

// Last handles GET /pending/last requests.
func (c *PendingController) Last(ctx *gin.Context) {
	workflow, unlock, ok := c.workflow(ctx)
	if !ok {
		return
	}
	defer unlock()

	last := workflow.LastEntry(ctx.Request.Context())
	if last == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLastEntryResponse(last))
}

// handlePendingError maps workflow errors to HTTP responses.
func (c *PendingController) handlePendingError(ctx *gin.Context, err error) {
	var validationErr *domainerror.ValidationError
	if errors.As(err, &validationErr) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: validationErr.Message,
			Code:  string(validationErr.Code),
		})
		return
	}

	var subErr *domainerror.SubmissionError
	if errors.As(err, &subErr) {
		succeeded := subErr.Succeeded
		if succeeded == nil {
			succeeded = []string{}
		}
		ctx.JSON(c.getStatusCodeForSubmissionError(subErr.Code), dto.SubmissionErrorResponse{
			Error:     subErr.Message,
			Code:      string(subErr.Code),
			Succeeded: succeeded,
			FailedKey: subErr.FailedKey,
		})
		return
	}

	var storageErr *domainerror.StorageError
	if errors.As(err, &storageErr) {
		slog.Error("Pending storage failure", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error: "Could not store entries, try again",
			Code:  string(storageErr.Code),
		})
		return
	}

	slog.Error("Pending workflow failure", "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForSubmissionError maps submission error codes to HTTP status codes.
func (c *PendingController) getStatusCodeForSubmissionError(code domainerror.SubmissionErrorCode) int {
	switch code {
	case domainerror.ErrCodeNothingToSubmit:
		return http.StatusUnprocessableEntity
	case domainerror.ErrCodeRemoteWriteFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
