package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecovekt/backend/internal/application/adapter"
	"github.com/ecovekt/backend/internal/domain/entity"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/infra/metrics"
	"github.com/ecovekt/backend/internal/integration/entrypoint/dto"
)

// DocumentController exposes the document store to devices.
type DocumentController struct {
	documents adapter.DocumentStore
}

// NewDocumentController creates a new document controller instance.
func NewDocumentController(documents adapter.DocumentStore) *DocumentController {
	return &DocumentController{
		documents: documents,
	}
}

// Add handles POST /collections/:collection/documents requests.
func (c *DocumentController) Add(ctx *gin.Context) {
	collection := ctx.Param("collection")

	var req dto.AddDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidFields),
		})
		return
	}

	id, err := c.documents.AddDocument(ctx.Request.Context(), collection, req.Fields)
	metrics.RecordDocumentWrite(collection, err)
	if err != nil {
		c.handleDocumentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AddDocumentResponse{ID: id})
}

// List handles GET /collections/:collection/documents requests.
// The optional field and value query parameters filter by equality.
func (c *DocumentController) List(ctx *gin.Context) {
	var filter *entity.FieldFilter
	if field := ctx.Query("field"); field != "" {
		filter = &entity.FieldFilter{Field: field, Value: ctx.Query("value")}
	}

	docs, err := c.documents.GetDocuments(ctx.Request.Context(), ctx.Param("collection"), filter)
	if err != nil {
		c.handleDocumentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDocumentListResponse(docs))
}

// Get handles GET /collections/:collection/documents/:id requests.
func (c *DocumentController) Get(ctx *gin.Context) {
	doc, err := c.documents.GetDocument(ctx.Request.Context(), ctx.Param("collection"), ctx.Param("id"))
	if err != nil {
		c.handleDocumentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// Set handles PUT /collections/:collection/documents/:id requests.
func (c *DocumentController) Set(ctx *gin.Context) {
	collection := ctx.Param("collection")

	var req dto.SetDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidFields),
		})
		return
	}

	merge := true
	if req.Merge != nil {
		merge = *req.Merge
	}

	doc, err := c.documents.SetDocument(ctx.Request.Context(), collection, ctx.Param("id"), req.Fields, merge)
	metrics.RecordDocumentWrite(collection, err)
	if err != nil {
		c.handleDocumentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// handleDocumentError maps document errors to HTTP responses.
func (c *DocumentController) handleDocumentError(ctx *gin.Context, err error) {
	var docErr *domainerror.DocumentError
	if errors.As(err, &docErr) {
		ctx.JSON(c.getStatusCodeForDocumentError(docErr.Code), dto.ErrorResponse{
			Error: docErr.Message,
			Code:  string(docErr.Code),
		})
		return
	}

	slog.Error("Document store failure", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForDocumentError maps document error codes to HTTP status codes.
func (c *DocumentController) getStatusCodeForDocumentError(code domainerror.DocumentErrorCode) int {
	switch code {
	case domainerror.ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidCollection,
		domainerror.ErrCodeInvalidFilter,
		domainerror.ErrCodeInvalidFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeRemoteUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
