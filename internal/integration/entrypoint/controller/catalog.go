package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ecovekt/backend/internal/application/usecase/catalog"
	domainerror "github.com/ecovekt/backend/internal/domain/error"
	"github.com/ecovekt/backend/internal/integration/entrypoint/dto"
)

// CatalogController handles the waste-category catalog and user selection.
type CatalogController struct {
	listUseCase   *catalog.ListWasteCategoriesUseCase
	getUseCase    *catalog.GetSelectedWasteUseCase
	updateUseCase *catalog.UpdateSelectedWasteUseCase
}

// NewCatalogController creates a new catalog controller instance.
func NewCatalogController(
	listUseCase *catalog.ListWasteCategoriesUseCase,
	getUseCase *catalog.GetSelectedWasteUseCase,
	updateUseCase *catalog.UpdateSelectedWasteUseCase,
) *CatalogController {
	return &CatalogController{
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
	}
}

// List handles GET /waste-categories requests.
func (c *CatalogController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToWasteCategoryListResponse(output.Categories))
}

// GetSelection handles GET /me/selected-waste requests.
func (c *CatalogController) GetSelection(ctx *gin.Context) {
	selection, err := c.getUseCase.Execute(ctx.Request.Context())
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSelectionResponse(selection))
}

// UpdateSelection handles PUT /me/selected-waste requests.
func (c *CatalogController) UpdateSelection(ctx *gin.Context) {
	var req dto.UpdateSelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeInvalidRequest),
		})
		return
	}

	selection, err := c.updateUseCase.Execute(ctx.Request.Context(), catalog.UpdateSelectedWasteInput{
		Titles: req.SelectedWaste,
	})
	if err != nil {
		c.handleCatalogError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSelectionResponse(selection))
}

// handleCatalogError maps catalog errors to HTTP responses.
func (c *CatalogController) handleCatalogError(ctx *gin.Context, err error) {
	if errors.Is(err, domainerror.ErrNotAuthenticated) {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	slog.Error("Catalog request failed", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
