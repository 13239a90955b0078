package dto

import (
	"time"

	"github.com/ecovekt/backend/internal/domain/entity"
)

// WasteCategoryResponse represents a catalog entry.
type WasteCategoryResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// WasteCategoryListResponse represents the catalog.
type WasteCategoryListResponse struct {
	Categories []WasteCategoryResponse `json:"categories"`
}

// UpdateSelectionRequest represents the request body for replacing the selection.
type UpdateSelectionRequest struct {
	SelectedWaste []string `json:"selected_waste" binding:"required"`
}

// SelectionResponse represents the user's tracked categories.
type SelectionResponse struct {
	UserID        string     `json:"user_id"`
	SelectedWaste []string   `json:"selected_waste"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// ToWasteCategoryListResponse converts catalog entries to their DTO.
func ToWasteCategoryListResponse(categories []*entity.WasteCategory) WasteCategoryListResponse {
	result := make([]WasteCategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = WasteCategoryResponse{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			ImageURL:    c.ImageURL,
		}
	}
	return WasteCategoryListResponse{Categories: result}
}

// ToSelectionResponse converts a UserSelection to its DTO.
func ToSelectionResponse(s *entity.UserSelection) SelectionResponse {
	selected := s.SelectedWaste
	if selected == nil {
		selected = []string{}
	}
	return SelectionResponse{
		UserID:        s.UserID,
		SelectedWaste: selected,
		UpdatedAt:     s.UpdatedAt,
	}
}
