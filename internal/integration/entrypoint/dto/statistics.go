package dto

import (
	"time"

	"github.com/ecovekt/backend/internal/application/usecase/statistics"
)

// CategoryTotalResponse represents the total of one category.
type CategoryTotalResponse struct {
	Title   string  `json:"title"`
	TotalKg float64 `json:"total_kg"`
	Records int     `json:"records"`
}

// StatisticsResponse represents a user's waste statistics.
type StatisticsResponse struct {
	Since      time.Time               `json:"since"`
	TotalKg    float64                 `json:"total_kg"`
	Records    int                     `json:"records"`
	Categories []CategoryTotalResponse `json:"categories"`
	Highlight  *CategoryTotalResponse  `json:"highlight,omitempty"`
}

// ToStatisticsResponse converts the statistics output to its DTO.
func ToStatisticsResponse(out *statistics.GetWasteStatisticsOutput) StatisticsResponse {
	categories := make([]CategoryTotalResponse, len(out.Categories))
	for i, c := range out.Categories {
		categories[i] = CategoryTotalResponse{Title: c.Title, TotalKg: c.TotalKg, Records: c.Records}
	}

	response := StatisticsResponse{
		Since:      out.Since,
		TotalKg:    out.TotalKg,
		Records:    out.Records,
		Categories: categories,
	}
	if out.Highlight != nil {
		response.Highlight = &CategoryTotalResponse{
			Title:   out.Highlight.Title,
			TotalKg: out.Highlight.TotalKg,
			Records: out.Highlight.Records,
		}
	}
	return response
}
