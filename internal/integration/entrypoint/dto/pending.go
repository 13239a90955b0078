package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/ecovekt/backend/internal/application/usecase/wasteentry"
	"github.com/ecovekt/backend/internal/domain/entity"
	"github.com/ecovekt/backend/internal/domain/valueobject"
)

// AppendEntryRequest represents the request body for logging a weight.
// Weight accepts a JSON number or the raw text typed by the user.
type AppendEntryRequest struct {
	WasteID    *string         `json:"waste_id,omitempty"`
	WasteTitle string          `json:"waste_title"`
	Weight     json.RawMessage `json:"weight"`
	ImageURL   *string         `json:"image_url,omitempty"`
}

// WeightText returns the weight as the text the validator expects.
func (r AppendEntryRequest) WeightText() string {
	if len(r.Weight) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Weight, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(r.Weight, &n); err == nil {
		return n.String()
	}
	return string(r.Weight)
}

// ToInput converts the request to the workflow input.
func (r AppendEntryRequest) ToInput() wasteentry.AppendEntryInput {
	return wasteentry.AppendEntryInput{
		WasteID:    entity.StringValue(r.WasteID),
		WasteTitle: r.WasteTitle,
		Weight:     r.WeightText(),
		ImageURL:   entity.StringValue(r.ImageURL),
	}
}

// PendingEntryResponse represents a stored pending entry.
type PendingEntryResponse struct {
	WasteID    *string `json:"waste_id"`
	WasteTitle string  `json:"waste_title"`
	AmountKg   float64 `json:"amount_kg"`
	UserID     *string `json:"user_id"`
	SavedAt    string  `json:"saved_at"`
	ImageURL   *string `json:"image_url"`
}

// AggregatedGroupResponse represents one pending group.
type AggregatedGroupResponse struct {
	Key        string  `json:"key"`
	WasteID    *string `json:"waste_id"`
	WasteTitle string  `json:"waste_title"`
	TotalKg    float64 `json:"total_kg"`
	Count      int     `json:"count"`
	ImageURL   *string `json:"image_url"`
}

// PendingGroupsResponse represents the aggregated pending view.
type PendingGroupsResponse struct {
	Groups  []AggregatedGroupResponse `json:"groups"`
	TotalKg float64                   `json:"total_kg"`
}

// AppendEntryResponse represents the response for a logged weight.
type AppendEntryResponse struct {
	Entry  PendingEntryResponse      `json:"entry"`
	Groups []AggregatedGroupResponse `json:"groups"`
}

// SubmitResponse represents a completed submission.
type SubmitResponse struct {
	Submitted   int      `json:"submitted"`
	DocumentIDs []string `json:"document_ids"`
	Warning     string   `json:"warning,omitempty"`
}

// LastEntryResponse represents the most recent append.
type LastEntryResponse struct {
	WasteTitle string  `json:"waste_title"`
	Weight     float64 `json:"weight"`
	SavedAt    string  `json:"saved_at"`
}

// ToPendingEntryResponse converts a domain PendingEntry to a PendingEntryResponse DTO.
func ToPendingEntryResponse(e *entity.PendingEntry) PendingEntryResponse {
	return PendingEntryResponse{
		WasteID:    e.WasteID,
		WasteTitle: e.WasteTitle,
		AmountKg:   e.AmountKg,
		UserID:     e.UserID,
		SavedAt:    e.SavedAt,
		ImageURL:   e.ImageURL,
	}
}

// ToAggregatedGroupResponses converts groups to their DTOs.
func ToAggregatedGroupResponses(groups []valueobject.AggregatedGroup) []AggregatedGroupResponse {
	result := make([]AggregatedGroupResponse, len(groups))
	for i, g := range groups {
		result[i] = AggregatedGroupResponse{
			Key:        g.Key,
			WasteID:    g.WasteID,
			WasteTitle: g.WasteTitle,
			TotalKg:    g.TotalKg,
			Count:      g.Count,
			ImageURL:   g.ImageURL,
		}
	}
	return result
}

// ToPendingGroupsResponse builds the aggregated view response.
func ToPendingGroupsResponse(groups []valueobject.AggregatedGroup) PendingGroupsResponse {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(decimal.NewFromFloat(g.TotalKg))
	}
	return PendingGroupsResponse{
		Groups:  ToAggregatedGroupResponses(groups),
		TotalKg: total.InexactFloat64(),
	}
}

// ToLastEntryResponse converts a LastEntry to its DTO.
func ToLastEntryResponse(last *entity.LastEntry) LastEntryResponse {
	return LastEntryResponse{
		WasteTitle: last.WasteTitle,
		Weight:     last.Weight,
		SavedAt:    last.SavedAt,
	}
}
