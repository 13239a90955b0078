package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	domainerror "github.com/ecovekt/backend/internal/domain/error"
)

// MaxWeightKg is the upper sanity bound for a single entry.
const MaxWeightKg = 500

var maxWeight = decimal.NewFromInt(MaxWeightKg)

// ValidateWeight parses a user-typed weight in kilograms. Both "." and "," are
// accepted as decimal separators.
func ValidateWeight(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, domainerror.NewValidationError(
			domainerror.ErrCodeEmptyInput,
			"weight is required",
			domainerror.ErrEmptyInput,
		)
	}

	normalized := strings.ReplaceAll(trimmed, ",", ".")
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, domainerror.NewValidationError(
			domainerror.ErrCodeNotANumber,
			fmt.Sprintf("%q is not a number", trimmed),
			domainerror.ErrNotANumber,
		)
	}

	if !value.IsPositive() {
		return 0, domainerror.NewValidationError(
			domainerror.ErrCodeNonPositive,
			"weight must be greater than 0",
			domainerror.ErrNonPositive,
		)
	}

	if value.GreaterThan(maxWeight) {
		return 0, domainerror.NewValidationError(
			domainerror.ErrCodeTooLarge,
			fmt.Sprintf("weight must not exceed %d kg", MaxWeightKg),
			domainerror.ErrTooLarge,
		)
	}

	return value.InexactFloat64(), nil
}

// ValidateCategory checks that a category title was selected and returns it trimmed.
func ValidateCategory(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", domainerror.NewValidationError(
			domainerror.ErrCodeMissingCategory,
			"choose a waste category",
			domainerror.ErrMissingCategory,
		)
	}
	return trimmed, nil
}

// IsAcceptedWeight reports whether kg lies in (0, MaxWeightKg].
func IsAcceptedWeight(kg float64) bool {
	return kg > 0 && kg <= MaxWeightKg
}
