package entity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Field-name priority lists for documents and stored entries written by older
// clients. The first present, usable key wins.
var (
	WeightFieldPriority   = []string{"amountKg", "weight", "kg"}
	TitleFieldPriority    = []string{"wasteTitle", "title", "name", "type"}
	ImageURLFieldPriority = []string{"imageUrl", "imageurl"}
	TimeFieldPriority     = []string{"savedAt", "createdAt"}
)

// DecodeWeight reads a weight in kilograms using WeightFieldPriority. Numbers
// and numeric strings (with "." or ",") are accepted.
func DecodeWeight(fields Fields) (float64, bool) {
	for _, key := range WeightFieldPriority {
		if v, ok := fields[key]; ok {
			if kg, ok := toFloat(v); ok {
				return kg, true
			}
		}
	}
	return 0, false
}

// DecodeString returns the first non-empty string value among keys.
// Numeric values are formatted, so numeric ids decode as strings.
func DecodeString(fields Fields, keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if strings.TrimSpace(s) != "" {
				return s, true
			}
		case json.Number:
			return s.String(), true
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64), true
		case int:
			return strconv.Itoa(s), true
		case int64:
			return strconv.FormatInt(s, 10), true
		}
	}
	return "", false
}

// DecodePendingEntry builds a PendingEntry from a loosely typed record.
// ok is false when no usable weight is present.
func DecodePendingEntry(fields Fields) (*PendingEntry, bool) {
	kg, ok := DecodeWeight(fields)
	if !ok {
		return nil, false
	}

	e := &PendingEntry{AmountKg: kg}
	if id, ok := DecodeString(fields, "wasteId"); ok {
		e.WasteID = &id
	}
	if title, ok := DecodeString(fields, TitleFieldPriority...); ok {
		e.WasteTitle = title
	}
	if userID, ok := DecodeString(fields, "userId", "uid"); ok {
		e.UserID = &userID
	}
	if savedAt, ok := DecodeString(fields, TimeFieldPriority...); ok {
		e.SavedAt = savedAt
	}
	if img, ok := DecodeString(fields, ImageURLFieldPriority...); ok {
		e.ImageURL = &img
	}
	return e, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", "."), 64)
		return f, err == nil
	}
	return 0, false
}
