package vision

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
)

// ErrInvalidPayload means the top-level response shape could not be parsed at
// all, even after the plain-text JSON extraction fallback. Field-level problems
// never raise it; they coerce to "unknown" per item instead.
var ErrInvalidPayload = errors.New("vision: invalid model payload")

type tagPayload struct {
	Items []tagPayloadItem `json:"items"`
}

type tagPayloadItem struct {
	ItemID       string `json:"itemId"`
	Category     string `json:"category"`
	PrimaryColor string `json:"primaryColor"`
	StyleTag     string `json:"styleTag"`
}

// parsePayload is the loose half of the parse-then-validate boundary: try the
// content as clean JSON first, then fall back to the outermost {...} span in
// case the model wrapped its answer in prose.
func parsePayload(content string) (*tagPayload, error) {
	var payload tagPayload
	if err := json.Unmarshal([]byte(content), &payload); err == nil && payload.Items != nil {
		return &payload, nil
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, ErrInvalidPayload
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil || payload.Items == nil {
		return nil, ErrInvalidPayload
	}
	return &payload, nil
}

// alignResults is the strict half: every input gets exactly one result, matched
// by item id, with each field validated against its vocabulary. A missing or
// invalid field becomes "unknown"; an item the model dropped entirely becomes
// all-unknown. One bad item never aborts the rest of the batch.
func alignResults(inputs []TagInput, payload *tagPayload) []TagResult {
	byID := make(map[string]tagPayloadItem, len(payload.Items))
	for _, it := range payload.Items {
		if it.ItemID != "" {
			byID[it.ItemID] = it
		}
	}
	// Tolerate a model that ignored the ids but kept the order.
	positional := len(byID) == 0 && len(payload.Items) == len(inputs)

	results := make([]TagResult, len(inputs))
	for i, in := range inputs {
		item, ok := byID[in.ItemID]
		if !ok && positional {
			item = payload.Items[i]
		}
		results[i] = TagResult{
			ItemID:       in.ItemID,
			Category:     coerce(item.Category, model.ValidCategory),
			PrimaryColor: coerce(item.PrimaryColor, model.ValidColor),
			StyleTag:     coerce(item.StyleTag, model.ValidStyle),
		}
	}
	return results
}

func coerce(v string, valid func(string) bool) string {
	if valid(v) {
		return v
	}
	return model.Unknown
}
