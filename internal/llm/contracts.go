package llm

import (
	"context"
	"errors"
)

// ErrNoEnhancer means the pipeline was built without an AI client; callers
// degrade to their regex-derived result.
var ErrNoEnhancer = errors.New("no ai enhancer configured")

// ExpenseFields is the normalized shape we want back from the model. Every
// field is optional: the pipeline merges whatever came back over its own
// regex-derived values.
type ExpenseFields struct {
	Vendor      string  `json:"vendor,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Date        string  `json:"date,omitempty"` // YYYY-MM-DD
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Confidence  int     `json:"confidence,omitempty"` // 0..100
	Reasoning   string  `json:"reasoning,omitempty"`
}

type ExtractRequest struct {
	OCRText           string
	AllowedCategories []string
	Today             string // YYYY-MM-DD, anchors relative dates in the prompt
}

// Enhancer is the interface the pipeline depends on.
type Enhancer interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (ExpenseFields, []byte /*rawJSON*/, error)
}
