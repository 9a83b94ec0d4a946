package ocr

import (
	"context"
)

// CharWhitelist is the fixed recognition alphabet: digits, Latin letters,
// receipt punctuation, and space. Everything else is line noise for receipts.
const CharWhitelist = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz$.,/-:()& "

// ProgressFunc receives recognition progress in whole percent (0-100).
// It is advisory; the pipeline never depends on a subscriber being present.
type ProgressFunc func(pct int)

// Options carries the fixed tesseract parameters for receipt scans.
type Options struct {
	Language       string // default "eng"
	Whitelist      string
	PageSegMode    int // 6 = uniform block of text
	EngineMode     int // 1 = LSTM only
	PreserveSpaces bool
	Progress       ProgressFunc
}

// DefaultOptions returns the receipt-tuned recognition parameters.
func DefaultOptions() Options {
	return Options{
		Language:       "eng",
		Whitelist:      CharWhitelist,
		PageSegMode:    6,
		EngineMode:     1,
		PreserveSpaces: true,
	}
}

// Engine is the OCR capability the pipeline consumes. Implementations must
// honor ctx cancellation; recognition can run for seconds.
type Engine interface {
	Recognize(ctx context.Context, image []byte, opts Options) (string, error)
}
