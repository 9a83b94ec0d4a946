package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/expensetrackr/receipt-pipeline/internal/common"
)

// Config for the tesseract-backed engine.
type Config struct {
	TessdataDir string
}

// TesseractEngine implements Engine on top of gosseract.
type TesseractEngine struct {
	cfg    Config
	logger *slog.Logger
}

func NewTesseractEngine(cfg Config, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractEngine{cfg: cfg, logger: logger}
}

// Recognize runs tesseract over the preprocessed image. The underlying C API
// has no cancellation hook, so the call runs on its own goroutine and the
// result is abandoned if ctx expires first.
//
// Tesseract also exposes no fractional progress through gosseract; the
// progress callback gets coarse 0/100 milestones.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte, opts Options) (string, error) {
	start := time.Now()
	if opts.Language == "" {
		opts.Language = "eng"
	}
	if opts.Progress != nil {
		opts.Progress(0)
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		client := gosseract.NewClient()
		defer func() {
			if cerr := client.Close(); cerr != nil {
				e.logger.Warn("ocr.tesseract.close_error", "error", cerr)
			}
		}()

		if e.cfg.TessdataDir != "" {
			if err := client.SetTessdataPrefix(e.cfg.TessdataDir); err != nil {
				done <- result{err: fmt.Errorf("set tessdata prefix: %w", err)}
				return
			}
		}
		if err := client.SetLanguage(opts.Language); err != nil {
			done <- result{err: fmt.Errorf("set language: %w", err)}
			return
		}
		if err := client.SetPageSegMode(gosseract.PageSegMode(opts.PageSegMode)); err != nil {
			done <- result{err: fmt.Errorf("set psm: %w", err)}
			return
		}
		if opts.Whitelist != "" {
			if err := client.SetWhitelist(opts.Whitelist); err != nil {
				done <- result{err: fmt.Errorf("set whitelist: %w", err)}
				return
			}
		}
		if err := client.SetVariable("tessedit_ocr_engine_mode", strconv.Itoa(opts.EngineMode)); err != nil {
			done <- result{err: fmt.Errorf("set engine mode: %w", err)}
			return
		}
		if opts.PreserveSpaces {
			if err := client.SetVariable("preserve_interword_spaces", "1"); err != nil {
				done <- result{err: fmt.Errorf("set preserve spaces: %w", err)}
				return
			}
		}
		if err := client.SetImageFromBytes(image); err != nil {
			done <- result{err: fmt.Errorf("set image: %w", err)}
			return
		}

		text, err := client.Text()
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		e.logger.Warn("ocr.tesseract.canceled",
			"elapsed_ms", time.Since(start).Milliseconds(), "error", ctx.Err())
		return "", fmt.Errorf("%w: %v", common.ErrOCRFailure, ctx.Err())
	case res := <-done:
		if res.err != nil {
			e.logger.Error("ocr.tesseract.failed",
				"elapsed_ms", time.Since(start).Milliseconds(), "error", res.err)
			return "", fmt.Errorf("%w: %v", common.ErrOCRFailure, res.err)
		}
		if opts.Progress != nil {
			opts.Progress(100)
		}
		e.logger.Debug("ocr.tesseract.ok",
			"bytes", len(res.text),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return res.text, nil
	}
}
