// Package pipeline coordinates the receipt flow: image quality checks,
// preprocessing, OCR, deterministic extraction, and the AI fallback when the
// deterministic pass leaves gaps.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/expensetrackr/receipt-pipeline/constants"
	"github.com/expensetrackr/receipt-pipeline/internal/classify"
	"github.com/expensetrackr/receipt-pipeline/internal/extract"
	"github.com/expensetrackr/receipt-pipeline/internal/imageprep"
	"github.com/expensetrackr/receipt-pipeline/internal/llm"
	"github.com/expensetrackr/receipt-pipeline/internal/ocr"
)

const maxDescriptionLen = 50

// Candidate is the expense suggestion produced from one receipt image. The
// caller presents it for user confirmation; nothing is persisted here.
type Candidate struct {
	Vendor      string             `json:"vendor"`
	Amount      float64            `json:"amount"`
	Date        string             `json:"date"` // YYYY-MM-DD
	Category    constants.Category `json:"category"`
	Description string             `json:"description"`
	Confidence  int                `json:"confidence"`
	Reasoning   string             `json:"reasoning"`
	ParsedBy    constants.ParseMethod `json:"parsed_by"`
	Text        string             `json:"text"` // raw OCR output
	Warnings    []string           `json:"warnings,omitempty"`
}

// Processor runs the whole flow for one image. Enhancer may be nil; the
// AI path then degrades the same way a failed call would.
type Processor struct {
	Logger   *slog.Logger
	Engine   ocr.Engine
	Enhancer llm.Enhancer
	Limiter  *llm.Limiter
	OCROpts  ocr.Options

	now func() time.Time
}

func NewProcessor(logger *slog.Logger, engine ocr.Engine, enhancer llm.Enhancer, limiter *llm.Limiter) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if limiter == nil {
		limiter = llm.NewLimiter(0, 0)
	}
	return &Processor{
		Logger:   logger,
		Engine:   engine,
		Enhancer: enhancer,
		Limiter:  limiter,
		OCROpts:  ocr.DefaultOptions(),
		now:      time.Now,
	}
}

// ProcessReceipt turns one receipt image into an expense candidate.
// Decode, preprocessing, and OCR failures abort; everything after OCR
// degrades to a basic-derived candidate instead of erroring.
func (p *Processor) ProcessReceipt(ctx context.Context, image []byte, progress ocr.ProgressFunc) (Candidate, error) {
	rid := uuid.New().String()
	start := time.Now()

	report, err := imageprep.ValidateQuality(image)
	if err != nil {
		p.Logger.Error("pipeline.validate.failed", "req_id", rid, "error", err)
		return Candidate{}, err
	}
	if len(report.Warnings) > 0 {
		p.Logger.Warn("pipeline.validate.warnings", "req_id", rid, "advisory", report.Advisory())
	}

	prepped, err := imageprep.Preprocess(image)
	if err != nil {
		p.Logger.Error("pipeline.preprocess.failed", "req_id", rid, "error", err)
		return Candidate{}, err
	}

	opts := p.OCROpts
	opts.Progress = progress
	text, err := p.Engine.Recognize(ctx, prepped, opts)
	if err != nil {
		p.Logger.Error("pipeline.ocr.failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Candidate{}, err
	}
	p.Logger.Info("pipeline.ocr.ok", "req_id", rid, "text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds())

	corrected := extract.CorrectText(text)
	today := p.now().Format("2006-01-02")
	basic := extract.BasicResult{
		Vendor: extract.ExtractVendor(corrected),
		Amount: extract.ExtractAmount(corrected),
		Date:   extract.ExtractDate(corrected, p.now()),
	}

	if basic.Vendor != "" && basic.Amount > 0 {
		p.Logger.Info("pipeline.parse.basic", "req_id", rid,
			"vendor", basic.Vendor, "amount", basic.Amount,
			"elapsed_ms", time.Since(start).Milliseconds())
		return p.basicCandidate(basic, text, report.Warnings,
			constants.ParseMethodBasic, 70, "Basic regex pattern matching"), nil
	}

	if !p.Limiter.Allow() {
		p.Logger.Warn("pipeline.parse.rate_limited", "req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds())
		return p.basicCandidate(basic, text, report.Warnings,
			constants.ParseMethodRateLimited, 40, "Basic parsing due to rate limit prevention"), nil
	}

	fields, _, aiErr := p.enhance(ctx, corrected, today)
	if aiErr != nil {
		p.Logger.Warn("pipeline.parse.ai_failed", "req_id", rid, "error", aiErr,
			"elapsed_ms", time.Since(start).Milliseconds())
		return p.basicCandidate(basic, text, report.Warnings,
			constants.ParseMethodAIFailed, 30, "Basic regex parsing due to AI failure"), nil
	}

	merged := p.mergeAI(fields, basic, today, text, report.Warnings)
	p.Logger.Info("pipeline.parse.ai_ok", "req_id", rid,
		"vendor", merged.Vendor, "amount", merged.Amount,
		"category", merged.Category, "confidence", merged.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds())
	return merged, nil
}

func (p *Processor) enhance(ctx context.Context, corrected, today string) (llm.ExpenseFields, []byte, error) {
	if p.Enhancer == nil {
		return llm.ExpenseFields{}, nil, llm.ErrNoEnhancer
	}
	return p.Enhancer.ExtractFields(ctx, llm.ExtractRequest{
		OCRText:           corrected,
		AllowedCategories: constants.AsStringSlice(),
		Today:             today,
	})
}

func (p *Processor) basicCandidate(basic extract.BasicResult, text string, warnings []string, method constants.ParseMethod, confidence int, reasoning string) Candidate {
	vendor := basic.Vendor
	if vendor == "" {
		vendor = "Unknown Vendor"
	}
	return Candidate{
		Vendor:     vendor,
		Amount:     basic.Amount,
		Date:       basic.Date,
		Category:   classify.Categorize(basic.Vendor, ""),
		Confidence: confidence,
		Reasoning:  reasoning,
		ParsedBy:   method,
		Text:       text,
		Warnings:   warnings,
	}
}

func (p *Processor) mergeAI(fields llm.ExpenseFields, basic extract.BasicResult, today, text string, warnings []string) Candidate {
	vendor := fields.Vendor
	if vendor == "" {
		vendor = basic.Vendor
	}
	if vendor == "" {
		vendor = "Unknown Vendor"
	}

	amount := fields.Amount
	if amount <= 0 {
		amount = basic.Amount
	}

	date := fields.Date
	if date == "" {
		date = basic.Date
	}
	if date == "" {
		date = today
	}

	category, _ := constants.Canonicalize(fields.Category)

	description := fields.Description
	if r := []rune(description); len(r) > maxDescriptionLen {
		description = string(r[:maxDescriptionLen])
	}

	reasoning := fields.Reasoning
	if reasoning == "" {
		reasoning = "Perplexity AI-based categorization with real-time verification"
	}

	return Candidate{
		Vendor:      vendor,
		Amount:      amount,
		Date:        date,
		Category:    category,
		Description: description,
		Confidence:  fields.Confidence,
		Reasoning:   reasoning,
		ParsedBy:    constants.ParseMethodAI,
		Text:        text,
		Warnings:    warnings,
	}
}
