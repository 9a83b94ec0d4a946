package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/expensetrackr/receipt-pipeline/internal/common"
	"github.com/expensetrackr/receipt-pipeline/internal/currency"
	"github.com/expensetrackr/receipt-pipeline/internal/llm"
	"github.com/expensetrackr/receipt-pipeline/internal/llm/perplexity"
	"github.com/expensetrackr/receipt-pipeline/internal/ocr"
	"github.com/expensetrackr/receipt-pipeline/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "scanreceipt <image-file>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	image, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("read image", "path", os.Args[1], "error", err)
		os.Exit(1)
	}

	engine := ocr.NewTesseractEngine(ocr.Config{TessdataDir: cfg.OCR.TessdataDir}, logger)

	// No key means no AI path; the pipeline degrades to basic parsing.
	var enhancer llm.Enhancer
	if cfg.LLM.APIKey != "" {
		enhancer = perplexity.NewClient(perplexity.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
			MaxRetries:  cfg.LLM.MaxRetries,
		}, logger)
	}

	limiter := llm.NewLimiter(cfg.RateLimit.MaxCalls, cfg.RateLimit.Window)

	p := pipeline.NewProcessor(logger, engine, enhancer, limiter)
	p.OCROpts.Language = cfg.OCR.Language

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OCR.Timeout+cfg.LLM.Timeout)
	defer cancel()

	start := time.Now()
	candidate, err := p.ProcessReceipt(ctx, image, func(pct int) {
		logger.Info("ocr.progress", "pct", pct)
	})
	if err != nil {
		logger.Error("receipt processing failed",
			"error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	logger.Info("receipt processed",
		"parsed_by", candidate.ParsedBy,
		"vendor", candidate.Vendor,
		"amount", currency.FormatINR(candidate.Amount),
		"category", candidate.Category,
		"confidence", candidate.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	out, err := json.MarshalIndent(candidate, "", "  ")
	if err != nil {
		logger.Error("encode candidate", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
