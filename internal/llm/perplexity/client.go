package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/expensetrackr/receipt-pipeline/internal/common"
	"github.com/expensetrackr/receipt-pipeline/internal/llm"
)

// ExtractFields implements llm.Enhancer using text-only chat/completions.
// 429 responses are retried with exponential backoff plus jitter; every
// other non-2xx status maps onto a stable error class the pipeline can
// switch on.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.ExpenseFields, []byte, error) {
	if c.cfg.APIKey == "" {
		return llm.ExpenseFields{}, nil, common.WrapError(common.ErrConfiguration, "perplexity api key not configured")
	}

	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.OCRText),
		"allowed_categories", len(req.AllowedCategories),
	)

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{"role": "system", "content": buildSystemPrompt(req)},
			{"role": "user", "content": buildUserPrompt(req.OCRText)},
		},
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"stream":      false,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	var raw []byte
	var status int
	var err error
	for attempt := 0; ; attempt++ {
		raw, status, err = c.post(ctx, endpoint, body)
		if err != nil {
			c.log.Error("llm.extract.http_error",
				"req_id", rid, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return llm.ExpenseFields{}, nil, err
		}
		if status != http.StatusTooManyRequests {
			break
		}
		if attempt >= c.cfg.MaxRetries {
			c.log.Error("llm.extract.rate_limited",
				"req_id", rid, "attempts", attempt+1,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return llm.ExpenseFields{}, raw, common.WrapError(common.ErrRateLimitExceeded, "rate limit exceeded after maximum retries")
		}
		delay := c.cfg.BaseDelay<<attempt + c.jitter()
		c.log.Warn("llm.extract.retry",
			"req_id", rid, "attempt", attempt+1, "max_retries", c.cfg.MaxRetries,
			"delay_ms", delay.Milliseconds(),
		)
		c.sleep(delay)
	}

	switch {
	case status == http.StatusUnauthorized:
		return llm.ExpenseFields{}, raw, common.WrapError(common.ErrAIAuth, "check your perplexity api key")
	case status == http.StatusForbidden:
		return llm.ExpenseFields{}, raw, common.WrapError(common.ErrAIForbidden, "check api key permissions or account credits")
	case status < 200 || status >= 300:
		return llm.ExpenseFields{}, raw, common.WrapError(common.ErrAIGeneric, fmt.Sprintf("status %d: %s", status, string(raw)))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExpenseFields{}, raw, common.WrapError(common.ErrAIResponseFormat, "decode response envelope")
	}
	if len(cc.Choices) == 0 || cc.Choices[0].Message.Content == "" {
		c.log.Error("llm.extract.no_choices",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExpenseFields{}, raw, common.WrapError(common.ErrAIResponseFormat, "missing choices in response")
	}

	content := []byte(llm.StripCodeFence(cc.Choices[0].Message.Content))

	schema := llm.BuildExpenseJSONSchema(req.AllowedCategories)
	if err := llm.ValidateJSONAgainstSchema(schema, content); err != nil {
		c.log.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExpenseFields{}, content, common.WrapError(common.ErrAIResponseFormat, err.Error())
	}

	var out llm.ExpenseFields
	if err := json.Unmarshal(content, &out); err != nil {
		c.log.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.ExpenseFields{}, content, common.WrapError(common.ErrAIResponseFormat, "unmarshal fields")
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"vendor", out.Vendor,
		"amount", out.Amount,
		"date", out.Date,
		"category", out.Category,
		"confidence", out.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("perplexity http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.log.Warn("perplexity response body close error", "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}
