package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensetrackr/receipt-pipeline/constants"
	"github.com/expensetrackr/receipt-pipeline/internal/common"
	"github.com/expensetrackr/receipt-pipeline/internal/llm"
	"github.com/expensetrackr/receipt-pipeline/internal/ocr"
)

type fakeEngine struct {
	text  string
	err   error
	calls int
}

func (f *fakeEngine) Recognize(ctx context.Context, image []byte, opts ocr.Options) (string, error) {
	f.calls++
	if opts.Progress != nil {
		opts.Progress(0)
		opts.Progress(100)
	}
	return f.text, f.err
}

type fakeEnhancer struct {
	fields llm.ExpenseFields
	err    error
	calls  int
	lastReq llm.ExtractRequest
}

func (f *fakeEnhancer) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.ExpenseFields, []byte, error) {
	f.calls++
	f.lastReq = req
	return f.fields, nil, f.err
}

func receiptPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 300, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestProcessor(engine ocr.Engine, enhancer llm.Enhancer, limiter *llm.Limiter) *Processor {
	p := NewProcessor(nil, engine, enhancer, limiter)
	p.now = func() time.Time { return time.Date(2025, 6, 12, 10, 0, 0, 0, time.UTC) }
	return p
}

func TestProcessReceiptBasicPath(t *testing.T) {
	engine := &fakeEngine{text: "STARBUCKS STORE #123\n12/25/2024\nGrande Latte 4.50\nTOTAL 4.50"}
	enhancer := &fakeEnhancer{}
	p := newTestProcessor(engine, enhancer, nil)

	var progress []int
	got, err := p.ProcessReceipt(context.Background(), receiptPNG(t), func(pct int) {
		progress = append(progress, pct)
	})
	require.NoError(t, err)

	assert.Equal(t, "Starbucks", got.Vendor)
	assert.Equal(t, 4.50, got.Amount)
	assert.Equal(t, "2024-12-25", got.Date)
	assert.Equal(t, constants.FoodAndDrink, got.Category)
	assert.Equal(t, constants.ParseMethodBasic, got.ParsedBy)
	assert.Equal(t, 70, got.Confidence)
	assert.Equal(t, "Basic regex pattern matching", got.Reasoning)
	assert.Equal(t, engine.text, got.Text)
	assert.Equal(t, []int{0, 100}, progress)
	assert.Zero(t, enhancer.calls, "basic path must not touch the AI client")
}

func TestProcessReceiptEndToEnd(t *testing.T) {
	engine := &fakeEngine{text: "STARBUCKS\n123 Main St\n12/25/2024\nTOTAL Rs 4.50\nTHANK YOU"}
	enhancer := &fakeEnhancer{}
	p := newTestProcessor(engine, enhancer, nil)

	got, err := p.ProcessReceipt(context.Background(), receiptPNG(t), nil)
	require.NoError(t, err)

	assert.Equal(t, Candidate{
		Vendor:     "Starbucks",
		Amount:     4.50,
		Date:       "2024-12-25",
		Category:   constants.FoodAndDrink,
		Confidence: 70,
		Reasoning:  "Basic regex pattern matching",
		ParsedBy:   constants.ParseMethodBasic,
		Text:       engine.text,
	}, got)
	assert.Zero(t, enhancer.calls)
}

func TestProcessReceiptRateLimited(t *testing.T) {
	engine := &fakeEngine{text: "1234\nitems 0.00"}
	enhancer := &fakeEnhancer{}
	limiter := llm.NewLimiter(1, time.Minute)
	require.True(t, limiter.Allow()) // burn the only slot

	p := newTestProcessor(engine, enhancer, limiter)
	got, err := p.ProcessReceipt(context.Background(), receiptPNG(t), nil)
	require.NoError(t, err)

	assert.Equal(t, constants.ParseMethodRateLimited, got.ParsedBy)
	assert.Equal(t, 40, got.Confidence)
	assert.Equal(t, "Unknown Vendor", got.Vendor)
	assert.Equal(t, float64(0), got.Amount)
	assert.Equal(t, "2025-06-12", got.Date)
	assert.Equal(t, constants.Other, got.Category)
	assert.Zero(t, enhancer.calls)
}

func TestProcessReceiptAISuccess(t *testing.T) {
	engine := &fakeEngine{text: "blurry header\nitems follow"}
	enhancer := &fakeEnhancer{fields: llm.ExpenseFields{
		Vendor:      "Starbucks",
		Amount:      4.5,
		Date:        "2025-06-10",
		Category:    "Food & Drink",
		Description: "Grande latte and a blueberry muffin from the downtown store",
		Confidence:  88,
		Reasoning:   "verified chain",
	}}
	p := newTestProcessor(engine, enhancer, nil)

	got, err := p.ProcessReceipt(context.Background(), receiptPNG(t), nil)
	require.NoError(t, err)

	assert.Equal(t, constants.ParseMethodAI, got.ParsedBy)
	assert.Equal(t, "Starbucks", got.Vendor)
	assert.Equal(t, 4.5, got.Amount)
	assert.Equal(t, "2025-06-10", got.Date)
	assert.Equal(t, constants.FoodAndDrink, got.Category)
	assert.Len(t, got.Description, 50)
	assert.Equal(t, 88, got.Confidence)
	assert.Equal(t, 1, enhancer.calls)
	assert.Equal(t, "2025-06-12", enhancer.lastReq.Today)
	assert.Equal(t, constants.AsStringSlice(), enhancer.lastReq.AllowedCategories)
}

func TestProcessReceiptAIGapFilling(t *testing.T) {
	// model returns nothing useful; regex values and defaults win
	engine := &fakeEngine{text: "WALMART\nitems follow"}
	enhancer := &fakeEnhancer{fields: llm.ExpenseFields{}}
	p := newTestProcessor(engine, enhancer, nil)

	got, err := p.ProcessReceipt(context.Background(), receiptPNG(t), nil)
	require.NoError(t, err)

	assert.Equal(t, constants.ParseMethodAI, got.ParsedBy)
	assert.Equal(t, "Walmart", got.Vendor)
	assert.Equal(t, float64(0), got.Amount)
	assert.Equal(t, "2025-06-12", got.Date)
	assert.Equal(t, constants.Other, got.Category)
	assert.Equal(t, "Perplexity AI-based categorization with real-time verification", got.Reasoning)
}

func TestProcessReceiptAIFailure(t *testing.T) {
	engine := &fakeEngine{text: "blurry header"}
	enhancer := &fakeEnhancer{err: common.WrapError(common.ErrAIAuth, "bad key")}
	p := newTestProcessor(engine, enhancer, nil)

	got, err := p.ProcessReceipt(context.Background(), receiptPNG(t), nil)
	require.NoError(t, err)

	assert.Equal(t, constants.ParseMethodAIFailed, got.ParsedBy)
	assert.Equal(t, 30, got.Confidence)
	assert.Equal(t, "Basic regex parsing due to AI failure", got.Reasoning)
}

func TestProcessReceiptNoEnhancer(t *testing.T) {
	engine := &fakeEngine{text: "blurry header"}
	p := newTestProcessor(engine, nil, nil)

	got, err := p.ProcessReceipt(context.Background(), receiptPNG(t), nil)
	require.NoError(t, err)
	assert.Equal(t, constants.ParseMethodAIFailed, got.ParsedBy)
}

func TestProcessReceiptInvalidImage(t *testing.T) {
	p := newTestProcessor(&fakeEngine{}, nil, nil)
	_, err := p.ProcessReceipt(context.Background(), []byte("not an image"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidImage)
	assert.True(t, common.IsFatal(err))
}

func TestProcessReceiptOCRFailure(t *testing.T) {
	engine := &fakeEngine{err: common.WrapError(common.ErrOCRFailure, "tesseract crashed")}
	p := newTestProcessor(engine, nil, nil)

	_, err := p.ProcessReceipt(context.Background(), receiptPNG(t), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrOCRFailure)
	assert.True(t, common.IsFatal(err))
}

func TestProcessReceiptContextCancel(t *testing.T) {
	engine := &fakeEngine{err: errors.New("context canceled")}
	p := newTestProcessor(engine, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.ProcessReceipt(ctx, receiptPNG(t), nil)
	require.Error(t, err)
}
