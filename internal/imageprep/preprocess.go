package imageprep

import (
	"bytes"
	"fmt"
	"math"

	"github.com/disintegration/imaging"

	"github.com/expensetrackr/receipt-pipeline/internal/common"
)

const (
	// Upsample to an effective 300 DPI assuming a 72 DPI source.
	targetDPI = 300
	sourceDPI = 72

	contrastFactor = 1.2
	brightnessLift = 10
)

// Preprocess upsamples and contrast-stretches a receipt image into an
// OCR-friendly PNG. Scaling uses NearestNeighbor so character edges stay
// hard; smoothing filters blur the glyph boundaries tesseract keys on.
func Preprocess(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", common.ErrImageProcessing, err)
	}

	scale := math.Max(1, float64(targetDPI)/float64(sourceDPI))
	bounds := img.Bounds()
	width := int(math.Round(float64(bounds.Dx()) * scale))
	height := int(math.Round(float64(bounds.Dy()) * scale))

	scaled := imaging.Resize(img, width, height, imaging.NearestNeighbor)

	// Contrast stretch around mid-gray plus a small brightness lift,
	// applied per channel. Alpha is untouched.
	for i := 0; i < len(scaled.Pix); i += 4 {
		scaled.Pix[i] = stretch(scaled.Pix[i])
		scaled.Pix[i+1] = stretch(scaled.Pix[i+1])
		scaled.Pix[i+2] = stretch(scaled.Pix[i+2])
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, scaled, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", common.ErrImageProcessing, err)
	}
	return buf.Bytes(), nil
}

func stretch(c uint8) uint8 {
	v := (float64(c)-128)*contrastFactor + 128 + brightnessLift
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
