package imageprep

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/expensetrackr/receipt-pipeline/internal/common"
)

const (
	minBrightness = 80
	maxBrightness = 180
	minResolution = 300
)

// QualityReport is advisory only; a bad report never blocks the pipeline.
type QualityReport struct {
	BrightnessScore float64
	ResolutionOK    bool
	Warnings        []string
}

// Advisory renders the warnings the way the form UI displays them.
func (r QualityReport) Advisory() string {
	return strings.Join(r.Warnings, ". ")
}

// ValidateQuality decodes the raw image, measures mean luminance over every
// pixel, and uses min(width, height) as a resolution proxy.
func ValidateQuality(data []byte) (QualityReport, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return QualityReport{}, fmt.Errorf("%w: decode: %v", common.ErrInvalidImage, err)
	}

	nrgba := imaging.Clone(img)
	bounds := nrgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var sum float64
	pixelCount := width * height
	for i := 0; i < len(nrgba.Pix); i += 4 {
		r := nrgba.Pix[i]
		g := nrgba.Pix[i+1]
		b := nrgba.Pix[i+2]
		sum += float64(uint32(r)+uint32(g)+uint32(b)) / 3
	}

	brightness := 0.0
	if pixelCount > 0 {
		brightness = sum / float64(pixelCount)
	}

	resolution := width
	if height < width {
		resolution = height
	}

	report := QualityReport{
		BrightnessScore: brightness,
		ResolutionOK:    resolution >= minResolution,
	}

	if brightness < minBrightness {
		report.Warnings = append(report.Warnings, "Image appears too dark - try better lighting")
	} else if brightness > maxBrightness {
		report.Warnings = append(report.Warnings, "Image appears overexposed - reduce lighting or avoid glare")
	}
	if !report.ResolutionOK {
		report.Warnings = append(report.Warnings, "Image resolution is low - try taking a closer photo")
	}

	return report, nil
}
