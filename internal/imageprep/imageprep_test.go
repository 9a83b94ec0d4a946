package imageprep

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensetrackr/receipt-pipeline/internal/common"
)

// solidPNG renders a w x h PNG filled with a single gray level.
func solidPNG(t *testing.T, w, h int, level uint8) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = level
		img.Pix[i+1] = level
		img.Pix[i+2] = level
		img.Pix[i+3] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateQuality(t *testing.T) {
	tests := []struct {
		name         string
		level        uint8
		size         int
		wantWarnings int
		wantResOK    bool
	}{
		{name: "well lit and large", level: 128, size: 400, wantWarnings: 0, wantResOK: true},
		{name: "too dark", level: 40, size: 400, wantWarnings: 1, wantResOK: true},
		{name: "overexposed", level: 220, size: 400, wantWarnings: 1, wantResOK: true},
		{name: "low resolution", level: 128, size: 200, wantWarnings: 1, wantResOK: false},
		{name: "dark and tiny", level: 30, size: 100, wantWarnings: 2, wantResOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ValidateQuality(solidPNG(t, tt.size, tt.size, tt.level))
			require.NoError(t, err)
			assert.Len(t, report.Warnings, tt.wantWarnings)
			assert.Equal(t, tt.wantResOK, report.ResolutionOK)
			assert.InDelta(t, float64(tt.level), report.BrightnessScore, 1.0)
		})
	}
}

func TestValidateQualityAdvisoryJoinsWarnings(t *testing.T) {
	report, err := ValidateQuality(solidPNG(t, 100, 100, 30))
	require.NoError(t, err)
	assert.Contains(t, report.Advisory(), "too dark")
	assert.Contains(t, report.Advisory(), ". ")
}

func TestValidateQualityRejectsGarbage(t *testing.T) {
	_, err := ValidateQuality([]byte("not an image"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidImage))
}

func TestPreprocessUpsamples(t *testing.T) {
	out, err := Preprocess(solidPNG(t, 72, 72, 128))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// 300/72 scale lands at 300 pixels on each axis.
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestPreprocessContrastStretch(t *testing.T) {
	// mid-gray: (128-128)*1.2 + 128 + 10 = 138
	out, err := Preprocess(solidPNG(t, 10, 10, 128))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	r, _, _, a := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(138), r>>8)
	assert.Equal(t, uint32(255), a>>8)
}

func TestPreprocessClampsChannels(t *testing.T) {
	// near-white saturates at 255 instead of wrapping
	out, err := Preprocess(solidPNG(t, 10, 10, 250))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	c := color.NRGBAModel.Convert(img.At(3, 3)).(color.NRGBA)
	assert.Equal(t, uint8(255), c.R)
}

func TestPreprocessRejectsGarbage(t *testing.T) {
	_, err := Preprocess([]byte{0x00, 0x01})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrImageProcessing))
}
