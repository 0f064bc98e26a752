package calibration

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixxel-company-limited/escpos-print-daemon/escpos"
)

func isBlack(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0 && g == 0 && b == 0
}

func TestRulerStripGeometry(t *testing.T) {
	const width = 200
	img := RulerStrip(width, nil)

	b := img.Bounds()
	assert.Equal(t, width, b.Dx())
	assert.Equal(t, stripHeight, b.Dy())

	// End bars
	assert.True(t, isBlack(img.At(0, 0)))
	assert.True(t, isBlack(img.At(0, stripHeight-1)))
	assert.True(t, isBlack(img.At(width-1, 0)))
	assert.True(t, isBlack(img.At(width-1, stripHeight-1)))

	// Horizontal line through the middle
	assert.True(t, isBlack(img.At(width/2, stripHeight/2)))

	// Background stays white
	assert.False(t, isBlack(img.At(width/2, 0)))
	assert.False(t, isBlack(img.At(width/2, stripHeight-1)))
}

type dotLabeler struct{}

func (dotLabeler) Render(text string) image.Image {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func TestRulerStripLabel(t *testing.T) {
	const width = 200
	img := RulerStrip(width, dotLabeler{})

	// The label block lands centered, above the middle line
	assert.True(t, isBlack(img.At(width/2, stripHeight/2-4)))
	// The cleared background interrupts the middle line beside the label
	assert.False(t, isBlack(img.At(width/2-9, stripHeight/2)))
}

func TestImageCalibration(t *testing.T) {
	h, sink := newNullHandler(t)
	defer h.Close()

	require.NoError(t, Image(h, 100, 120, 10, nil))
	out := sink.Bytes()

	assert.True(t, bytes.HasPrefix(out, escpos.Reset))
	assert.True(t, bytes.HasSuffix(out, escpos.PartialCut))

	// Widths 100,110,120 -> three raster strips at their exact widths
	assert.Equal(t, 3, bytes.Count(out, []byte{0x1D, 0x76, 0x30, 0x00}))

	i := bytes.Index(out, []byte{0x1D, 0x76, 0x30, 0x00})
	require.GreaterOrEqual(t, i, 0)
	// 100 px -> 13 bytes per row
	assert.Equal(t, byte(13), out[i+4])
	assert.Equal(t, byte(stripHeight), out[i+6])
}
