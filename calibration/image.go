package calibration

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/nixxel-company-limited/escpos-print-daemon/escpos"
	"github.com/nixxel-company-limited/escpos-print-daemon/printer"
)

// Strip geometry for the image-width ruler.
const (
	stripHeight   = 40
	barThickness  = 6
	lineThickness = 2
	labelPad      = 6
)

// Labeler rasterizes a text label into a bitmap. Glyph rendering is
// delegated to an external text-rendering service; a nil Labeler prints
// the ruler strips without numeric labels.
type Labeler interface {
	Render(text string) image.Image
}

// RulerStrip builds one calibration strip of exactly width pixels: a
// horizontal line across the full width with a solid bar at each end,
// and the width number centered on top when a labeler is supplied. The
// widest strip whose both bars survive printing marks the device's true
// pixel width.
func RulerStrip(width int, labeler Labeler) image.Image {
	img := image.NewGray(image.Rect(0, 0, width, stripHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	black := image.NewUniform(color.Black)
	white := image.NewUniform(color.White)

	mid := stripHeight / 2
	draw.Draw(img, image.Rect(0, mid, width, mid+lineThickness), black, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, barThickness+1, stripHeight), black, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(width-barThickness-1, 0, width, stripHeight), black, image.Point{}, draw.Src)

	if labeler != nil {
		label := labeler.Render(fmt.Sprintf("%d", width))
		if label != nil {
			lb := label.Bounds()
			x := (width - lb.Dx()) / 2
			y := (stripHeight - lb.Dy()) / 2
			bg := image.Rect(x-labelPad, 4, x+lb.Dx()+labelPad, stripHeight-4)
			draw.Draw(img, bg, white, image.Point{}, draw.Src)
			draw.Draw(img, image.Rect(x, y, x+lb.Dx(), y+lb.Dy()), label, lb.Min, draw.Over)
		}
	}
	return img
}

// Image prints the image-width ruler: one strip per candidate width in
// [start, end] stepping by step. Strips are rastered at their exact
// pixel width, bypassing the profile resize on purpose.
func Image(h *printer.Handler, start, end, step int, labeler Labeler) error {
	if step < 1 {
		step = 1
	}

	if err := h.SendRaw(escpos.Reset); err != nil {
		return err
	}
	if err := h.SendRaw(escpos.Align(escpos.AlignCenter)); err != nil {
		return err
	}

	header := []string{
		"--- IMAGE WIDTH CALIBRATION ---",
		fmt.Sprintf("Range: %d-%d px", start, end),
		"Find the widest line",
		"with visible BOTH bars |",
		"",
	}
	for _, line := range header {
		if err := h.SendRaw(printer.EncodeLine(line+"\n", "cp866")); err != nil {
			return err
		}
	}

	for width := start; width <= end; width += step {
		if err := h.SendRaw(escpos.Raster(RulerStrip(width, labeler))); err != nil {
			return err
		}
	}

	return h.SendRaw(append([]byte("\n\n\n"), escpos.PartialCut...))
}
