package escpos

import (
	"image"

	"golang.org/x/image/draw"
)

// lumaThreshold splits pixels into black and white when rasterizing.
// Matches the midpoint convention of most ESC/POS driver stacks.
const lumaThreshold = 0x7FFF

// ResizeToWidth scales img to exactly width pixels, preserving aspect
// ratio, using Catmull-Rom resampling.
func ResizeToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if b.Dx() == width || b.Dx() == 0 {
		return img
	}
	h := b.Dy() * width / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Raster encodes img into the GS v 0 raster bit image format
// (1D 76 30 00 xL xH yL yH data), row-major, MSB first, one bit per
// pixel where a set bit prints black.
func Raster(img image.Image) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	bytesPerRow := (w + 7) / 8

	out := make([]byte, 0, 8+bytesPerRow*h)
	out = append(out, 0x1D, 0x76, 0x30, 0x00,
		byte(bytesPerRow&0xFF), byte(bytesPerRow>>8),
		byte(h&0xFF), byte(h>>8))

	for y := 0; y < h; y++ {
		row := make([]byte, bytesPerRow)
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// Transparent pixels print white.
			if a == 0 {
				continue
			}
			// ITU-R 601 luma.
			luma := (299*r + 587*g + 114*bl) / 1000
			if luma < lumaThreshold {
				row[x/8] |= 0x80 >> uint(x%8)
			}
		}
		out = append(out, row...)
	}
	return out
}
