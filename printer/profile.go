package printer

// DefaultImageWidthPx is the raster width used when a profile leaves
// ImageWidthPx unset. 384 dots is the printable width of common 58mm
// thermal printers.
const DefaultImageWidthPx = 384

// Profile describes the layout characteristics of one printer/paper
// combination. It drives all text, table and image layout and the
// codepage selected for a job.
type Profile struct {
	// PrinterTotalChars is the full character width of the print head.
	PrinterTotalChars int

	// PaperWidthChars is the usable character width of the loaded paper.
	// The difference to PrinterTotalChars is split into a left margin.
	PaperWidthChars int

	// ImageWidthPx is the pixel width bitmaps are resized to.
	ImageWidthPx int

	// Encoding names the text codec used to build line bytes (cp866,
	// cp1251, pc437, ...). It must match the codepage the device is
	// switched to.
	Encoding string

	// CodepageID overrides the codepage derived from Encoding when set.
	CodepageID *int
}

func (p Profile) imageWidth() int {
	if p.ImageWidthPx <= 0 {
		return DefaultImageWidthPx
	}
	return p.ImageWidthPx
}

// marginBase is the left margin centering the paper area on the print
// head.
func (p Profile) marginBase() int {
	m := (p.PrinterTotalChars - p.PaperWidthChars) / 2
	if m < 0 {
		return 0
	}
	return m
}
