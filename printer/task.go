package printer

import "image"

// Alignment values accepted by tasks.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Task is one unit of work inside a print job. Variants are executed
// strictly in order; each task completes fully before the next starts.
type Task interface {
	printTask()
}

// TextTask prints word-wrapped, aligned text.
type TextTask struct {
	Align string
	Value string
}

// TableTask prints rows laid out into ratio-sized columns.
type TableTask struct {
	Align        string
	Rows         [][]string
	ColumnRatios []float64
}

// ImageTask prints an already-decoded bitmap.
type ImageTask struct {
	Align  string
	Bitmap image.Image
}

// PdfTask prints pre-rendered PDF pages, one bitmap per page. Rendering
// the PDF itself is the job of an external renderer.
type PdfTask struct {
	Align string
	Pages []image.Image
}

// FeedTask advances the paper by Lines newlines.
type FeedTask struct {
	Lines int
}

// CutTask feeds past the cutter and performs a partial cut.
type CutTask struct{}

// RawTask sends caller-supplied bytes verbatim.
type RawTask struct {
	Data []byte
}

func (TextTask) printTask()  {}
func (TableTask) printTask() {}
func (ImageTask) printTask() {}
func (PdfTask) printTask()   {}
func (FeedTask) printTask()  {}
func (CutTask) printTask()   {}
func (RawTask) printTask()   {}
