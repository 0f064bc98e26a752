package printer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Layout engine: pure functions turning (profile, text/table) into padded,
// encoded physical lines. No I/O happens here; the calibration generators
// reuse these primitives so the width and codepage logic exists once.

// WrapText word-wraps a single paragraph into lines of at most width
// characters. Words longer than the width are broken inside the word;
// characters are never dropped. Runs of whitespace collapse to single
// spaces.
func WrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}

	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > 0 {
			if len(cur) == 0 {
				if len(w) <= width {
					cur = append(cur, w...)
					break
				}
				lines = append(lines, string(w[:width]))
				w = w[width:]
				continue
			}
			if len(cur)+1+len(w) <= width {
				cur = append(cur, ' ')
				cur = append(cur, w...)
				break
			}
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// lookupEncoding resolves a codec name, trying the common printer
// codepage aliases first and the IANA registry second. Unknown names
// fall back to the legacy cp866 table instead of failing the job.
func lookupEncoding(name string) encoding.Encoding {
	switch strings.ReplaceAll(strings.ToLower(name), "-", "") {
	case "cp866", "ibm866":
		return charmap.CodePage866
	case "cp1251", "win1251", "windows1251":
		return charmap.Windows1251
	case "pc437", "cp437":
		return charmap.CodePage437
	}
	if e, err := ianaindex.IANA.Encoding(name); err == nil && e != nil {
		return e
	}
	return charmap.CodePage866
}

// EncodeLine encodes s with the named codec, substituting unencodable
// characters rather than failing.
func EncodeLine(s, encodingName string) []byte {
	enc := encoding.ReplaceUnsupported(lookupEncoding(encodingName).NewEncoder())
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		// ReplaceUnsupported never reports encode errors; keep the
		// input bytes as a last resort.
		return []byte(s)
	}
	return out
}

// TextLines lays out a text value into encoded physical lines, each
// terminated with a newline. Explicit newlines split paragraphs first;
// an empty paragraph emits a bare newline.
func TextLines(p Profile, align, text string) [][]byte {
	margin := p.marginBase()
	width := p.PaperWidthChars

	var out [][]byte
	for _, paragraph := range strings.Split(text, "\n") {
		chunks := WrapText(paragraph, width)
		if len(chunks) == 0 {
			out = append(out, []byte{'\n'})
			continue
		}
		for _, chunk := range chunks {
			n := utf8.RuneCountInString(chunk)
			var lead, trail int
			switch align {
			case AlignCenter:
				lead = (width - n) / 2
				trail = width - n - lead
			case AlignRight:
				lead = width - n
			}
			if lead < 0 {
				lead = 0
			}
			if trail < 0 {
				trail = 0
			}
			line := strings.Repeat(" ", margin+lead) + chunk + strings.Repeat(" ", trail)
			out = append(out, append(EncodeLine(line, p.Encoding), '\n'))
		}
	}
	return out
}

// TableColumnWidths splits the paper width over the ratio list. All but
// the last column get the floor of their share; the last column absorbs
// the remainder, so the widths always sum exactly to PaperWidthChars.
func TableColumnWidths(p Profile, ratios []float64) []int {
	cols := len(ratios)
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	sum := 0
	for i := 0; i < cols-1; i++ {
		widths[i] = int(float64(p.PaperWidthChars) * ratios[i])
		sum += widths[i]
	}
	widths[cols-1] = p.PaperWidthChars - sum
	return widths
}

// TableLines lays out table rows into encoded physical lines. Cells are
// truncated to their column width and left-justified, except the last
// column which is right-justified. Rows whose cell count does not match
// the ratio count are skipped.
func TableLines(p Profile, rows [][]string, ratios []float64) [][]byte {
	widths := TableColumnWidths(p, ratios)
	if widths == nil {
		return nil
	}
	margin := strings.Repeat(" ", p.marginBase())
	cols := len(ratios)

	var out [][]byte
	for _, row := range rows {
		if len(row) != cols {
			continue
		}
		var b strings.Builder
		for i, cell := range row {
			w := widths[i]
			if w < 0 {
				w = 0
			}
			cut := truncateRunes(cell, w)
			if i == cols-1 {
				b.WriteString(padLeft(cut, w))
			} else {
				b.WriteString(padRight(cut, w))
			}
		}
		out = append(out, append(EncodeLine(margin+b.String(), p.Encoding), '\n'))
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func padLeft(s string, w int) string {
	if n := w - utf8.RuneCountInString(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}

func padRight(s string, w int) string {
	if n := w - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
