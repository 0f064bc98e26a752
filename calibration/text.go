// Package calibration prints ruler receipts so an operator can find a
// device's true character and pixel limits by eye. The generators reuse
// the printer package's layout/codepage primitives and the escpos
// command set; they never re-implement that logic.
package calibration

import (
	"fmt"
	"strings"

	"github.com/nixxel-company-limited/escpos-print-daemon/escpos"
	"github.com/nixxel-company-limited/escpos-print-daemon/printer"
)

// textCodepage is the code table the text ruler is printed with.
const textCodepage = 17 // cp866

var textHeader = []string{
	"--- TEXT CALIBRATION ---",
	"",
	"1. PRINTER LIMIT (Total Chars) ",
	"Find the MAX number that stays ",
	"on ONE single line.            ",
	"(If it splits/wraps -> Too Big)",
	"",
	"2. PAPER LIMIT (Paper Width)   ",
	"Find the MAX number where      ",
	"you see BOTH brackets [ ]      ",
	"(If bracket is gone -> Too Big)",
	"",
	"--------------------------------",
	"",
}

// TextRulerLine builds one candidate-width ruler line, e.g.
// "[<<<<< 42 >>>>>]" for width 16.
func TextRulerLine(width int) string {
	label := fmt.Sprintf(" %d ", width)
	available := width - 2 - len(label)
	if available < 0 {
		available = 0
	}
	left := available / 2
	right := available - left
	return "[" + strings.Repeat("<", left) + label + strings.Repeat(">", right) + "]"
}

// Text prints the text-width ruler: one bracketed line per candidate
// width in [start, end) stepping by step.
func Text(h *printer.Handler, start, end, step int) error {
	if step < 1 {
		step = 1
	}

	if err := h.SendRaw(escpos.Reset); err != nil {
		return err
	}
	if err := h.SendRaw(escpos.SelectCodepage(textCodepage)); err != nil {
		return err
	}
	if err := h.SendRaw(escpos.Align(escpos.AlignCenter)); err != nil {
		return err
	}

	for _, line := range textHeader {
		if err := h.SendRaw(printer.EncodeLine(line+"\n", "cp866")); err != nil {
			return err
		}
	}

	for width := start; width < end; width += step {
		line := TextRulerLine(width)
		if err := h.SendRaw(printer.EncodeLine(line+"\n", "cp866")); err != nil {
			return err
		}
	}

	return h.SendRaw(append([]byte("\n\n\n"), escpos.PartialCut...))
}
