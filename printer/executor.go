package printer

import (
	"bytes"
	"fmt"
	"image"

	"github.com/nixxel-company-limited/escpos-print-daemon/escpos"
)

// codepageID resolves the device code table for a profile: an explicit
// CodepageID wins, otherwise the table is derived from the encoding name.
func codepageID(p Profile) byte {
	if p.CodepageID != nil {
		return byte(*p.CodepageID)
	}
	return escpos.CodepageFor(p.Encoding)
}

// ProcessTask converts one task into its byte sequence and sends it.
// The connection stays open afterwards; closing between tasks of the
// same job would reset the device mid-receipt. On a transport fault the
// task is aborted and the fault surfaced; job-level cleanup happens in
// Registry.PrintJob.
func (h *Handler) ProcessTask(task Task, profile Profile) error {
	if err := h.ConnectIfNeeded(); err != nil {
		return err
	}

	if err := h.SendRaw(escpos.SelectCodepage(codepageID(profile))); err != nil {
		return err
	}

	// Images manage their own alignment commands.
	switch task.(type) {
	case ImageTask, PdfTask:
	default:
		if err := h.SendRaw(escpos.Align(escpos.AlignLeft)); err != nil {
			return err
		}
	}

	switch t := task.(type) {
	case TextTask:
		for _, line := range TextLines(profile, t.Align, t.Value) {
			if err := h.SendRaw(line); err != nil {
				return err
			}
		}

	case TableTask:
		for _, line := range TableLines(profile, t.Rows, t.ColumnRatios) {
			if err := h.SendRaw(line); err != nil {
				return err
			}
		}

	case ImageTask:
		return h.printImage(t.Bitmap, profile)

	case PdfTask:
		for _, page := range t.Pages {
			if err := h.printImage(page, profile); err != nil {
				return err
			}
		}

	case FeedTask:
		lines := t.Lines
		if lines < 1 {
			lines = 1
		}
		return h.SendRaw(bytes.Repeat([]byte{'\n'}, lines))

	case CutTask:
		return h.SendRaw(append([]byte("\n\n\n"), escpos.PartialCut...))

	case RawTask:
		return h.SendRaw(t.Data)

	default:
		return fmt.Errorf("unsupported task %T", task)
	}

	return nil
}

// printImage centers, resizes and rasterizes one bitmap.
func (h *Handler) printImage(img image.Image, profile Profile) error {
	if img == nil {
		return fmt.Errorf("image task without bitmap")
	}
	if err := h.SendRaw(escpos.Align(escpos.AlignCenter)); err != nil {
		return err
	}
	resized := escpos.ResizeToWidth(img, profile.imageWidth())
	if err := h.SendRaw(escpos.Raster(resized)); err != nil {
		return err
	}
	return h.SendRaw(escpos.Align(escpos.AlignLeft))
}
