// Package escpos implements the device-facing ESC/POS byte protocol:
// command sequences, codepage selection and the real-time status bitmasks.
package escpos

import "strings"

// Core command sequences.
var (
	// Reset re-initializes the printer (ESC @).
	Reset = []byte{0x1B, 0x40}

	// StatusOnlineQuery requests the real-time device status (DLE EOT 1).
	StatusOnlineQuery = []byte{0x10, 0x04, 0x01}

	// StatusPaperQuery requests the real-time paper sensor status (DLE EOT 4).
	StatusPaperQuery = []byte{0x10, 0x04, 0x04}

	// PartialCut perforates the paper without fully severing it (GS V 1).
	PartialCut = []byte{0x1D, 0x56, 0x01}
)

// Alignment values for the ESC a command.
const (
	AlignLeft   = 0x00
	AlignCenter = 0x01
	AlignRight  = 0x02
)

// Align builds the justification command (ESC a n).
func Align(n byte) []byte {
	return []byte{0x1B, 0x61, n}
}

// SelectCodepage builds the character code table command (ESC t n).
func SelectCodepage(id byte) []byte {
	return []byte{0x1B, 0x74, id}
}

// Status response bitmasks.
const (
	// OfflineBit is set in the DLE EOT 1 response when the device is offline.
	OfflineBit = 0x08

	// PaperOutBits are set in the DLE EOT 4 response when the paper sensors
	// report paper near-end or paper-out.
	PaperOutBits = 0x60
)

// DecodeOffline reports whether the DLE EOT 1 response byte marks the
// device offline.
func DecodeOffline(b byte) bool {
	return b&OfflineBit != 0
}

// DecodePaperOut reports whether the DLE EOT 4 response byte marks the
// paper sensors as triggered.
func DecodePaperOut(b byte) bool {
	return b&PaperOutBits != 0
}

// CodepageFor maps a text encoding name to the printer code table id
// selected with ESC t. An unknown encoding maps to table 0 (PC437).
func CodepageFor(encoding string) byte {
	switch strings.ReplaceAll(strings.ToLower(encoding), "-", "") {
	case "cp866", "ibm866":
		return 17
	case "cp1251", "win1251", "windows1251":
		return 73
	case "pc437":
		return 0
	default:
		return 0
	}
}
