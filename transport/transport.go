// Package transport abstracts the physical byte channel to a receipt
// printer. Every variant implements the same capability set; methods that
// have no meaning for a given medium are no-ops rather than errors.
package transport

import "time"

// Transport is the interface all printer byte channels implement.
type Transport interface {
	// Open opens the channel to the printer.
	Open() error

	// Write sends raw bytes to the printer.
	Write(p []byte) (int, error)

	// ReadRaw reads up to n response bytes, waiting at most timeout.
	// A timeout with no data is not a fault: it returns an empty slice
	// and a nil error. A non-nil error means the channel is broken.
	ReadRaw(n int, timeout time.Duration) ([]byte, error)

	// FlushInput discards any buffered, unread response bytes.
	FlushInput() error

	// Close closes the channel.
	Close() error

	// IsOpen returns whether the channel is open.
	IsOpen() bool
}
