package printer

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nixxel-company-limited/escpos-print-daemon/escpos"
	"github.com/nixxel-company-limited/escpos-print-daemon/transport"
)

const (
	// defaultSettleDelay is how long a reconnect waits between closing
	// and re-opening, so a serial line or socket can settle.
	defaultSettleDelay = 500 * time.Millisecond

	// defaultStatusTimeout bounds each status response read.
	defaultStatusTimeout = 2 * time.Second
)

// Handler owns the single live byte channel to one printer endpoint.
// It is created by the Registry and lives until the Registry discards
// it on shutdown or config drift.
type Handler struct {
	config        Config
	tr            transport.Transport
	connected     bool
	settleDelay   time.Duration
	statusTimeout time.Duration
	log           *zap.Logger
}

// NewHandler creates a disconnected handler for the given config.
func NewHandler(config Config, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		config:        config,
		settleDelay:   defaultSettleDelay,
		statusTimeout: defaultStatusTimeout,
		log:           log.With(zap.String("printer", config.ResourceKey())),
	}
}

// Config returns the connection config this handler was built from.
func (h *Handler) Config() Config { return h.config }

// Connected reports whether the open+reset handshake has completed.
func (h *Handler) Connected() bool { return h.connected }

// Transport returns the underlying transport, nil when disconnected.
func (h *Handler) Transport() transport.Transport { return h.tr }

// newTransport constructs the transport variant matching the config.
// Indirect so tests can substitute an in-memory transport for configs
// that would otherwise need hardware.
var newTransport = buildTransport

func buildTransport(cfg Config) (transport.Transport, error) {
	switch c := cfg.(type) {
	case SerialConfig:
		return transport.NewSerial(transport.SerialOptions{
			Port:     c.Port,
			BaudRate: c.BaudRate,
			DataBits: c.DataBits,
			Parity:   c.Parity,
			StopBits: c.StopBits,
			Timeout:  c.Timeout,
			DSRDTR:   c.DSRDTR,
		}), nil
	case NetworkConfig:
		return transport.NewNetwork(c.Host, c.Port, c.Timeout), nil
	case SpoolConfig:
		return transport.NewSpool(c.PrinterName), nil
	case NullConfig:
		return transport.NewNull(), nil
	case USBConfig:
		return transport.NewUSB(c.VendorID, c.ProductID), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedTransport, cfg)
}

// Connect opens the transport and issues the device reset. It is a
// no-op when already connected. Any failure discards the partial
// transport and leaves the handler disconnected; there is no internal
// retry.
func (h *Handler) Connect() error {
	if h.connected && h.tr != nil {
		return nil
	}

	tr, err := newTransport(h.config)
	if err != nil {
		return err
	}
	if err := tr.Open(); err != nil {
		return &ConnectError{Key: h.config.ResourceKey(), Cause: err}
	}
	if _, err := tr.Write(escpos.Reset); err != nil {
		tr.Close()
		return &ConnectError{Key: h.config.ResourceKey(), Cause: err}
	}

	h.tr = tr
	h.connected = true
	h.log.Debug("printer connected")
	return nil
}

// ConnectIfNeeded connects only when not already connected.
func (h *Handler) ConnectIfNeeded() error {
	if h.connected && h.tr != nil {
		return nil
	}
	return h.Connect()
}

// Reconnect closes the channel, waits for the line to settle and
// connects again. Used after a detected I/O fault.
func (h *Handler) Reconnect() error {
	h.Close()
	time.Sleep(h.settleDelay)
	return h.Connect()
}

// Close closes the transport, swallowing close-time errors. Idempotent.
func (h *Handler) Close() {
	if h.tr != nil {
		if err := h.tr.Close(); err != nil {
			h.log.Warn("close failed", zap.Error(err))
		}
	}
	h.tr = nil
	h.connected = false
}

// SendRaw writes bytes directly to the transport. The caller must have
// connected first.
func (h *Handler) SendRaw(p []byte) error {
	if !h.connected || h.tr == nil {
		return &IOFault{Op: "write", Key: h.config.ResourceKey(), Cause: errors.New("not connected")}
	}
	if _, err := h.tr.Write(p); err != nil {
		return &IOFault{Op: "write", Key: h.config.ResourceKey(), Cause: err}
	}
	return nil
}

// QueryStatus runs the two-request real-time status exchange. It never
// returns an error: faults become a degraded StatusData, because the
// caller polls opportunistically.
func (h *Handler) QueryStatus() StatusData {
	if err := h.ConnectIfNeeded(); err != nil {
		return StatusData{Error: "IO Error", Details: err.Error()}
	}

	// Stale bytes from an earlier exchange would corrupt the decode.
	_ = h.tr.FlushInput()

	if _, err := h.tr.Write(escpos.StatusOnlineQuery); err != nil {
		return StatusData{Error: "IO Error", Details: err.Error()}
	}
	b, err := h.tr.ReadRaw(1, h.statusTimeout)
	if err != nil {
		return StatusData{Error: "IO Error", Details: err.Error()}
	}
	if len(b) == 0 {
		// Many printers only answer selectively; silence is a noisy
		// positive signal, not a fault.
		return StatusData{Ready: true, Warning: true, Details: "no response (assuming online)"}
	}
	online := !escpos.DecodeOffline(b[0])

	if _, err := h.tr.Write(escpos.StatusPaperQuery); err != nil {
		return StatusData{Error: "IO Error", Details: err.Error()}
	}
	pb, err := h.tr.ReadRaw(1, h.statusTimeout)
	if err != nil {
		return StatusData{Error: "IO Error", Details: err.Error()}
	}
	paperOut := len(pb) > 0 && escpos.DecodePaperOut(pb[0])

	return StatusData{
		Ready:    online && !paperOut,
		Online:   online,
		PaperOut: paperOut,
	}
}
