// Package printer implements the printer session layer: connection
// configs, the per-device connection handler, the process-wide handler
// registry and the task-to-byte-stream execution pipeline.
package printer

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config identifies and parameterizes one printer byte channel. Concrete
// variants are comparable value types, so two configs for the same
// endpoint can be checked for drift with plain equality.
type Config interface {
	// ResourceKey uniquely identifies the physical endpoint. Two configs
	// with the same key but unequal fields describe the same device with
	// drifted settings, not a second device.
	ResourceKey() string

	connConfig()
}

// SerialConfig connects over a serial line.
type SerialConfig struct {
	Port     string // /dev/ttyUSB0, COM3
	BaudRate int
	DataBits int
	Parity   string // N, E, O, M, S
	StopBits int
	Timeout  time.Duration
	DSRDTR   bool
}

func (c SerialConfig) ResourceKey() string { return "serial:" + c.Port }
func (SerialConfig) connConfig()           {}

// NetworkConfig connects over a raw TCP socket.
type NetworkConfig struct {
	Host    string
	Port    int // 0 means the JetDirect default 9100
	Timeout time.Duration
}

func (c NetworkConfig) ResourceKey() string {
	port := c.Port
	if port == 0 {
		port = 9100
	}
	return "network:" + net.JoinHostPort(c.Host, strconv.Itoa(port))
}
func (NetworkConfig) connConfig() {}

// SpoolConfig prints through the OS print spooler.
type SpoolConfig struct {
	PrinterName string
}

func (c SpoolConfig) ResourceKey() string { return "spool:" + c.PrinterName }
func (SpoolConfig) connConfig()           {}

// NullConfig prints into an in-memory sink. Useful for dry runs.
type NullConfig struct{}

func (NullConfig) ResourceKey() string { return "null" }
func (NullConfig) connConfig()         {}

// USBConfig connects to a USB printer-class device. A zero vid/pid
// auto-detects the first printer on the bus.
type USBConfig struct {
	VendorID  uint16
	ProductID uint16
}

func (c USBConfig) ResourceKey() string {
	return fmt.Sprintf("usb:%04x:%04x", c.VendorID, c.ProductID)
}
func (USBConfig) connConfig() {}
