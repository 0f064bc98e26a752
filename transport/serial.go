package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// SerialOptions describes a serial line to a printer.
type SerialOptions struct {
	Port     string // e.g. /dev/ttyUSB0, COM3
	BaudRate int
	DataBits int
	Parity   string // N, E, O, M, S
	StopBits int    // 1 or 2
	Timeout  time.Duration
	DSRDTR   bool
}

// Serial is a transport over a serial line.
type Serial struct {
	opts SerialOptions
	port serial.Port
}

// NewSerial creates a serial transport. The port is opened by Open.
func NewSerial(opts SerialOptions) *Serial {
	if opts.BaudRate == 0 {
		opts.BaudRate = 9600
	}
	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second
	}
	return &Serial{opts: opts}
}

func parityMode(p string) (serial.Parity, error) {
	switch p {
	case "", "N":
		return serial.NoParity, nil
	case "E":
		return serial.EvenParity, nil
	case "O":
		return serial.OddParity, nil
	case "M":
		return serial.MarkParity, nil
	case "S":
		return serial.SpaceParity, nil
	}
	return serial.NoParity, fmt.Errorf("unknown parity %q", p)
}

func stopBitsMode(n int) (serial.StopBits, error) {
	switch n {
	case 0, 1:
		return serial.OneStopBit, nil
	case 2:
		return serial.TwoStopBits, nil
	}
	return serial.OneStopBit, fmt.Errorf("unsupported stop bits %d", n)
}

func (s *Serial) Open() error {
	parity, err := parityMode(s.opts.Parity)
	if err != nil {
		return err
	}
	stopBits, err := stopBitsMode(s.opts.StopBits)
	if err != nil {
		return err
	}

	mode := &serial.Mode{
		BaudRate: s.opts.BaudRate,
		DataBits: s.opts.DataBits,
		Parity:   parity,
		StopBits: stopBits,
	}

	port, err := serial.Open(s.opts.Port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.opts.Port, err)
	}

	if s.opts.DSRDTR {
		// Some printers hold data until DTR is asserted.
		if err := port.SetDTR(true); err != nil {
			port.Close()
			return fmt.Errorf("failed to assert DTR on %s: %w", s.opts.Port, err)
		}
	}

	s.port = port
	return nil
}

func (s *Serial) Write(p []byte) (int, error) {
	if s.port == nil {
		return 0, fmt.Errorf("serial port %s not open", s.opts.Port)
	}
	n, err := s.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("serial write failed: %w", err)
	}
	return n, nil
}

func (s *Serial) ReadRaw(n int, timeout time.Duration) ([]byte, error) {
	if s.port == nil {
		return nil, fmt.Errorf("serial port %s not open", s.opts.Port)
	}
	if timeout == 0 {
		timeout = s.opts.Timeout
	}
	if err := s.port.SetReadTimeout(timeout); err != nil {
		return nil, fmt.Errorf("serial read setup failed: %w", err)
	}

	buf := make([]byte, n)
	// go.bug.st/serial returns 0 bytes and a nil error on timeout.
	got, err := s.port.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("serial read failed: %w", err)
	}
	return buf[:got], nil
}

func (s *Serial) FlushInput() error {
	if s.port == nil {
		return nil
	}
	return s.port.ResetInputBuffer()
}

func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

func (s *Serial) IsOpen() bool {
	return s.port != nil
}
