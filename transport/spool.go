package transport

import (
	"fmt"
	"io"
	"os/exec"
	"time"
)

// Spool is a transport through the OS print spooler. It pipes raw bytes
// into the spooler front-end (CUPS lp in raw mode), which queues them to
// the named printer. The spooler offers no response channel, so reads
// always behave like a silent printer.
type Spool struct {
	printerName string
	cmd         *exec.Cmd
	stdin       io.WriteCloser
}

// NewSpool creates a spool transport for the named OS printer.
func NewSpool(printerName string) *Spool {
	return &Spool{printerName: printerName}
}

func (s *Spool) Open() error {
	cmd := exec.Command("lp", "-d", s.printerName, "-o", "raw", "-s", "--")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open spool pipe for %s: %w", s.printerName, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start spooler for %s: %w", s.printerName, err)
	}
	s.cmd = cmd
	s.stdin = stdin
	return nil
}

func (s *Spool) Write(p []byte) (int, error) {
	if s.stdin == nil {
		return 0, fmt.Errorf("spool handle for %s not open", s.printerName)
	}
	n, err := s.stdin.Write(p)
	if err != nil {
		return n, fmt.Errorf("spool write failed: %w", err)
	}
	return n, nil
}

func (s *Spool) ReadRaw(n int, timeout time.Duration) ([]byte, error) {
	if s.stdin == nil {
		return nil, fmt.Errorf("spool handle for %s not open", s.printerName)
	}
	return nil, nil
}

func (s *Spool) FlushInput() error { return nil }

func (s *Spool) Close() error {
	if s.stdin == nil {
		return nil
	}
	err := s.stdin.Close()
	if waitErr := s.cmd.Wait(); err == nil {
		err = waitErr
	}
	s.stdin = nil
	s.cmd = nil
	return err
}

func (s *Spool) IsOpen() bool {
	return s.stdin != nil
}
