package printer

import (
	"errors"
	"testing"
	"time"

	"github.com/nixxel-company-limited/escpos-print-daemon/transport"
)

// mockTransport is a scriptable transport for failure-path tests.
type mockTransport struct {
	open       bool
	written    []byte
	responses  [][]byte
	openErr    error
	writeErr   error
	readErr    error
	failAfterN int // fail writes once this many succeeded, 0 disables
	writes     int
	opens      int
	closes     int
}

func (m *mockTransport) Open() error {
	m.opens++
	if m.openErr != nil {
		return m.openErr
	}
	m.open = true
	return nil
}

func (m *mockTransport) Write(p []byte) (int, error) {
	if !m.open {
		return 0, errors.New("mock not open")
	}
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	if m.failAfterN > 0 && m.writes >= m.failAfterN {
		return 0, errors.New("mock write fault")
	}
	m.writes++
	m.written = append(m.written, p...)
	return len(p), nil
}

func (m *mockTransport) ReadRaw(n int, timeout time.Duration) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if len(m.responses) == 0 {
		return nil, nil
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	if len(r) > n {
		r = r[:n]
	}
	return r, nil
}

func (m *mockTransport) FlushInput() error { return nil }

func (m *mockTransport) Close() error {
	m.closes++
	m.open = false
	return nil
}

func (m *mockTransport) IsOpen() bool { return m.open }

// stubTransports replaces the transport factory so every config variant
// gets the transport build returns, hardware-free.
func stubTransports(t *testing.T, build func(cfg Config) (transport.Transport, error)) {
	t.Helper()
	orig := newTransport
	newTransport = build
	t.Cleanup(func() { newTransport = orig })
}
