package transport

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Network is a transport over a raw TCP socket, the JetDirect-style
// port 9100 channel most network receipt printers expose.
type Network struct {
	host    string
	port    int
	timeout time.Duration
	conn    net.Conn
}

// NewNetwork creates a TCP transport. The connection is dialed by Open.
func NewNetwork(host string, port int, timeout time.Duration) *Network {
	if port == 0 {
		port = 9100
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Network{host: host, port: port, timeout: timeout}
}

func (t *Network) addr() string {
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}

func (t *Network) Open() error {
	conn, err := net.DialTimeout("tcp", t.addr(), t.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", t.addr(), err)
	}
	t.conn = conn
	return nil
}

func (t *Network) Write(p []byte) (int, error) {
	if t.conn == nil {
		return 0, fmt.Errorf("connection to %s not open", t.addr())
	}
	if err := t.conn.SetWriteDeadline(time.Now().Add(t.timeout)); err != nil {
		return 0, fmt.Errorf("network write setup failed: %w", err)
	}
	n, err := t.conn.Write(p)
	if err != nil {
		return n, fmt.Errorf("network write failed: %w", err)
	}
	return n, nil
}

func (t *Network) ReadRaw(n int, timeout time.Duration) ([]byte, error) {
	if t.conn == nil {
		return nil, fmt.Errorf("connection to %s not open", t.addr())
	}
	if timeout == 0 {
		timeout = t.timeout
	}
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("network read setup failed: %w", err)
	}

	buf := make([]byte, n)
	got, err := t.conn.Read(buf)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			// No response within the deadline, not a broken socket.
			return nil, nil
		}
		return nil, fmt.Errorf("network read failed: %w", err)
	}
	return buf[:got], nil
}

func (t *Network) FlushInput() error {
	if t.conn == nil {
		return nil
	}
	// Drain whatever arrived unrequested, without waiting for more.
	if err := t.conn.SetReadDeadline(time.Now().Add(time.Millisecond)); err != nil {
		return err
	}
	buf := make([]byte, 256)
	for {
		n, err := t.conn.Read(buf)
		if err != nil || n == 0 {
			return nil
		}
	}
}

func (t *Network) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

func (t *Network) IsOpen() bool {
	return t.conn != nil
}
