package transport

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// Null is an in-memory sink transport. It accepts every write and keeps
// the bytes around for inspection, which makes it useful both for dry
// runs against no hardware and for tests. Status reads come from an
// optional scripted response queue; with no script queued, reads behave
// like a silent printer (timeout, zero bytes).
type Null struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	responses [][]byte
	open      bool
}

// NewNull creates a null transport.
func NewNull() *Null {
	return &Null{}
}

func (n *Null) Open() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.open = true
	return nil
}

func (n *Null) Write(p []byte) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.open {
		return 0, errors.New("null transport not open")
	}
	return n.buf.Write(p)
}

func (n *Null) ReadRaw(count int, timeout time.Duration) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.open {
		return nil, errors.New("null transport not open")
	}
	if len(n.responses) == 0 {
		return nil, nil
	}
	r := n.responses[0]
	n.responses = n.responses[1:]
	if len(r) > count {
		r = r[:count]
	}
	return r, nil
}

func (n *Null) FlushInput() error { return nil }

func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.open = false
	return nil
}

func (n *Null) IsOpen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.open
}

// QueueResponse scripts the payload returned by the next ReadRaw call.
func (n *Null) QueueResponse(p []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.responses = append(n.responses, append([]byte(nil), p...))
}

// Bytes returns everything written so far.
func (n *Null) Bytes() []byte {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]byte(nil), n.buf.Bytes()...)
}

// Reset discards captured output and scripted responses.
func (n *Null) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.buf.Reset()
	n.responses = nil
}
