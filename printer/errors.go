package printer

import (
	"errors"
	"fmt"
)

// ErrUnsupportedTransport is returned when a config variant has no
// matching transport implementation.
var ErrUnsupportedTransport = errors.New("unsupported transport")

// ConnectError reports a failed open/reset handshake. The handler is
// left disconnected; connecting is not retried automatically.
type ConnectError struct {
	Key   string
	Cause error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connection failed for %s: %v", e.Key, e.Cause)
}

func (e *ConnectError) Unwrap() error { return e.Cause }

// IOFault reports a transport failure mid-job. The job is aborted and
// the handler is closed so the next request starts from a clean
// reconnect.
type IOFault struct {
	Op    string
	Key   string
	Cause error
}

func (e *IOFault) Error() string {
	return fmt.Sprintf("printer %s failed for %s: %v", e.Op, e.Key, e.Cause)
}

func (e *IOFault) Unwrap() error { return e.Cause }
