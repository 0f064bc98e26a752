package printer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nixxel-company-limited/escpos-print-daemon/transport"
)

func serialTestConfig(baud int) SerialConfig {
	return SerialConfig{
		Port:     "/dev/ttyUSB0",
		BaudRate: baud,
		DataBits: 8,
		Parity:   "N",
		StopBits: 1,
		Timeout:  time.Second,
	}
}

func TestRegistryReusesHandler(t *testing.T) {
	stubTransports(t, func(Config) (transport.Transport, error) {
		return &mockTransport{}, nil
	})
	reg := NewRegistry(zaptest.NewLogger(t))
	defer reg.CloseAll()

	first, err := reg.Get(serialTestConfig(9600))
	require.NoError(t, err)
	second, err := reg.Get(serialTestConfig(9600))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, reg.Len())
	// The cached transport was not reopened
	assert.Equal(t, 1, first.Transport().(*mockTransport).opens)
}

func TestRegistryConfigDriftReplacesHandler(t *testing.T) {
	stubTransports(t, func(Config) (transport.Transport, error) {
		return &mockTransport{}, nil
	})
	reg := NewRegistry(zaptest.NewLogger(t))
	defer reg.CloseAll()

	first, err := reg.Get(serialTestConfig(9600))
	require.NoError(t, err)
	old := first.Transport().(*mockTransport)

	// Same port, different baudrate: same endpoint, drifted config
	second, err := reg.Get(serialTestConfig(115200))
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, reg.Len())
	assert.False(t, old.IsOpen())
	assert.False(t, first.Connected())
	assert.True(t, second.Connected())
}

func TestRegistryDistinctEndpoints(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	defer reg.CloseAll()

	stubTransports(t, func(Config) (transport.Transport, error) {
		return &mockTransport{}, nil
	})

	_, err := reg.Get(NetworkConfig{Host: "10.0.0.1"})
	require.NoError(t, err)
	_, err = reg.Get(NetworkConfig{Host: "10.0.0.2"})
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
}

func TestRegistryReconnectsClosedHandler(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	defer reg.CloseAll()

	h, err := reg.Get(NullConfig{})
	require.NoError(t, err)
	h.Close()

	again, err := reg.Get(NullConfig{})
	require.NoError(t, err)
	assert.Same(t, h, again)
	assert.True(t, again.Connected())
}

func TestRegistryConnectFailureIsNotCached(t *testing.T) {
	stubTransports(t, func(Config) (transport.Transport, error) {
		return &mockTransport{openErr: errors.New("no device")}, nil
	})
	reg := NewRegistry(zaptest.NewLogger(t))

	_, err := reg.Get(serialTestConfig(9600))
	var ce *ConnectError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 0, reg.Len())
}

func TestCloseAll(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))

	h, err := reg.Get(NullConfig{})
	require.NoError(t, err)
	sink := h.Transport().(*transport.Null)

	reg.CloseAll()
	assert.Equal(t, 0, reg.Len())
	assert.False(t, h.Connected())
	assert.False(t, sink.IsOpen())
}

func TestPrintJobFaultClosesHandler(t *testing.T) {
	// Connect reset and the first task's codepage select succeed, then
	// the line dies.
	m := &mockTransport{failAfterN: 2}
	stubTransports(t, func(Config) (transport.Transport, error) { return m, nil })
	reg := NewRegistry(zaptest.NewLogger(t))

	profile := Profile{PrinterTotalChars: 32, PaperWidthChars: 32, Encoding: "cp866"}
	err := reg.PrintJob(NetworkConfig{Host: "10.0.0.5"}, profile, []Task{
		TextTask{Align: AlignLeft, Value: "hello"},
	})

	var fault *IOFault
	require.ErrorAs(t, err, &fault)

	h, ok := reg.handlers["network:10.0.0.5:9100"]
	require.True(t, ok)
	assert.False(t, h.Connected())
}

func TestCheckStatusRetriesOnceAfterFault(t *testing.T) {
	// First transport degrades on read; the replacement answers.
	attempts := 0
	stubTransports(t, func(Config) (transport.Transport, error) {
		attempts++
		if attempts == 1 {
			return &mockTransport{readErr: errors.New("stale socket")}, nil
		}
		return &mockTransport{responses: [][]byte{{0x00}, {0x00}}}, nil
	})
	reg := NewRegistry(zaptest.NewLogger(t))
	reg.SetSettleDelay(time.Millisecond)

	status, err := reg.CheckStatus(NetworkConfig{Host: "10.0.0.7"})
	require.NoError(t, err)
	assert.True(t, status.Ready)
	assert.Equal(t, 2, attempts)
}

func TestCheckStatusKeepsDegradedRecordWhenRetryFails(t *testing.T) {
	stubTransports(t, func(Config) (transport.Transport, error) {
		return &mockTransport{readErr: errors.New("dead line")}, nil
	})
	reg := NewRegistry(zaptest.NewLogger(t))
	reg.SetSettleDelay(time.Millisecond)

	status, err := reg.CheckStatus(NetworkConfig{Host: "10.0.0.8"})
	require.NoError(t, err)
	assert.False(t, status.Ready)
	assert.Equal(t, "IO Error", status.Error)
}
