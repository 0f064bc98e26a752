package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullLifecycle(t *testing.T) {
	n := NewNull()
	assert.False(t, n.IsOpen())

	// Writes before open fail
	_, err := n.Write([]byte{0x1B, 0x40})
	assert.Error(t, err)

	require.NoError(t, n.Open())
	assert.True(t, n.IsOpen())

	written, err := n.Write([]byte{0x1B, 0x40})
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	assert.Equal(t, []byte{0x1B, 0x40}, n.Bytes())

	require.NoError(t, n.Close())
	assert.False(t, n.IsOpen())
}

func TestNullReadWithoutScript(t *testing.T) {
	n := NewNull()
	require.NoError(t, n.Open())

	// A silent printer: timeout, zero bytes, no fault
	b, err := n.ReadRaw(1, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestNullScriptedResponses(t *testing.T) {
	n := NewNull()
	require.NoError(t, n.Open())

	n.QueueResponse([]byte{0x08})
	n.QueueResponse([]byte{0x60, 0x01})

	b, err := n.ReadRaw(1, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08}, b)

	// Responses are truncated to the requested count
	b, err = n.ReadRaw(1, time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60}, b)

	// Queue exhausted, back to silence
	b, err = n.ReadRaw(1, time.Second)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestNullReset(t *testing.T) {
	n := NewNull()
	require.NoError(t, n.Open())

	_, err := n.Write([]byte("receipt"))
	require.NoError(t, err)
	n.QueueResponse([]byte{0x00})

	n.Reset()
	assert.Empty(t, n.Bytes())

	b, err := n.ReadRaw(1, time.Second)
	require.NoError(t, err)
	assert.Empty(t, b)
}
