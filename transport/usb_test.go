package transport

import (
	"testing"
	"time"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPrinterNilDevice(t *testing.T) {
	assert.False(t, isPrinter(nil))
}

func TestUSBNotOpen(t *testing.T) {
	u := NewUSB(0x04b8, 0x0202)
	assert.False(t, u.IsOpen())

	_, err := u.Write([]byte{0x1B, 0x40})
	assert.ErrorContains(t, err, "not open")

	_, err = u.ReadRaw(1, time.Millisecond)
	assert.ErrorContains(t, err, "not open")

	assert.NoError(t, u.FlushInput())
	assert.NoError(t, u.Close())
}

func TestFindPrinter(t *testing.T) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	dev, err := findPrinter(ctx)
	if err != nil {
		t.Skip("No USB printer found, skipping test")
	}
	defer dev.Close()

	assert.True(t, isPrinter(dev))
}

func TestUSBOpenClose(t *testing.T) {
	u := NewUSB(0, 0)
	if err := u.Open(); err != nil {
		t.Skip("No USB printer found, skipping test")
	}
	defer u.Close()

	assert.True(t, u.IsOpen())

	// Open is idempotent
	require.NoError(t, u.Open())

	require.NoError(t, u.Close())
	assert.False(t, u.IsOpen())

	// Double close should not error
	assert.NoError(t, u.Close())
}

func TestUSBWrite(t *testing.T) {
	u := NewUSB(0, 0)
	if err := u.Open(); err != nil {
		t.Skip("No USB printer found, skipping test")
	}
	defer u.Close()

	data := []byte{0x1B, 0x40} // ESC @ (Initialize printer)
	n, err := u.Write(data)
	assert.NoError(t, err)
	assert.Equal(t, len(data), n)
}
