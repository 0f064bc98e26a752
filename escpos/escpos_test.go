package escpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands(t *testing.T) {
	assert.Equal(t, []byte{0x1B, 0x40}, Reset)
	assert.Equal(t, []byte{0x10, 0x04, 0x01}, StatusOnlineQuery)
	assert.Equal(t, []byte{0x10, 0x04, 0x04}, StatusPaperQuery)
	assert.Equal(t, []byte{0x1D, 0x56, 0x01}, PartialCut)
	assert.Equal(t, []byte{0x1B, 0x61, 0x01}, Align(AlignCenter))
	assert.Equal(t, []byte{0x1B, 0x74, 0x11}, SelectCodepage(17))
}

func TestDecodeOffline(t *testing.T) {
	assert.False(t, DecodeOffline(0x00))
	assert.True(t, DecodeOffline(0x08))
	assert.True(t, DecodeOffline(0x18))
	assert.False(t, DecodeOffline(0x10))
}

func TestDecodePaperOut(t *testing.T) {
	assert.False(t, DecodePaperOut(0x00))
	assert.True(t, DecodePaperOut(0x60))
	assert.True(t, DecodePaperOut(0x20))
	assert.True(t, DecodePaperOut(0x40))
	assert.False(t, DecodePaperOut(0x08))
}

func TestCodepageFor(t *testing.T) {
	testCases := []struct {
		encoding string
		want     byte
	}{
		{"cp866", 17},
		{"CP866", 17},
		{"ibm-866", 17},
		{"cp1251", 73},
		{"windows-1251", 73},
		{"win1251", 73},
		{"pc437", 0},
		{"utf-8", 0},
		{"", 0},
	}
	for _, tc := range testCases {
		t.Run(tc.encoding, func(t *testing.T) {
			assert.Equal(t, tc.want, CodepageFor(tc.encoding))
		})
	}
}
