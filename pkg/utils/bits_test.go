package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllOnes(t *testing.T) {
	assert.Equal(t, uint32(0), AllOnes[uint32](0))
	assert.Equal(t, uint32(0b111), AllOnes[uint32](3))
	assert.Equal(t, uint16(0xffff), AllOnes[uint16](16))
}

func TestBitView_ReadWrite(t *testing.T) {
	var value uint32
	view := CreateBitView(&value)

	view.Write(0b101, 4, 3)
	assert.Equal(t, uint32(0b101_0000), view.Value())
	assert.Equal(t, uint32(0b101), view.Read(4, 3))

	view.SetBit(0)
	assert.Equal(t, uint32(0b101_0001), view.Value())

	view.SetBits(8, 2)
	assert.Equal(t, uint32(0b11_0101_0001), view.Value())
}

func TestBitView_WriteTruncatesValue(t *testing.T) {
	var value uint32
	view := CreateBitView(&value)

	view.Write(0b1111, 12, 2)
	assert.Equal(t, uint32(0b11), view.Read(12, 2))
	assert.Equal(t, uint32(0), view.Read(14, 2))
}
