package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUintBinary(t *testing.T) {
	assert.Equal(t, "00000101", FormatUintBinary(5, 8))
	assert.Equal(t, "1111", FormatUintBinary(15, 4))
	assert.Equal(t, "0000000000000000", FormatUintBinary(0, 16))
}

func TestFormatUintHex(t *testing.T) {
	assert.Equal(t, "0x00ff", FormatUintHex(255, 4))
	assert.Equal(t, "0xfe00707f", FormatUintHex(0xfe00707f, 8))
	assert.Equal(t, "0x0000", FormatUintHex(0, 4))
}

func TestFormatSlice(t *testing.T) {
	assert.Equal(t, "rd, rs1, rs2", FormatSlice([]string{"rd", "rs1", "rs2"}, ", "))
	assert.Equal(t, "1-2-3", FormatSlice([]int{1, 2, 3}, "-"))
	assert.Equal(t, "", FormatSlice([]string{}, ", "))
}
