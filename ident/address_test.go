package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumAddress(t *testing.T) {
	t.Run("lowercase input", func(t *testing.T) {
		got := ChecksumAddress("0x5a0b54d5dc17e0aadc383d2db43b0a0d3e029c4c")
		assert.Equal(t, "0x5A0b54D5dc17e0AadC383d2db43B0a0D3E029c4c", got)
	})

	t.Run("idempotent on already-checksummed input", func(t *testing.T) {
		checksummed := ChecksumAddress("0x5a0b54d5dc17e0aadc383d2db43b0a0d3e029c4c")
		assert.Equal(t, checksummed, ChecksumAddress(checksummed))
	})

	t.Run("mixed case normalizes to the same checksum", func(t *testing.T) {
		a := ChecksumAddress("0xFB6916095CA1DF60BB79CE92CE3EA74C37C5D359")
		b := ChecksumAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359")
		assert.Equal(t, a, b)
		assert.Equal(t, "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359", a)
	})
}

func TestDecodeAddress(t *testing.T) {
	t.Run("valid address", func(t *testing.T) {
		b, err := DecodeAddress("0x5a0b54d5dc17e0aadc383d2db43b0a0d3e029c4c")
		assert.NoError(t, err)
		assert.Len(t, b, 20)
	})

	t.Run("wrong length rejected", func(t *testing.T) {
		_, err := DecodeAddress("0x1234")
		assert.Error(t, err)
	})

	t.Run("invalid hex rejected", func(t *testing.T) {
		_, err := DecodeAddress("0xzzzz54d5dc17e0aadc383d2db43b0a0d3e029c4c")
		assert.Error(t, err)
	})
}
