package ident

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ChecksumAddress returns the EIP-55 mixed-case checksum form of an
// Ethereum-style hex address. Idempotent: checksumming an already
// checksummed address returns the same string.
func ChecksumAddress(address string) string {
	lower := strings.ToLower(strings.TrimPrefix(address, "0x"))

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(lower))
	hash := hasher.Sum(nil)

	chars := []byte(lower)
	for i := 0; i < len(chars) && i < 2*len(hash); i++ {
		nibble := hash[i/2] >> 4
		if i%2 == 1 {
			nibble = hash[i/2] & 0x0f
		}
		if nibble >= 8 {
			chars[i] = toUpperASCII(chars[i])
		}
	}

	return "0x" + string(chars)
}

func toUpperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// DecodeAddress validates a 20-byte hex address (any case) and
// returns its raw bytes, or an error if it is malformed.
func DecodeAddress(address string) ([20]byte, error) {
	var out [20]byte
	trimmed := strings.TrimPrefix(address, "0x")
	b, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, err
	}
	if len(b) != 20 {
		return out, errInvalidAddressLength
	}
	copy(out[:], b)
	return out, nil
}
