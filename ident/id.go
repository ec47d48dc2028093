// Package ident implements the indexer's identifier codec: binary
// identifiers to canonical UUID strings, a URL-safe base58 form, and
// Ethereum-style checksum addresses, plus deterministic space id
// derivation.
package ident

import "github.com/google/uuid"

// FromBytes interprets a 16-byte slice as a UUID. Returns an error if
// the slice isn't exactly 16 bytes.
func FromBytes(b []byte) (uuid.UUID, error) {
	return uuid.FromBytes(b)
}

// ToBytes returns the canonical 16-byte binary form of a UUID.
func ToBytes(id uuid.UUID) []byte {
	b := make([]byte, 16)
	copy(b, id[:])
	return b
}

// MustParse parses a hyphenated UUID string, panicking on malformed
// input. Reserved for compile-time-known constants (tests, fixtures).
func MustParse(s string) uuid.UUID {
	return uuid.MustParse(s)
}
