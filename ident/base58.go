package ident

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// base58Alphabet is the Bitcoin-style alphabet the spec mandates:
// no 0, O, I, or l, to avoid visual ambiguity in URLs.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var base58Index = func() map[byte]int64 {
	m := make(map[byte]int64, len(base58Alphabet))
	for i := 0; i < len(base58Alphabet); i++ {
		m[base58Alphabet[i]] = int64(i)
	}
	return m
}()

// EncodeBase58 encodes a UUID's 128-bit value as a base58 string. No
// leading-zero padding is performed: this mirrors the source's
// behavior of treating the UUID as a plain big-endian integer.
func EncodeBase58(id uuid.UUID) string {
	n := new(big.Int).SetBytes(id[:])
	if n.Sign() == 0 {
		return ""
	}

	base := big.NewInt(58)
	mod := new(big.Int)
	var out []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// DecodeBase58 reverses EncodeBase58, returning the UUID it encodes.
func DecodeBase58(encoded string) (uuid.UUID, error) {
	n := new(big.Int)
	base := big.NewInt(58)

	for i := 0; i < len(encoded); i++ {
		idx, ok := base58Index[encoded[i]]
		if !ok {
			return uuid.UUID{}, fmt.Errorf("ident: decode base58 %q: %w", encoded, errInvalidBase58Char)
		}
		n.Mul(n, base)
		n.Add(n, big.NewInt(idx))
	}

	b := n.Bytes()
	var out [16]byte
	if len(b) > 16 {
		return uuid.UUID{}, fmt.Errorf("ident: decode base58 %q: value overflows 128 bits", encoded)
	}
	copy(out[16-len(b):], b)
	return uuid.UUID(out), nil
}

// EncodeBase58String is a convenience wrapper accepting/returning the
// hyphenated UUID string form used throughout the wire protocol.
func EncodeBase58String(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("ident: parse uuid %q: %w", id, err)
	}
	return EncodeBase58(parsed), nil
}

// DecodeBase58String decodes a base58 string back to the hyphenated
// UUID string form.
func DecodeBase58String(encoded string) (string, error) {
	id, err := DecodeBase58(encoded)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
