package ident

import "errors"

var (
	errInvalidAddressLength = errors.New("ident: address must decode to 20 bytes")
	errInvalidBase58Char    = errors.New("ident: invalid base58 character")
)
