package ident

import (
	"crypto/md5" //nolint:gosec // MD5 used for deterministic id derivation, not security
	"fmt"

	"github.com/google/uuid"
)

// DeriveSpaceID computes the deterministic space id from a network
// name and a DAO address: UUID(MD5("{network}:{checksumAddress(dao)}"))
// with the digest's version/variant bits forced the way the
// canonical system's Builder::from_random_bytes does, so the result
// is bit-exact with it rather than a raw copy of the MD5 digest. The
// DAO address is checksummed first so that callers may pass it in any
// case.
func DeriveSpaceID(network, daoAddress string) uuid.UUID {
	input := fmt.Sprintf("%s:%s", network, ChecksumAddress(daoAddress))
	sum := md5.Sum([]byte(input)) //nolint:gosec
	sum[6] = (sum[6] & 0x0f) | 0x40
	sum[8] = (sum[8] & 0x3f) | 0x80
	id, _ := uuid.FromBytes(sum[:])
	return id
}

// ValueID builds the normalized value identifier
// "{entity_id}:{property_id}:{space_id}" used to key the value squash
// map and to address rows in the values table.
func ValueID(entityID, propertyID, spaceID string) string {
	return entityID + ":" + propertyID + ":" + spaceID
}
