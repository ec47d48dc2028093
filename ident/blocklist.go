package ident

import "strings"

// blockedDaoAddresses lowercases and matches exactly; entries are a
// known set of test/spam spaces excluded from ingestion.
var blockedDaoAddresses = map[string]struct{}{
	"0x22238cd64d914583f06223adfe9cddf9b45d1971": {},
}

// IsBlockedDao reports whether daoAddress (any case) is in the
// compile-time blocklist.
func IsBlockedDao(daoAddress string) bool {
	_, ok := blockedDaoAddresses[strings.ToLower(daoAddress)]
	return ok
}
