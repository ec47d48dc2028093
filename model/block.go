package model

import "time"

// BlockMetadata identifies a block's stream position, number, and
// timestamp. Cursor is opaque to everything except the upstream
// stream service.
type BlockMetadata struct {
	Cursor      string
	BlockNumber uint64
	Timestamp   time.Time
}

// KgBlockData is the preprocessor's output for one block: resolved
// edits, matched spaces, and flattened membership changes. Edits has
// no defined order relative to the input (see package preprocess).
type KgBlockData struct {
	Block BlockMetadata

	Edits  []PreprocessedEdit
	Spaces []Space

	AddedEditors   []MembershipAssertion
	RemovedEditors []MembershipAssertion
	AddedMembers   []MembershipAssertion
	RemovedMembers []MembershipAssertion
}
