// Package model holds the indexer's core data types: the raw Op
// variants an edit carries, the normalized ValueOp/RelationOp results
// of squashing, and the block-scoped types the preprocessor and
// dispatcher pass between them.
package model

// OpKind discriminates the tagged Op variants an edit carries in
// declaration order.
type OpKind int

const (
	OpUpdateEntity OpKind = iota
	OpUnsetEntityValues
	OpCreateRelation
	OpUpdateRelation
	OpUnsetRelationFields
	OpDeleteRelation
	OpDeleteEntity
)

// ValueEntry is one (property, value) pair carried by an UpdateEntity
// op; an UpdateEntity may carry several.
type ValueEntry struct {
	PropertyID string
	Value      string
	Language   *string
	Unit       *string
}

// RelationFields carries the optional relation fields that appear on
// CreateRelation and UpdateRelation ops.
type RelationFields struct {
	FromSpace   *string
	ToSpace     *string
	FromVersion *string
	ToVersion   *string
	Position    *string
	Verified    *bool
}

// UnsetFlags marks which optional relation fields an UnsetRelationFields
// op clears. A true flag means "clear this field"; false/absent means
// "leave it alone".
type UnsetFlags struct {
	FromSpace   bool
	ToSpace     bool
	FromVersion bool
	ToVersion   bool
	Position    bool
	Verified    bool
}

// Op is one raw mutation instruction inside an edit, in the order the
// edit declares it. Exactly one of the typed fields is populated,
// selected by Kind.
type Op struct {
	Kind OpKind

	// OpUpdateEntity
	EntityID string
	Values   []ValueEntry

	// OpUnsetEntityValues (EntityID above, PropertyIDs below)
	PropertyIDs []string

	// OpCreateRelation / OpUpdateRelation / OpUnsetRelationFields / OpDeleteRelation
	RelationID string

	// RelationEntity is the entity that represents this relation as a
	// node (the wire payload's own "entity" field), distinct from
	// RelationID, which keys squash/merge and storage. Only carried on
	// OpCreateRelation.
	RelationEntity string
	TypeID         string
	FromEntity     string
	ToEntity       string
	Fields         RelationFields
	Unset          UnsetFlags

	// OpDeleteEntity reuses EntityID above.
}
