package model

// Edit is a content-addressed envelope holding an ordered sequence of
// ops. Its effects on the knowledge graph are scoped to one space.
type Edit struct {
	ID       string
	Name     string
	Authors  []string
	Language *string
	Ops      []Op
}

// PreprocessedEdit is the result of resolving one edit's
// content-addressed URI through the side cache. IsErrored=true means
// the fetch or decode failed permanently and Edit is nil.
type PreprocessedEdit struct {
	Edit      *Edit
	IsErrored bool
	SpaceID   string
}

// NormalizedEdit is the squash result for one edit: the final value
// and relation ops, plus every entity id the edit touched (subject or
// relation endpoint), deduplicated.
type NormalizedEdit struct {
	SpaceID string

	ValueSets    []ValueOp
	ValueDeletes []string

	RelationSets    []RelationOp
	RelationUpdates []RelationOp
	RelationUnsets  []RelationOp
	RelationDeletes []string

	SeenEntities []string
}
