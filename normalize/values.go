// Package normalize implements the squash algebra: collapsing one
// edit's ops, in declaration order, into the minimal final set of
// value and relation changes the storage layer needs to apply.
package normalize

import (
	"strings"
	"unicode/utf8"

	"github.com/geobrowser/kg-indexer/ident"
	"github.com/geobrowser/kg-indexer/model"
)

// sanitizeUTF8 replaces invalid UTF-8 with the Unicode replacement
// character instead of rejecting the value outright.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := sanitizeUTF8(*s)
	return &v
}

// squashValues collapses every UpdateEntity/UnsetEntityValues op in
// ops into a map keyed by derived value id. A later op for the same
// key entirely replaces the earlier one.
func squashValues(spaceID string, ops []model.Op) map[string]model.ValueOp {
	result := make(map[string]model.ValueOp)

	for _, op := range ops {
		switch op.Kind {
		case model.OpUpdateEntity:
			for _, v := range op.Values {
				id := ident.ValueID(op.EntityID, v.PropertyID, spaceID)
				result[id] = model.ValueOp{
					DerivedID:  id,
					Change:     model.ValueSet,
					EntityID:   op.EntityID,
					PropertyID: v.PropertyID,
					SpaceID:    spaceID,
					Value:      sanitizePtr(&v.Value),
					Language:   sanitizePtr(v.Language),
					Unit:       sanitizePtr(v.Unit),
				}
			}
		case model.OpUnsetEntityValues:
			for _, propertyID := range op.PropertyIDs {
				id := ident.ValueID(op.EntityID, propertyID, spaceID)
				result[id] = model.ValueOp{
					DerivedID:  id,
					Change:     model.ValueDelete,
					EntityID:   op.EntityID,
					PropertyID: propertyID,
					SpaceID:    spaceID,
				}
			}
		}
	}

	return result
}

// partitionValues splits a squashed value map into its SET and
// DELETE results.
func partitionValues(squashed map[string]model.ValueOp) (sets []model.ValueOp, deletes []string) {
	for id, v := range squashed {
		switch v.Change {
		case model.ValueSet:
			sets = append(sets, v)
		case model.ValueDelete:
			deletes = append(deletes, id)
		}
	}
	return sets, deletes
}
