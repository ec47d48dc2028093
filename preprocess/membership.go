package preprocess

import (
	"github.com/geobrowser/kg-indexer/events"
	"github.com/geobrowser/kg-indexer/ident"
	"github.com/geobrowser/kg-indexer/model"
)

func mapAddedEditors(network string, editors []events.EditorAdded, initial []events.InitialEditorAdded) []model.MembershipAssertion {
	var result []model.MembershipAssertion

	for _, e := range editors {
		result = append(result, model.MembershipAssertion{
			SpaceID: ident.DeriveSpaceID(network, e.DaoAddress).String(),
			Address: ident.ChecksumAddress(e.EditorAddress),
			Role:    model.RoleEditor,
		})
	}

	for _, e := range initial {
		spaceID := ident.DeriveSpaceID(network, e.DaoAddress).String()
		for _, address := range e.Addresses {
			result = append(result, model.MembershipAssertion{
				SpaceID: spaceID,
				Address: ident.ChecksumAddress(address),
				Role:    model.RoleEditor,
			})
		}
	}

	return result
}

func mapRemovedEditors(network string, editors []events.EditorRemoved) []model.MembershipAssertion {
	var result []model.MembershipAssertion
	for _, e := range editors {
		result = append(result, model.MembershipAssertion{
			SpaceID: ident.DeriveSpaceID(network, e.DaoAddress).String(),
			Address: ident.ChecksumAddress(e.EditorAddress),
			Role:    model.RoleEditor,
		})
	}
	return result
}

func mapAddedMembers(network string, members []events.MemberAdded) []model.MembershipAssertion {
	var result []model.MembershipAssertion
	for _, m := range members {
		result = append(result, model.MembershipAssertion{
			SpaceID: ident.DeriveSpaceID(network, m.DaoAddress).String(),
			Address: ident.ChecksumAddress(m.MemberAddress),
			Role:    model.RoleMember,
		})
	}
	return result
}

func mapRemovedMembers(network string, members []events.MemberRemoved) []model.MembershipAssertion {
	var result []model.MembershipAssertion
	for _, m := range members {
		result = append(result, model.MembershipAssertion{
			SpaceID: ident.DeriveSpaceID(network, m.DaoAddress).String(),
			Address: ident.ChecksumAddress(m.MemberAddress),
			Role:    model.RoleMember,
		})
	}
	return result
}
