package preprocess

import (
	"github.com/geobrowser/kg-indexer/events"
	"github.com/geobrowser/kg-indexer/ident"
	"github.com/geobrowser/kg-indexer/model"
)

// matchSpacesWithPlugins matches each created space to a plugin
// event sharing its dao address. Governance (public) wins on tie; a
// space with no matching plugin in this block is dropped.
func matchSpacesWithPlugins(network string, spaces []events.SpaceCreated, governance []events.GovernancePluginCreated, personal []events.PersonalPluginCreated) []model.Space {
	var result []model.Space

	for _, s := range spaces {
		if gp, ok := findGovernancePlugin(governance, s.DaoAddress); ok {
			result = append(result, model.Space{
				ID:                      ident.DeriveSpaceID(network, s.DaoAddress).String(),
				Kind:                    model.SpacePublic,
				DaoAddress:              s.DaoAddress,
				Address:                 s.SpaceAddress,
				MainVotingPluginAddress: gp.MainVotingAddress,
				MembershipPluginAddress: gp.MemberAccessAddress,
			})
			continue
		}

		if pp, ok := findPersonalPlugin(personal, s.DaoAddress); ok {
			result = append(result, model.Space{
				ID:                         ident.DeriveSpaceID(network, s.DaoAddress).String(),
				Kind:                       model.SpacePersonal,
				DaoAddress:                 s.DaoAddress,
				Address:                    s.SpaceAddress,
				PersonalAdminPluginAddress: pp.PersonalAdminAddress,
			})
			continue
		}

		// No matching plugin in this block: the space is dropped and
		// is not kept for matching against later blocks.
	}

	return result
}

func findGovernancePlugin(plugins []events.GovernancePluginCreated, daoAddress string) (events.GovernancePluginCreated, bool) {
	for _, p := range plugins {
		if p.DaoAddress == daoAddress {
			return p, true
		}
	}
	return events.GovernancePluginCreated{}, false
}

func findPersonalPlugin(plugins []events.PersonalPluginCreated, daoAddress string) (events.PersonalPluginCreated, bool) {
	for _, p := range plugins {
		if p.DaoAddress == daoAddress {
			return p, true
		}
	}
	return events.PersonalPluginCreated{}, false
}
