package storage

import (
	"context"

	"github.com/geobrowser/kg-indexer/model"
)

// InsertSpaces upserts spaces by id. Personal-only and public-only
// plugin addresses are stored as nullable columns since a row
// populates only the fields for its own Kind.
func (p *Postgres) InsertSpaces(ctx context.Context, spaces []model.Space) error {
	if len(spaces) == 0 {
		return nil
	}

	ids := make([]string, len(spaces))
	kinds := make([]int16, len(spaces))
	daoAddresses := make([]string, len(spaces))
	addresses := make([]string, len(spaces))
	mainVotingAddrs := make([]*string, len(spaces))
	membershipAddrs := make([]*string, len(spaces))
	personalAdminAddrs := make([]*string, len(spaces))

	for i, s := range spaces {
		ids[i] = s.ID
		kinds[i] = int16(s.Kind)
		daoAddresses[i] = s.DaoAddress
		addresses[i] = s.Address
		if s.Kind == model.SpacePublic {
			mainVotingAddrs[i] = &spaces[i].MainVotingPluginAddress
			membershipAddrs[i] = &spaces[i].MembershipPluginAddress
		} else {
			personalAdminAddrs[i] = &spaces[i].PersonalAdminPluginAddress
		}
	}

	return p.exec(ctx, "storage.InsertSpaces", `
		INSERT INTO spaces (id, kind, dao_address, address, main_voting_plugin_address, membership_plugin_address, personal_admin_plugin_address)
		SELECT * FROM UNNEST($1::uuid[], $2::smallint[], $3::text[], $4::text[], $5::text[], $6::text[], $7::text[])
		ON CONFLICT (id) DO NOTHING
	`, ids, kinds, daoAddresses, addresses, mainVotingAddrs, membershipAddrs, personalAdminAddrs)
}
