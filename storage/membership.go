package storage

import "context"

func (p *Postgres) InsertMembers(ctx context.Context, members []MemberItem) error {
	return p.upsertMembership(ctx, "storage.InsertMembers", "members", members)
}

func (p *Postgres) RemoveMembers(ctx context.Context, members []MemberItem) error {
	return p.deleteMembership(ctx, "storage.RemoveMembers", "members", members)
}

func (p *Postgres) InsertEditors(ctx context.Context, editors []EditorItem) error {
	return p.upsertMembership(ctx, "storage.InsertEditors", "editors", editors)
}

func (p *Postgres) RemoveEditors(ctx context.Context, editors []EditorItem) error {
	return p.deleteMembership(ctx, "storage.RemoveEditors", "editors", editors)
}

func (p *Postgres) upsertMembership(ctx context.Context, op, table string, items []MemberItem) error {
	if len(items) == 0 {
		return nil
	}

	spaceIDs := make([]string, len(items))
	addresses := make([]string, len(items))
	for i, m := range items {
		spaceIDs[i] = m.SpaceID
		addresses[i] = m.Address
	}

	return p.exec(ctx, op, `
		INSERT INTO `+table+` (space_id, address)
		SELECT * FROM UNNEST($1::uuid[], $2::text[])
		ON CONFLICT (space_id, address) DO NOTHING
	`, spaceIDs, addresses)
}

func (p *Postgres) deleteMembership(ctx context.Context, op, table string, items []MemberItem) error {
	if len(items) == 0 {
		return nil
	}

	spaceIDs := make([]string, len(items))
	addresses := make([]string, len(items))
	for i, m := range items {
		spaceIDs[i] = m.SpaceID
		addresses[i] = m.Address
	}

	return p.exec(ctx, op, `
		DELETE FROM `+table+` AS t
		USING UNNEST($1::uuid[], $2::text[]) AS u(space_id, address)
		WHERE t.space_id = u.space_id AND t.address = u.address
	`, spaceIDs, addresses)
}
