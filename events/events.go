// Package events decodes one block's module output into the typed
// event groups the preprocessor consumes.
package events

import (
	"encoding/json"

	"github.com/geobrowser/kg-indexer/kgerror"
)

// EditPublished is the wire shape of one edit-content-published
// event: a dao-scoped pointer to off-chain content.
type EditPublished struct {
	DaoAddress string `json:"daoAddress"`
	ContentURI string `json:"contentUri"`
}

// SpaceCreated is the wire shape of one space-created event, prior
// to being matched with a plugin-created event.
type SpaceCreated struct {
	DaoAddress   string `json:"daoAddress"`
	SpaceAddress string `json:"spaceAddress"`
}

// GovernancePluginCreated is the wire shape of a governance
// (public-space) plugin deployment event.
type GovernancePluginCreated struct {
	DaoAddress           string `json:"daoAddress"`
	MainVotingAddress    string `json:"mainVotingAddress"`
	MemberAccessAddress  string `json:"memberAccessAddress"`
}

// PersonalPluginCreated is the wire shape of a personal-space admin
// plugin deployment event.
type PersonalPluginCreated struct {
	DaoAddress           string `json:"daoAddress"`
	PersonalAdminAddress string `json:"personalAdminAddress"`
}

// EditorAdded and MemberAdded carry one address each; InitialEditorAdded
// carries several, flattened by the preprocessor.
type EditorAdded struct {
	DaoAddress    string `json:"daoAddress"`
	EditorAddress string `json:"editorAddress"`
}

type InitialEditorAdded struct {
	DaoAddress string   `json:"daoAddress"`
	Addresses  []string `json:"addresses"`
}

type MemberAdded struct {
	DaoAddress   string `json:"daoAddress"`
	MemberAddress string `json:"memberAddress"`
}

type EditorRemoved struct {
	DaoAddress    string `json:"daoAddress"`
	EditorAddress string `json:"editorAddress"`
}

type MemberRemoved struct {
	DaoAddress    string `json:"daoAddress"`
	MemberAddress string `json:"memberAddress"`
}

// Output is the full set of typed event groups one block's module
// output carries. All fields may be empty; absence of a field means
// no events of that kind fired in this block.
type Output struct {
	EditsPublished          []EditPublished           `json:"editsPublished"`
	SpacesCreated            []SpaceCreated            `json:"spacesCreated"`
	GovernancePluginsCreated []GovernancePluginCreated `json:"governancePluginsCreated"`
	PersonalPluginsCreated   []PersonalPluginCreated   `json:"personalPluginsCreated"`
	EditorsAdded             []EditorAdded             `json:"editorsAdded"`
	InitialEditorsAdded      []InitialEditorAdded      `json:"initialEditorsAdded"`
	MembersAdded             []MemberAdded             `json:"membersAdded"`
	EditorsRemoved           []EditorRemoved           `json:"editorsRemoved"`
	MembersRemoved           []MemberRemoved           `json:"membersRemoved"`
}

// Decode parses raw module output bytes into an Output. A malformed
// payload is fatal for the block per spec.
func Decode(raw []byte) (Output, error) {
	var out Output
	if err := json.Unmarshal(raw, &out); err != nil {
		return Output{}, kgerror.New(kgerror.CodeDecode, "events.Decode", err)
	}
	return out, nil
}
