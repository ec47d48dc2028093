package model

// SpaceKind distinguishes the two plugin capability sets a space can
// have: governance (public) or personal-admin.
type SpaceKind int

const (
	SpacePublic SpaceKind = iota
	SpacePersonal
)

// Space is a governance unit identified by a UUID derived from
// (network, dao-address). Its Kind determines which of the
// kind-specific fields below are meaningful.
type Space struct {
	ID         string
	Kind       SpaceKind
	DaoAddress string
	Address    string

	// SpacePublic only
	MainVotingPluginAddress   string
	MembershipPluginAddress   string

	// SpacePersonal only
	PersonalAdminPluginAddress string
}
