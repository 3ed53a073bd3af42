package user

// Principal is the authenticated caller as reported by the account
// service. Roles are opaque strings; this service only inspects them
// through CanManageRosterLocks.
type Principal struct {
	UserID string
	Alias  string
	Roles  []string
}

const RoleLeagueAdmin = "league_admin"

func (p Principal) CanManageRosterLocks() bool {
	for _, role := range p.Roles {
		if role == RoleLeagueAdmin {
			return true
		}
	}
	return false
}
