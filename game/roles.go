package game

// Role is what a player is told at the start of a round.
type Role string

const (
	RoleUnset   Role = ""
	RoleCitizen Role = "citizen"
	RoleSpy     Role = "spy"
)

// spyWordMask is what spies see instead of the secret word.
const spyWordMask = "???"

// effectiveSpyCount clamps the requested spy count so at least one
// citizen remains.
func effectiveSpyCount(playerCount, requested int) int {
	limit := playerCount - 1
	if limit < 0 {
		limit = 0
	}
	if requested < 0 {
		return 0
	}
	if requested > limit {
		return limit
	}
	return requested
}

// assignRoles marks everyone citizen, then repeatedly draws a uniformly
// random index and flips it to spy until the effective count is reached.
// Rejection sampling keeps every assignment of the given size equally
// likely regardless of roster order.
func assignRoles(playerCount, requestedSpies int, intn func(int) int) []Role {
	roles := make([]Role, playerCount)
	for i := range roles {
		roles[i] = RoleCitizen
	}

	target := effectiveSpyCount(playerCount, requestedSpies)
	assigned := 0
	for assigned < target {
		idx := intn(playerCount)
		if roles[idx] != RoleSpy {
			roles[idx] = RoleSpy
			assigned++
		}
	}
	return roles
}
