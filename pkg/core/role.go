package core

// Role is the classification outcome for a sampled entity.
type Role uint8

const (
	RoleUnknown Role = iota
	RolePlayer
	RoleEnemy
	RoleAllyOrNeutral
	RoleEnvironmentOrPet
)

func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleEnemy:
		return "enemy"
	case RoleAllyOrNeutral:
		return "ally_or_neutral"
	case RoleEnvironmentOrPet:
		return "environment_or_pet"
	default:
		return "unknown"
	}
}
