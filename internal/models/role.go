package models

// Alignment is the side a role fights for
type Alignment string

const (
	// AlignmentGood is the side of Arthur
	AlignmentGood Alignment = "good"

	// AlignmentEvil is the side of Mordred
	AlignmentEvil Alignment = "evil"
)

// Role is a character card assigned to a player for one match
type Role string

const (
	// RoleUnknown means no role has been assigned
	RoleUnknown Role = ""

	// RoleMerlin knows the Evil players but must stay hidden
	RoleMerlin Role = "merlin"

	// RolePercival knows which two players are Merlin and Morgana, but
	// not which is which
	RolePercival Role = "percival"

	// RoleLoyalServant is a plain Good player with no special knowledge
	RoleLoyalServant Role = "loyal_servant"

	// RoleMorgana appears to Percival as Merlin
	RoleMorgana Role = "morgana"

	// RoleAssassin gets a final shot at Merlin if Good wins three missions
	RoleAssassin Role = "assassin"

	// RoleMordred is hidden from Merlin
	RoleMordred Role = "mordred"

	// RoleOberon is Evil but unknown to the other Evil players
	RoleOberon Role = "oberon"

	// RoleMinionOfMordred is a plain Evil player
	RoleMinionOfMordred Role = "minion_of_mordred"
)

// Alignment returns the side the role fights for. RoleUnknown counts as
// Good so an unassigned player can never sabotage a mission.
func (r Role) Alignment() Alignment {
	switch r {
	case RoleMorgana, RoleAssassin, RoleMordred, RoleOberon, RoleMinionOfMordred:
		return AlignmentEvil
	default:
		return AlignmentGood
	}
}

// DisplayName returns the role's name for rendering
func (r Role) DisplayName() string {
	switch r {
	case RoleMerlin:
		return "Merlin"
	case RolePercival:
		return "Percival"
	case RoleLoyalServant:
		return "Loyal Servant"
	case RoleMorgana:
		return "Morgana"
	case RoleAssassin:
		return "Assassin"
	case RoleMordred:
		return "Mordred"
	case RoleOberon:
		return "Oberon"
	case RoleMinionOfMordred:
		return "Minion of Mordred"
	default:
		return "Unassigned"
	}
}

// Description returns a short reminder of what the role knows and does
func (r Role) Description() string {
	switch r {
	case RoleMerlin:
		return "You see the agents of Evil. Guide your side without giving yourself away."
	case RolePercival:
		return "You see Merlin and Morgana, but not which is which."
	case RoleLoyalServant:
		return "A faithful knight with no special sight. Trust carefully."
	case RoleMorgana:
		return "You appear to Percival as Merlin. Sow confusion."
	case RoleAssassin:
		return "If Good wins three quests, you get one shot at Merlin."
	case RoleMordred:
		return "Merlin does not see you. Lead Evil from the shadows."
	case RoleOberon:
		return "You fight for Evil alone; not even your allies know you."
	case RoleMinionOfMordred:
		return "A servant of Mordred. Fail quests and protect your own."
	default:
		return ""
	}
}
