package models

// Player represents a member of a game session, either on the roster or
// watching as a spectator
type Player struct {
	// ID is the stable unique identifier for the player within the session
	ID string

	// Name is the display name of the player
	Name string

	// Role is the character assigned for the current match, if any
	Role Role

	// IsBot indicates a simulated participant whose decisions the engine
	// resolves on its own
	IsBot bool
}
