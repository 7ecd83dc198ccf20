package game

// GameError is a typed error kind for rule violations. Rejections wrap a
// kind with a human-readable reason via fmt.Errorf("%w: ..."), so callers
// match the kind with errors.Is and show the reason to the player.
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrSessionNotFound      GameError = "session not found"
	ErrSessionAlreadyExists GameError = "an active session already exists for this channel"
	ErrPlayerNotFound       GameError = "player not found"
	ErrAlreadyJoined        GameError = "player is already part of this session"
	ErrIllegalPhaseAction   GameError = "action is not allowed in the current phase"
	ErrUnauthorizedActor    GameError = "player is not allowed to perform this action"
	ErrInvalidTeamSize      GameError = "proposed team size is invalid"
	ErrDuplicateAction      GameError = "player has already acted this round"
	ErrIllegalCardChoice    GameError = "card choice is not available to this player"
	ErrRosterSizeInvalid    GameError = "roster size is not supported by the role table"
	ErrLobbyLocked          GameError = "lobby is locked"
	ErrLobbyFull            GameError = "lobby is at maximum capacity"

	// ErrCorruptSession marks an engine invariant violation, e.g. no
	// pending mission where one is expected. Not recoverable by retrying;
	// the session should be reset or recreated.
	ErrCorruptSession GameError = "session state is corrupt"

	ErrNilConfig        GameError = "config cannot be nil"
	ErrNilSessionRepo   GameError = "session repository cannot be nil"
	ErrNilShuffler      GameError = "shuffler cannot be nil"
	ErrNilClock         GameError = "clock cannot be nil"
	ErrNilUUIDGenerator GameError = "UUID generator cannot be nil"
)
