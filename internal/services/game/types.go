package game

import (
	"time"

	"github.com/ShyGirl95/Avalon/internal/common/clock"
	"github.com/ShyGirl95/Avalon/internal/common/uuid"
	"github.com/ShyGirl95/Avalon/internal/models"
	sessionRepo "github.com/ShyGirl95/Avalon/internal/repositories/session"
	"github.com/ShyGirl95/Avalon/internal/shuffle"
)

// Config holds configuration for the game service
type Config struct {
	// Maximum roster size
	MaxPlayers int

	// Exact roster size required to start a match
	RequiredPlayers int

	// Missions a side needs to win the match
	MissionsToWin int

	// Consecutive rejected team votes that hand the match to Evil
	MaxRejections int

	// How long a player's vision highlight lasts after role confirmation
	VisionDuration time.Duration

	// Display names for the bot spectators seeded into a new lobby
	BotNames []string

	// Repository dependencies
	SessionRepo sessionRepo.Repository

	// Service dependencies
	Shuffler      shuffle.Shuffler
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// CreateSessionInput contains parameters for opening a new lobby
type CreateSessionInput struct {
	// ChannelID is the channel the session is bound to
	ChannelID string

	// CreatorID is the user opening the lobby
	CreatorID string

	// CreatorName is the display name of the creator
	CreatorName string
}

// CreateSessionOutput contains the result of opening a lobby
type CreateSessionOutput struct {
	Session *models.GameSession
}

// AddSpectatorInput contains parameters for attaching a spectator
type AddSpectatorInput struct {
	SessionID  string
	PlayerID   string
	PlayerName string
}

// AddSpectatorOutput contains the result of attaching a spectator
type AddSpectatorOutput struct {
	Session *models.GameSession
}

// JoinAsPlayerInput contains parameters for promoting a spectator to the
// roster. RequestorID is whoever asked for the promotion; non-leaders can
// only promote while the lobby is unlocked.
type JoinAsPlayerInput struct {
	SessionID   string
	SpectatorID string
	RequestorID string
}

// JoinAsPlayerOutput contains the result of a promotion
type JoinAsPlayerOutput struct {
	Session *models.GameSession
}

// ToggleLobbyLockInput contains parameters for flipping the lobby lock
type ToggleLobbyLockInput struct {
	SessionID string
	PlayerID  string
}

// ToggleLobbyLockOutput contains the result of flipping the lobby lock
type ToggleLobbyLockOutput struct {
	// Locked is the state after the toggle
	Locked  bool
	Session *models.GameSession
}

// StartGameInput contains parameters for starting the match
type StartGameInput struct {
	SessionID string
	PlayerID  string
}

// StartGameOutput contains the result of starting the match
type StartGameOutput struct {
	Session *models.GameSession
}

// ConfirmRoleSeenInput contains parameters for acknowledging a role
type ConfirmRoleSeenInput struct {
	SessionID string
	PlayerID  string
}

// ConfirmRoleSeenOutput contains the result of acknowledging a role
type ConfirmRoleSeenOutput struct {
	// Role is the confirming player's own role
	Role models.Role

	// Vision is the player's transient knowledge, nil when the role sees
	// no one. The deadline is stamped by this call.
	Vision *models.Vision

	// AllConfirmed is true once every roster player has acknowledged,
	// which moves the match into team selection
	AllConfirmed bool

	Session *models.GameSession
}

// ProposeTeamInput contains parameters for proposing a mission team
type ProposeTeamInput struct {
	SessionID string

	// LeaderID is the proposing player; only the current leader may propose
	LeaderID string

	// MemberIDs are the proposed team members, exactly the mission's
	// required size, distinct, all on the roster
	MemberIDs []string
}

// ProposeTeamOutput contains the result of a team proposal
type ProposeTeamOutput struct {
	// VoteResolved is true when the vote closed within this call (all
	// eligible voters were bots)
	VoteResolved bool

	// Approved is meaningful only when VoteResolved is true
	Approved bool

	Session *models.GameSession
}

// CastVoteInput contains parameters for voting on a proposed team
type CastVoteInput struct {
	SessionID string
	PlayerID  string
	Vote      models.Vote
}

// CastVoteOutput contains the result of casting a vote
type CastVoteOutput struct {
	// VoteResolved is true once every eligible voter has a recorded ballot
	VoteResolved bool

	// Approved is meaningful only when VoteResolved is true
	Approved bool

	Session *models.GameSession
}

// PlayCardInput contains parameters for playing a mission card
type PlayCardInput struct {
	SessionID string
	PlayerID  string
	Card      models.Card
}

// PlayCardOutput contains the result of playing a mission card
type PlayCardOutput struct {
	// MissionResolved is true once every team member has a recorded card
	MissionResolved bool

	// MissionSucceeded is meaningful only when MissionResolved is true
	MissionSucceeded bool

	Session *models.GameSession
}

// AssassinateInput contains parameters for the Assassin's final shot
type AssassinateInput struct {
	SessionID string
	PlayerID  string
	TargetID  string
}

// AssassinateOutput contains the result of the assassination
type AssassinateOutput struct {
	// TargetWasMerlin is true when the Assassin found Merlin
	TargetWasMerlin bool

	Session *models.GameSession
}

// ResetProgressInput contains parameters for resetting a session's match
// state while keeping its roster and spectators
type ResetProgressInput struct {
	SessionID string
	PlayerID  string
}

// ResetProgressOutput contains the result of a reset
type ResetProgressOutput struct {
	Session *models.GameSession
}

// GetSessionInput contains parameters for fetching a full snapshot
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput contains the full authoritative snapshot
type GetSessionOutput struct {
	Session *models.GameSession
}

// GetSessionByChannelInput contains parameters for fetching a session by
// its bound channel
type GetSessionByChannelInput struct {
	ChannelID string
}

// GetSessionByChannelOutput contains the full authoritative snapshot
type GetSessionByChannelOutput struct {
	Session *models.GameSession
}

// GetPlayerViewInput contains parameters for fetching a redacted snapshot
type GetPlayerViewInput struct {
	SessionID string
	PlayerID  string
}

// GetPlayerViewOutput contains the redacted snapshot
type GetPlayerViewOutput struct {
	View *PlayerView
}

// PlayerPublic is what any player may know about another at a glance
type PlayerPublic struct {
	ID       string
	Name     string
	IsBot    bool
	IsLeader bool

	// HasVoted is exposed during team voting; the ballot itself is not
	HasVoted bool

	// OnTeam marks membership of the current proposed team
	OnTeam bool

	// SeenAs carries the viewer's vision of this player while the vision
	// window is open, empty otherwise
	SeenAs models.VisionKind
}

// MissionPublic is the public face of a mission
type MissionPublic struct {
	Sequence      int
	TeamSize      int
	FailsRequired int
	Status        models.MissionStatus
	Team          []string

	// Votes becomes public once the vote round has closed
	Votes map[string]models.Vote

	// FailCount is exposed only for resolved missions; card plays are
	// never attributed to individual team members
	FailCount int
}

// PlayerView is the redacted, per-player snapshot handed to the transport
// layer for display. It never contains another player's role.
type PlayerView struct {
	SessionID string
	Phase     models.Phase

	// YourRole is the viewer's own role, RoleUnknown before assignment
	YourRole models.Role

	// VisionExpiresAt is when the viewer's highlight clears; zero when no
	// vision window is open
	VisionExpiresAt time.Time

	Players  []PlayerPublic
	Missions []MissionPublic

	GoodScore             int
	EvilScore             int
	ConsecutiveRejections int
	LeaderID              string
	LobbyLocked           bool
	Winner                models.Winner
	WinReason             string
}
