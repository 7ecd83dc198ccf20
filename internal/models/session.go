package models

import (
	"time"
)

// Phase represents the current state of a game session
type Phase string

const (
	// PhaseLobbySetup indicates the session is gathering its roster
	PhaseLobbySetup Phase = "lobby_setup"

	// PhaseRoleReveal indicates roles are assigned and being acknowledged
	PhaseRoleReveal Phase = "role_reveal"

	// PhaseTeamSelection indicates the leader is picking a mission team
	PhaseTeamSelection Phase = "team_selection"

	// PhaseTeamVoting indicates the proposed team is being voted on
	PhaseTeamVoting Phase = "team_voting"

	// PhaseMissionPlay indicates the approved team is playing cards
	PhaseMissionPlay Phase = "mission_play"

	// PhaseAssassination indicates the Assassin is choosing a target
	PhaseAssassination Phase = "assassination"

	// PhaseGameOver indicates the match has been decided
	PhaseGameOver Phase = "game_over"
)

// Winner identifies which side won a finished match
type Winner string

const (
	// WinnerNone means the match is still undecided
	WinnerNone Winner = ""

	// WinnerGood means the side of Arthur won
	WinnerGood Winner = "good"

	// WinnerEvil means the side of Mordred won
	WinnerEvil Winner = "evil"
)

// VisionKind describes what a player's role lets them know about another
type VisionKind string

const (
	// VisionEvil marks a player known to be Evil-aligned
	VisionEvil VisionKind = "evil"

	// VisionMerlinOrMorgana marks one of the Merlin/Morgana pair as seen
	// by Percival, indistinguishable from the other
	VisionMerlinOrMorgana VisionKind = "merlin_or_morgana"
)

// Vision is the transient hidden-information highlight a player receives
// after confirming their role. It expires at a fixed deadline and is not
// re-derivable afterwards.
type Vision struct {
	// Seen maps player ID to what the viewer knows about them
	Seen map[string]VisionKind

	// ExpiresAt is when the highlight clears. Zero until the player
	// confirms their role.
	ExpiresAt time.Time
}

// GameSession aggregates all mutable state for one match. Every mutation
// flows through the game service; nothing outside the current mission is
// touched by a round except the scores and the leader pointer.
type GameSession struct {
	// ID is the unique identifier for the session
	ID string

	// ChannelID is the channel the session is bound to
	ChannelID string

	// CreatorID is the player who opened the lobby
	CreatorID string

	// Phase is the current state of the session
	Phase Phase

	// Players is the roster in fixed join order. Leader rotation walks
	// this slice round-robin.
	Players []*Player

	// Spectators are attached to the session but not on the roster
	Spectators []*Player

	// Missions are the five rounds, sequence fixed at creation
	Missions []*Mission

	// GoodScore counts succeeded missions, capped at 3
	GoodScore int

	// EvilScore counts failed missions, capped at 3
	EvilScore int

	// ConsecutiveRejections counts rejected team votes since the last
	// approval; four in a row hands the match to Evil
	ConsecutiveRejections int

	// LeaderIndex points into Players at the current leader
	LeaderIndex int

	// LobbyLocked prevents non-leader spectator promotion while true
	LobbyLocked bool

	// Winner is set once the match is decided
	Winner Winner

	// WinReason is a human-readable explanation of the outcome
	WinReason string

	// Visions maps player ID to their transient role knowledge
	Visions map[string]*Vision

	// RoleConfirmed maps player ID to whether they acknowledged their role
	RoleConfirmed map[string]bool

	// CreatedAt is when the session was created
	CreatedAt time.Time

	// UpdatedAt is when the session was last mutated
	UpdatedAt time.Time
}

// Active reports whether the session still accepts game actions
func (g *GameSession) Active() bool {
	return g.Phase != PhaseGameOver
}

// Leader returns the current leader, or nil for an empty roster
func (g *GameSession) Leader() *Player {
	if len(g.Players) == 0 || g.LeaderIndex < 0 || g.LeaderIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.LeaderIndex]
}

// FindPlayer returns the roster player with the given ID
func (g *GameSession) FindPlayer(playerID string) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// FindSpectator returns the spectator with the given ID
func (g *GameSession) FindSpectator(playerID string) *Player {
	for _, s := range g.Spectators {
		if s.ID == playerID {
			return s
		}
	}
	return nil
}

// CurrentMission returns the mission currently being played: the single
// mission whose status is neither Pending nor terminal. There is none
// during lobby setup, role reveal, assassination, and after game over.
func (g *GameSession) CurrentMission() *Mission {
	for _, m := range g.Missions {
		if m.Status != MissionStatusPending && !m.Status.Terminal() {
			return m
		}
	}
	return nil
}

// NextPendingMission returns the lowest-sequence mission still pending
func (g *GameSession) NextPendingMission() *Mission {
	for _, m := range g.Missions {
		if m.Status == MissionStatusPending {
			return m
		}
	}
	return nil
}

// ResolvedMissions counts missions that have succeeded or failed
func (g *GameSession) ResolvedMissions() int {
	count := 0
	for _, m := range g.Missions {
		if m.Status.Terminal() {
			count++
		}
	}
	return count
}
