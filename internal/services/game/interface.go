package game

import "context"

// Service defines the interface for the Avalon rules engine. All mutations
// for one session must be applied serially; concurrent sessions are
// independent.
type Service interface {
	// CreateSession opens a lobby bound to a channel
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// AddSpectator attaches a user to the session as a spectator
	AddSpectator(ctx context.Context, input *AddSpectatorInput) (*AddSpectatorOutput, error)

	// JoinAsPlayer promotes a spectator to the roster
	JoinAsPlayer(ctx context.Context, input *JoinAsPlayerInput) (*JoinAsPlayerOutput, error)

	// ToggleLobbyLock flips the lobby lock (leader only)
	ToggleLobbyLock(ctx context.Context, input *ToggleLobbyLockInput) (*ToggleLobbyLockOutput, error)

	// StartGame assigns roles and begins the match (leader only)
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// ConfirmRoleSeen acknowledges the player's revealed role and opens
	// their vision window
	ConfirmRoleSeen(ctx context.Context, input *ConfirmRoleSeenInput) (*ConfirmRoleSeenOutput, error)

	// ProposeTeam submits the leader's mission team
	ProposeTeam(ctx context.Context, input *ProposeTeamInput) (*ProposeTeamOutput, error)

	// CastVote records a ballot on the proposed team
	CastVote(ctx context.Context, input *CastVoteInput) (*CastVoteOutput, error)

	// PlayCard records a team member's mission card
	PlayCard(ctx context.Context, input *PlayCardInput) (*PlayCardOutput, error)

	// Assassinate resolves the Assassin's attempt on Merlin
	Assassinate(ctx context.Context, input *AssassinateInput) (*AssassinateOutput, error)

	// ResetProgress re-zeroes all match state, keeping the roster (leader only)
	ResetProgress(ctx context.Context, input *ResetProgressInput) (*ResetProgressOutput, error)

	// GetSession returns the full authoritative snapshot
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)

	// GetSessionByChannel returns the snapshot for the session bound to a channel
	GetSessionByChannel(ctx context.Context, input *GetSessionByChannelInput) (*GetSessionByChannelOutput, error)

	// GetPlayerView returns a redacted snapshot safe to show one player
	GetPlayerView(ctx context.Context, input *GetPlayerViewInput) (*GetPlayerViewOutput, error)
}
