package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShyGirl95/Avalon/internal/common/clock"
	"github.com/ShyGirl95/Avalon/internal/common/uuid"
	"github.com/ShyGirl95/Avalon/internal/models"
	sessionRepo "github.com/ShyGirl95/Avalon/internal/repositories/session"
	"github.com/ShyGirl95/Avalon/internal/shuffle"
)

// service implements the Service interface
type service struct {
	config      *Config
	sessionRepo sessionRepo.Repository
	shuffler    shuffle.Shuffler
	clock       clock.Clock
	uuider      uuid.UUID
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Shuffler == nil {
		return nil, ErrNilShuffler
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	// Fill in defaults for anything unset
	if cfg.MaxPlayers == 0 {
		cfg.MaxPlayers = 10
	}
	if cfg.RequiredPlayers == 0 {
		cfg.RequiredPlayers = 5
	}
	if cfg.MissionsToWin == 0 {
		cfg.MissionsToWin = 3
	}
	if cfg.MaxRejections == 0 {
		cfg.MaxRejections = 4
	}
	if cfg.VisionDuration == 0 {
		cfg.VisionDuration = 10 * time.Second
	}
	if len(cfg.BotNames) == 0 {
		cfg.BotNames = []string{"Bot Alice", "Bot Bob", "Bot Charlie", "Bot Dave"}
	}

	return &service{
		config:      cfg,
		sessionRepo: cfg.SessionRepo,
		shuffler:    cfg.Shuffler,
		clock:       cfg.Clock,
		uuider:      cfg.UUIDGenerator,
	}, nil
}

// loadSession fetches a session by ID
func (s *service) loadSession(ctx context.Context, sessionID string) (*models.GameSession, error) {
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}

	return sess, nil
}

// saveSession persists a session, stamping the update time
func (s *service) saveSession(ctx context.Context, sess *models.GameSession) error {
	sess.UpdatedAt = s.clock.Now()
	return s.sessionRepo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session: sess,
	})
}

// slugID derives a stable player ID from a display name, matching the
// lobby's naming of bot participants
func slugID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// CreateSession opens a lobby bound to a channel. The creator becomes the
// first roster player and the leader baseline; bot spectators are seeded
// so a single human can fill the table.
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	existing, err := s.sessionRepo.GetSessionByChannel(ctx, &sessionRepo.GetSessionByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil && !errors.Is(err, sessionRepo.ErrSessionNotFound) {
		return nil, err
	}

	// A finished session may be replaced; an unfinished one may not
	if existing != nil && existing.Active() {
		return nil, fmt.Errorf("%w: channel %s", ErrSessionAlreadyExists, input.ChannelID)
	}

	missions, err := missionPlan(s.config.RequiredPlayers)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	sess := &models.GameSession{
		ID:        s.uuider.NewUUID(),
		ChannelID: input.ChannelID,
		CreatorID: input.CreatorID,
		Phase:     models.PhaseLobbySetup,
		Players: []*models.Player{
			{ID: input.CreatorID, Name: input.CreatorName},
		},
		Missions:      missions,
		LeaderIndex:   0,
		LobbyLocked:   true,
		Visions:       make(map[string]*models.Vision),
		RoleConfirmed: make(map[string]bool),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, name := range s.config.BotNames {
		sess.Spectators = append(sess.Spectators, &models.Player{
			ID:    slugID(name),
			Name:  name,
			IsBot: true,
		})
	}

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &CreateSessionOutput{Session: sess}, nil
}

// AddSpectator attaches a user to the session as a spectator
func (s *service) AddSpectator(ctx context.Context, input *AddSpectatorInput) (*AddSpectatorOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.FindPlayer(input.PlayerID) != nil || sess.FindSpectator(input.PlayerID) != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyJoined, input.PlayerID)
	}

	sess.Spectators = append(sess.Spectators, &models.Player{
		ID:   input.PlayerID,
		Name: input.PlayerName,
	})

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &AddSpectatorOutput{Session: sess}, nil
}

// JoinAsPlayer promotes a spectator to the roster
func (s *service) JoinAsPlayer(ctx context.Context, input *JoinAsPlayerInput) (*JoinAsPlayerOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.Phase != models.PhaseLobbySetup {
		return nil, fmt.Errorf("%w: players cannot join once the game has started", ErrIllegalPhaseAction)
	}

	leader := sess.Leader()
	if sess.LobbyLocked && (leader == nil || input.RequestorID != leader.ID) {
		return nil, fmt.Errorf("%w: the leader must unlock the lobby first", ErrLobbyLocked)
	}

	if len(sess.Players) >= s.config.MaxPlayers {
		return nil, fmt.Errorf("%w: %d players maximum", ErrLobbyFull, s.config.MaxPlayers)
	}

	spectator := sess.FindSpectator(input.SpectatorID)
	if spectator == nil {
		return nil, fmt.Errorf("%w: no spectator %s", ErrPlayerNotFound, input.SpectatorID)
	}

	remaining := make([]*models.Player, 0, len(sess.Spectators)-1)
	for _, sp := range sess.Spectators {
		if sp.ID != input.SpectatorID {
			remaining = append(remaining, sp)
		}
	}
	sess.Spectators = remaining

	spectator.Role = models.RoleUnknown
	sess.Players = append(sess.Players, spectator)

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &JoinAsPlayerOutput{Session: sess}, nil
}

// ToggleLobbyLock flips the lobby lock (leader only)
func (s *service) ToggleLobbyLock(ctx context.Context, input *ToggleLobbyLockInput) (*ToggleLobbyLockOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.Phase != models.PhaseLobbySetup {
		return nil, fmt.Errorf("%w: the lobby lock only matters before the game starts", ErrIllegalPhaseAction)
	}

	leader := sess.Leader()
	if leader == nil || input.PlayerID != leader.ID {
		return nil, fmt.Errorf("%w: only the leader controls the lobby lock", ErrUnauthorizedActor)
	}

	sess.LobbyLocked = !sess.LobbyLocked

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &ToggleLobbyLockOutput{Locked: sess.LobbyLocked, Session: sess}, nil
}

// StartGame assigns roles and begins the match (leader only)
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.Phase != models.PhaseLobbySetup {
		return nil, fmt.Errorf("%w: the game has already started", ErrIllegalPhaseAction)
	}

	leader := sess.Leader()
	if leader == nil || input.PlayerID != leader.ID {
		return nil, fmt.Errorf("%w: only the leader may start the game", ErrUnauthorizedActor)
	}

	roles, err := roleSet(len(sess.Players))
	if err != nil {
		return nil, err
	}

	missions, err := missionPlan(len(sess.Players))
	if err != nil {
		return nil, err
	}

	// Shuffle the role set onto the roster bijectively
	perm := s.shuffler.Perm(len(roles))
	for i, p := range sess.Players {
		p.Role = roles[perm[i]]
	}

	sess.Missions = missions
	sess.GoodScore = 0
	sess.EvilScore = 0
	sess.ConsecutiveRejections = 0
	sess.Winner = models.WinnerNone
	sess.WinReason = ""
	sess.LobbyLocked = true
	sess.Phase = models.PhaseRoleReveal

	// Visions are derived once, right after the shuffle. The expiry
	// deadline is stamped per player at confirmation time.
	sess.Visions = computeVisions(sess.Players)

	// Bots do not need to acknowledge anything
	sess.RoleConfirmed = make(map[string]bool)
	for _, p := range sess.Players {
		if p.IsBot {
			sess.RoleConfirmed[p.ID] = true
		}
	}

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &StartGameOutput{Session: sess}, nil
}

// ConfirmRoleSeen acknowledges the player's revealed role and opens their
// vision window. Once every roster player has confirmed, mission 1 enters
// team selection.
func (s *service) ConfirmRoleSeen(ctx context.Context, input *ConfirmRoleSeenInput) (*ConfirmRoleSeenOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.Phase != models.PhaseRoleReveal {
		return nil, fmt.Errorf("%w: there is no role waiting to be confirmed", ErrIllegalPhaseAction)
	}

	player := sess.FindPlayer(input.PlayerID)
	if player == nil {
		return nil, fmt.Errorf("%w: %s is not on the roster", ErrPlayerNotFound, input.PlayerID)
	}

	if sess.RoleConfirmed[player.ID] {
		return nil, fmt.Errorf("%w: role already confirmed", ErrDuplicateAction)
	}

	sess.RoleConfirmed[player.ID] = true

	vision := sess.Visions[player.ID]
	if vision != nil {
		vision.ExpiresAt = s.clock.Now().Add(s.config.VisionDuration)
	}

	allConfirmed := true
	for _, p := range sess.Players {
		if !sess.RoleConfirmed[p.ID] {
			allConfirmed = false
			break
		}
	}

	if allConfirmed {
		if err := s.enterTeamSelection(sess); err != nil {
			return nil, err
		}
	}

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &ConfirmRoleSeenOutput{
		Role:         player.Role,
		Vision:       vision,
		AllConfirmed: allConfirmed,
		Session:      sess,
	}, nil
}

// ResetProgress re-zeroes all match state while preserving the roster,
// the spectators, and the leader baseline. This is the only rollback
// primitive; it also relocks the lobby.
func (s *service) ResetProgress(ctx context.Context, input *ResetProgressInput) (*ResetProgressOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	leader := sess.Leader()
	if leader == nil || input.PlayerID != leader.ID {
		return nil, fmt.Errorf("%w: only the leader may reset the game", ErrUnauthorizedActor)
	}

	missions, err := missionPlan(s.config.RequiredPlayers)
	if err != nil {
		return nil, err
	}

	sess.Missions = missions
	sess.GoodScore = 0
	sess.EvilScore = 0
	sess.ConsecutiveRejections = 0
	sess.Winner = models.WinnerNone
	sess.WinReason = ""
	sess.Phase = models.PhaseLobbySetup
	sess.LobbyLocked = true

	// Discarding visions here also cancels any open vision window; there
	// is no timer to unwind because expiry is a stored deadline
	sess.Visions = make(map[string]*models.Vision)
	sess.RoleConfirmed = make(map[string]bool)

	for _, p := range sess.Players {
		p.Role = models.RoleUnknown
	}
	for _, sp := range sess.Spectators {
		sp.Role = models.RoleUnknown
	}

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &ResetProgressOutput{Session: sess}, nil
}

// GetSession returns the full authoritative snapshot. Expired visions are
// cleared lazily on read.
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if s.pruneExpiredVisions(sess) {
		if err := s.saveSession(ctx, sess); err != nil {
			return nil, err
		}
	}

	return &GetSessionOutput{Session: sess}, nil
}

// GetSessionByChannel returns the snapshot for the session bound to a channel
func (s *service) GetSessionByChannel(ctx context.Context, input *GetSessionByChannelInput) (*GetSessionByChannelOutput, error) {
	sess, err := s.sessionRepo.GetSessionByChannel(ctx, &sessionRepo.GetSessionByChannelInput{
		ChannelID: input.ChannelID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: no session for channel %s", ErrSessionNotFound, input.ChannelID)
		}
		return nil, err
	}

	if s.pruneExpiredVisions(sess) {
		if err := s.saveSession(ctx, sess); err != nil {
			return nil, err
		}
	}

	return &GetSessionByChannelOutput{Session: sess}, nil
}
