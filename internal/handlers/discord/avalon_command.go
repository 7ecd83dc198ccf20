package discord

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/ShyGirl95/Avalon/internal/models"
	"github.com/ShyGirl95/Avalon/internal/services/advisor"
	"github.com/ShyGirl95/Avalon/internal/services/game"
)

// AvalonCommand handles the /avalon command
type AvalonCommand struct {
	BaseCommand
	gameService    game.Service
	advisorService advisor.Service
}

// NewAvalonCommand creates a new avalon command handler
func NewAvalonCommand(gameService game.Service, advisorService advisor.Service) *AvalonCommand {
	return &AvalonCommand{
		BaseCommand: BaseCommand{
			Name:        "avalon",
			Description: "Avalon social deduction game commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "new",
					Description: "Open a new game lobby in this channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "join",
					Description: "Join the session, taking a roster seat if the lobby is open",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "invite",
					Description: "Promote a spectator to the roster (leader only)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "player",
							Description: "The spectator to seat",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "lock",
					Description: "Toggle the lobby lock (leader only)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Deal roles and start the match (leader only)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reset",
					Description: "Reset the match back to the lobby, keeping the roster (leader only)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the quest board",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "hint",
					Description: "Ask the advisor who looks like Merlin (Assassin only)",
				},
			},
		},
		gameService:    gameService,
		advisorService: advisorService,
	}
}

// Handle processes a Discord interaction for the avalon command
func (c *AvalonCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name {
		return nil
	}

	channelID := i.ChannelID
	userID := i.Member.User.ID
	username := i.Member.User.Username
	if i.Member.Nick != "" {
		username = i.Member.Nick
	}

	var err error
	switch data.Options[0].Name {
	case "new":
		err = c.handleNew(s, i, channelID, userID, username)
	case "join":
		err = c.handleJoin(s, i, channelID, userID, username)
	case "invite":
		err = c.handleInvite(s, i, channelID, userID, data.Options[0])
	case "lock":
		err = c.handleLock(s, i, channelID, userID)
	case "start":
		err = c.handleStart(s, i, channelID, userID)
	case "reset":
		err = c.handleReset(s, i, channelID, userID)
	case "status":
		err = c.handleStatus(s, i, channelID, userID)
	case "hint":
		err = c.handleHint(s, i, channelID, userID)
	default:
		err = errors.New("unknown subcommand")
	}

	return err
}

// sessionForChannel resolves the channel's session or tells the user
// there is none
func (c *AvalonCommand) sessionForChannel(s *discordgo.Session, i *discordgo.InteractionCreate, channelID string) (*models.GameSession, error) {
	out, err := c.gameService.GetSessionByChannel(context.Background(), &game.GetSessionByChannelInput{
		ChannelID: channelID,
	})
	if err != nil {
		if errors.Is(err, game.ErrSessionNotFound) {
			return nil, RespondWithError(s, i, "There's no game in this channel. Start one with `/avalon new`.")
		}
		log.Printf("Error getting session: %v", err)
		return nil, RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}
	return out.Session, nil
}

// handleNew handles the new subcommand
func (c *AvalonCommand) handleNew(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID, username string) error {
	ctx := context.Background()

	out, err := c.gameService.CreateSession(ctx, &game.CreateSessionInput{
		ChannelID:   channelID,
		CreatorID:   userID,
		CreatorName: username,
	})
	if err != nil {
		if errors.Is(err, game.ErrSessionAlreadyExists) {
			return RespondWithError(s, i, "There's already a game in this channel. Use `/avalon reset` or finish it first.")
		}
		log.Printf("Error creating session: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to open a lobby: %v", err))
	}

	view := c.viewFor(out.Session.ID, userID)
	if view == nil {
		return RespondWithMessage(s, i, fmt.Sprintf("%s opened an Avalon lobby!", username))
	}

	return RespondWithEmbed(s, i,
		"Avalon — lobby open",
		fmt.Sprintf("%s gathers knights for the Round Table. Join with `/avalon join`.\n%s", username, phaseLine(view)),
		renderBoardFields(view))
}

// handleJoin handles the join subcommand. A newcomer is attached as a
// spectator first; the roster seat follows if the lobby allows it.
func (c *AvalonCommand) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID, username string) error {
	ctx := context.Background()

	sess, err := c.sessionForChannel(s, i, channelID)
	if sess == nil {
		return err
	}

	if sess.FindPlayer(userID) != nil {
		return RespondWithEphemeralMessage(s, i, "You already have a seat at the table.")
	}

	if sess.FindSpectator(userID) == nil {
		if _, err := c.gameService.AddSpectator(ctx, &game.AddSpectatorInput{
			SessionID:  sess.ID,
			PlayerID:   userID,
			PlayerName: username,
		}); err != nil {
			log.Printf("Error adding spectator: %v", err)
			return RespondWithError(s, i, fmt.Sprintf("Failed to join: %v", err))
		}
	}

	_, err = c.gameService.JoinAsPlayer(ctx, &game.JoinAsPlayerInput{
		SessionID:   sess.ID,
		SpectatorID: userID,
		RequestorID: userID,
	})
	if err != nil {
		if errors.Is(err, game.ErrLobbyLocked) {
			return RespondWithEphemeralMessage(s, i, "You're watching from the gallery. The lobby is locked; ask the leader to `/avalon invite` you or unlock with `/avalon lock`.")
		}
		if errors.Is(err, game.ErrIllegalPhaseAction) {
			return RespondWithEphemeralMessage(s, i, "The match is underway. You're spectating until the next game.")
		}
		if errors.Is(err, game.ErrLobbyFull) {
			return RespondWithEphemeralMessage(s, i, "The table is full. You're spectating this one.")
		}
		log.Printf("Error joining as player: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to join: %v", err))
	}

	return RespondWithMessage(s, i, fmt.Sprintf("%s takes a seat at the Round Table!", username))
}

// handleInvite handles the invite subcommand
func (c *AvalonCommand) handleInvite(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, sub *discordgo.ApplicationCommandInteractionDataOption) error {
	ctx := context.Background()

	sess, err := c.sessionForChannel(s, i, channelID)
	if sess == nil {
		return err
	}

	target := sub.Options[0].UserValue(s)
	if target == nil {
		return RespondWithError(s, i, "Could not resolve that player.")
	}

	// Seat the invitee as a spectator first if they never joined
	if sess.FindSpectator(target.ID) == nil && sess.FindPlayer(target.ID) == nil {
		if _, err := c.gameService.AddSpectator(ctx, &game.AddSpectatorInput{
			SessionID:  sess.ID,
			PlayerID:   target.ID,
			PlayerName: target.Username,
		}); err != nil {
			log.Printf("Error adding spectator: %v", err)
			return RespondWithError(s, i, fmt.Sprintf("Failed to invite: %v", err))
		}
	}

	_, err = c.gameService.JoinAsPlayer(ctx, &game.JoinAsPlayerInput{
		SessionID:   sess.ID,
		SpectatorID: target.ID,
		RequestorID: userID,
	})
	if err != nil {
		if errors.Is(err, game.ErrLobbyLocked) {
			return RespondWithError(s, i, "Only the leader can seat players while the lobby is locked.")
		}
		log.Printf("Error seating player: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to seat player: %v", err))
	}

	return RespondWithMessage(s, i, fmt.Sprintf("%s joins the roster.", target.Username))
}

// handleLock handles the lock subcommand
func (c *AvalonCommand) handleLock(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	sess, err := c.sessionForChannel(s, i, channelID)
	if sess == nil {
		return err
	}

	out, err := c.gameService.ToggleLobbyLock(context.Background(), &game.ToggleLobbyLockInput{
		SessionID: sess.ID,
		PlayerID:  userID,
	})
	if err != nil {
		if errors.Is(err, game.ErrUnauthorizedActor) {
			return RespondWithError(s, i, "Only the leader controls the lobby lock.")
		}
		if errors.Is(err, game.ErrIllegalPhaseAction) {
			return RespondWithError(s, i, "The lobby lock only matters before the game starts.")
		}
		log.Printf("Error toggling lock: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to toggle lock: %v", err))
	}

	if out.Locked {
		return RespondWithMessage(s, i, "🔒 The lobby is locked. Only the leader seats players now.")
	}
	return RespondWithMessage(s, i, "🔓 The lobby is open. Spectators may claim a seat with `/avalon join`.")
}

// handleStart handles the start subcommand
func (c *AvalonCommand) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	sess, err := c.sessionForChannel(s, i, channelID)
	if sess == nil {
		return err
	}

	out, err := c.gameService.StartGame(context.Background(), &game.StartGameInput{
		SessionID: sess.ID,
		PlayerID:  userID,
	})
	if err != nil {
		if errors.Is(err, game.ErrRosterSizeInvalid) {
			return RespondWithError(s, i, fmt.Sprintf("Avalon needs exactly 5 seated players; there are %d. Fill the table first.", len(sess.Players)))
		}
		if errors.Is(err, game.ErrUnauthorizedActor) {
			return RespondWithError(s, i, "Only the leader may start the game.")
		}
		if errors.Is(err, game.ErrIllegalPhaseAction) {
			return RespondWithError(s, i, "The game has already started.")
		}
		log.Printf("Error starting game: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to start: %v", err))
	}

	view := c.viewFor(out.Session.ID, userID)
	return RespondWithEmbedAndComponents(s, i,
		"Avalon — roles are dealt",
		"The cards are out. Every knight must look at their role before the first quest.",
		renderBoardFields(view),
		[]discordgo.MessageComponent{confirmRoleButton()})
}

// handleReset handles the reset subcommand
func (c *AvalonCommand) handleReset(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	sess, err := c.sessionForChannel(s, i, channelID)
	if sess == nil {
		return err
	}

	_, err = c.gameService.ResetProgress(context.Background(), &game.ResetProgressInput{
		SessionID: sess.ID,
		PlayerID:  userID,
	})
	if err != nil {
		if errors.Is(err, game.ErrUnauthorizedActor) {
			return RespondWithError(s, i, "Only the leader may reset the game.")
		}
		log.Printf("Error resetting game: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Failed to reset: %v", err))
	}

	return RespondWithMessage(s, i, "The board is wiped. Same table, fresh match — `/avalon start` when ready.")
}

// handleStatus handles the status subcommand
func (c *AvalonCommand) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	sess, err := c.sessionForChannel(s, i, channelID)
	if sess == nil {
		return err
	}

	view := c.viewFor(sess.ID, userID)
	if view == nil {
		return RespondWithError(s, i, "Could not build the board.")
	}

	return RespondWithEphemeralEmbedAndComponents(s, i,
		"Avalon — quest board",
		phaseLine(view),
		renderBoardFields(view),
		componentsForPhase(view, userID))
}

// handleHint handles the hint subcommand. The advisor reads the recent
// channel talk and points at whoever the table treated like Merlin. It is
// a suggestion only; the shot stays with the Assassin.
func (c *AvalonCommand) handleHint(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string) error {
	sess, err := c.sessionForChannel(s, i, channelID)
	if sess == nil {
		return err
	}

	if sess.Phase != models.PhaseAssassination {
		return RespondWithEphemeralMessage(s, i, "The advisor only speaks when the Assassin is choosing a target.")
	}

	actor := sess.FindPlayer(userID)
	if actor == nil || actor.Role != models.RoleAssassin {
		return RespondWithEphemeralMessage(s, i, "The advisor whispers only to the Assassin.")
	}

	candidates := make([]advisor.Candidate, 0, len(sess.Players))
	for _, p := range sess.Players {
		if p.ID == userID {
			continue
		}
		candidates = append(candidates, advisor.Candidate{ID: p.ID, Name: p.Name})
	}

	// Recent channel talk is the only evidence the advisor gets
	var transcript []string
	messages, err := s.ChannelMessages(channelID, 50, "", "", "")
	if err != nil {
		log.Printf("Error fetching channel messages for hint: %v", err)
	} else {
		for _, m := range messages {
			if m.Author != nil && !m.Author.Bot && m.Content != "" {
				transcript = append(transcript, m.Content)
			}
		}
	}

	out, err := c.advisorService.SuggestTarget(context.Background(), &advisor.SuggestTargetInput{
		Candidates: candidates,
		Transcript: transcript,
	})
	if err != nil {
		log.Printf("Error getting advisor suggestion: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("The advisor has nothing: %v", err))
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("🗡️ The advisor leans in: %s", out.Reasoning))
}

// viewFor fetches a redacted view, nil on failure
func (c *AvalonCommand) viewFor(sessionID, userID string) *game.PlayerView {
	out, err := c.gameService.GetPlayerView(context.Background(), &game.GetPlayerViewInput{
		SessionID: sessionID,
		PlayerID:  userID,
	})
	if err != nil {
		log.Printf("Error building player view: %v", err)
		return nil
	}
	return out.View
}
