package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ShyGirl95/Avalon/internal/models"
	"github.com/ShyGirl95/Avalon/internal/services/advisor"
	"github.com/ShyGirl95/Avalon/internal/services/game"
)

// Bot represents the Discord bot instance
type Bot struct {
	session        *discordgo.Session
	commands       map[string]CommandHandler
	commandIDs     map[string]string // Maps command name to command ID
	gameService    game.Service
	advisorService advisor.Service
	config         *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	// Game service
	GameService game.Service

	// Advisor service
	AdvisorService advisor.Service
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}

	if cfg.AdvisorService == nil {
		return nil, errors.New("advisor service cannot be nil")
	}

	// Create a new Discord session
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:        session,
		commands:       make(map[string]CommandHandler),
		commandIDs:     make(map[string]string),
		gameService:    cfg.GameService,
		advisorService: cfg.AdvisorService,
		config:         cfg,
	}

	// Register the interaction handler
	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start initializes the Discord connection and registers commands
func (b *Bot) Start() error {
	// Open the websocket connection to Discord
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Register the avalon command
	avalonCmd := NewAvalonCommand(b.gameService, b.advisorService)
	if err := b.RegisterCommand(avalonCmd); err != nil {
		return fmt.Errorf("failed to register avalon command: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully shuts down the Discord connection
func (b *Bot) Stop() error {
	// Remove all commands
	appID := b.config.ApplicationID
	if appID == "" {
		appID = b.session.State.User.ID
	}

	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
	}

	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, guildID, cmdID); err != nil {
			log.Printf("Failed to delete command %s (ID: %s): %v", cmdName, cmdID, err)
		} else {
			log.Printf("Successfully deleted command %s (ID: %s)", cmdName, cmdID)
		}
	}

	return b.session.Close()
}

// RegisterCommand registers a command with Discord
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	appID := b.config.ApplicationID
	if appID == "" {
		// Fall back to session user ID if application ID is not provided
		appID = b.session.State.User.ID
	}

	// If guild ID is provided, register command for that specific guild
	// Otherwise, register it globally
	guildID := ""
	if b.config.GuildID != "" {
		guildID = b.config.GuildID
		log.Printf("Registering command %s for guild %s", cmd.GetName(), guildID)
	} else {
		log.Printf("Registering command %s globally", cmd.GetName())
	}

	createdCmd, err := b.session.ApplicationCommandCreate(appID, guildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	// Store the command handler and its ID
	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	log.Printf("Registered command: %s with ID: %s", cmd.GetName(), createdCmd.ID)

	return nil
}

// Component custom IDs
const (
	ButtonConfirmRole = "confirm_role"
	ButtonVoteApprove = "vote_approve"
	ButtonVoteReject  = "vote_reject"
	ButtonPlaySuccess = "play_success"
	ButtonPlayFail    = "play_fail"

	// Select menu custom IDs
	SelectProposeTeam    = "propose_team"
	SelectAssassinTarget = "assassinate_target"
)

// handleInteraction handles Discord interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		// Handle slash commands
		if h, ok := b.commands[i.ApplicationCommandData().Name]; ok {
			if err := h.Handle(s, i); err != nil {
				log.Printf("Error handling command %s: %v", i.ApplicationCommandData().Name, err)
			}
		}
	case discordgo.InteractionMessageComponent:
		// Handle buttons and select menus
		if err := b.handleComponentInteraction(s, i); err != nil {
			log.Printf("Error handling component interaction: %v", err)
		}
	}
}

// handleComponentInteraction handles button clicks and select menus
func (b *Bot) handleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.MessageComponentData()

	channelID := i.ChannelID
	userID := i.Member.User.ID

	sess, err := b.sessionForChannel(channelID)
	if err != nil {
		return RespondWithError(s, i, "There's no game in this channel anymore.")
	}

	switch data.CustomID {
	case ButtonConfirmRole:
		return b.handleConfirmRole(s, i, sess.ID, userID)
	case ButtonVoteApprove:
		return b.handleVote(s, i, sess.ID, userID, models.VoteApprove)
	case ButtonVoteReject:
		return b.handleVote(s, i, sess.ID, userID, models.VoteReject)
	case ButtonPlaySuccess:
		return b.handlePlayCard(s, i, sess.ID, userID, models.CardSuccess)
	case ButtonPlayFail:
		return b.handlePlayCard(s, i, sess.ID, userID, models.CardFail)
	case SelectProposeTeam:
		return b.handleProposeTeam(s, i, sess.ID, userID, data.Values)
	case SelectAssassinTarget:
		if len(data.Values) != 1 {
			return RespondWithError(s, i, "Pick exactly one target.")
		}
		return b.handleAssassinate(s, i, sess.ID, userID, data.Values[0])
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown component: %s", data.CustomID))
	}
}

// sessionForChannel looks up the channel's session
func (b *Bot) sessionForChannel(channelID string) (*models.GameSession, error) {
	out, err := b.gameService.GetSessionByChannel(context.Background(), &game.GetSessionByChannelInput{
		ChannelID: channelID,
	})
	if err != nil {
		return nil, err
	}
	return out.Session, nil
}

// announce posts a public channel message, optionally with components
func (b *Bot) announce(s *discordgo.Session, channelID, content string, components []discordgo.MessageComponent) {
	msg := &discordgo.MessageSend{Content: content}
	if len(components) > 0 {
		msg.Components = []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: components},
		}
	}

	if _, err := s.ChannelMessageSendComplex(channelID, msg); err != nil {
		log.Printf("Failed to send channel message: %v", err)
	}
}

// handleConfirmRole handles the role reveal button. The role card and the
// vision are ephemeral; nothing secret touches the public channel.
func (b *Bot) handleConfirmRole(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, userID string) error {
	ctx := context.Background()

	out, err := b.gameService.ConfirmRoleSeen(ctx, &game.ConfirmRoleSeenInput{
		SessionID: sessionID,
		PlayerID:  userID,
	})
	if err != nil {
		if errors.Is(err, game.ErrDuplicateAction) {
			return RespondWithEphemeralMessage(s, i, "You've already seen your role. No second looks.")
		}
		if errors.Is(err, game.ErrPlayerNotFound) {
			return RespondWithEphemeralMessage(s, i, "You're spectating this match; there's no role for you.")
		}
		if errors.Is(err, game.ErrIllegalPhaseAction) {
			return RespondWithEphemeralMessage(s, i, "There's no role waiting to be confirmed.")
		}
		log.Printf("Error confirming role: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	view, viewErr := b.gameService.GetPlayerView(ctx, &game.GetPlayerViewInput{
		SessionID: sessionID,
		PlayerID:  userID,
	})
	if viewErr != nil {
		log.Printf("Error building role card view: %v", viewErr)
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("You are %s.", out.Role.DisplayName()))
	}

	title, description := renderRoleCard(view.View)
	if err := RespondWithEphemeralEmbedAndComponents(s, i, title, description, nil, nil); err != nil {
		return err
	}

	// The last confirmation opens the first quest
	if out.AllConfirmed {
		leader := out.Session.Leader()
		mission := out.Session.CurrentMission()
		if leader != nil && mission != nil && !leader.IsBot {
			b.announce(s, i.ChannelID,
				fmt.Sprintf("All knights know their roles. 👑 **%s**, pick %d players for Quest %d.",
					leader.Name, mission.TeamSize, mission.Sequence),
				[]discordgo.MessageComponent{teamSelectMenu(view.View, mission.TeamSize)})
		} else {
			b.announceAfterAdvance(s, i.ChannelID, out.Session, userID)
		}
	}

	return nil
}

// handleProposeTeam handles the leader's team selection menu
func (b *Bot) handleProposeTeam(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, userID string, memberIDs []string) error {
	out, err := b.gameService.ProposeTeam(context.Background(), &game.ProposeTeamInput{
		SessionID: sessionID,
		LeaderID:  userID,
		MemberIDs: memberIDs,
	})
	if err != nil {
		if errors.Is(err, game.ErrUnauthorizedActor) {
			return RespondWithEphemeralMessage(s, i, "Only the current leader proposes a team.")
		}
		if errors.Is(err, game.ErrInvalidTeamSize) {
			return RespondWithEphemeralMessage(s, i, fmt.Sprintf("That team doesn't fit the quest: %v", err))
		}
		if errors.Is(err, game.ErrIllegalPhaseAction) {
			return RespondWithEphemeralMessage(s, i, "No team is being selected right now.")
		}
		log.Printf("Error proposing team: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	if err := RespondWithEphemeralMessage(s, i, "Team proposed."); err != nil {
		return err
	}

	if out.VoteResolved {
		// Every eligible voter was a bot; the round settled instantly
		b.announceAfterAdvance(s, i.ChannelID, out.Session, userID)
		return nil
	}

	mission := out.Session.CurrentMission()
	names := ""
	if mission != nil {
		view, err := b.gameService.GetPlayerView(context.Background(), &game.GetPlayerViewInput{
			SessionID: sessionID,
			PlayerID:  userID,
		})
		if err == nil {
			names = fmt.Sprintf(" **%s** rides out", joinNames(teamNames(view.View, mission.Team)))
		}
	}

	b.announce(s, i.ChannelID,
		fmt.Sprintf("The leader has chosen.%s. Everyone but the leader: cast your vote!", names),
		voteButtons())
	return nil
}

// handleVote handles an approve or reject button
func (b *Bot) handleVote(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, userID string, vote models.Vote) error {
	out, err := b.gameService.CastVote(context.Background(), &game.CastVoteInput{
		SessionID: sessionID,
		PlayerID:  userID,
		Vote:      vote,
	})
	if err != nil {
		if errors.Is(err, game.ErrDuplicateAction) {
			return RespondWithEphemeralMessage(s, i, "You've already voted on this team.")
		}
		if errors.Is(err, game.ErrUnauthorizedActor) {
			return RespondWithEphemeralMessage(s, i, "The leader doesn't vote on their own proposal.")
		}
		if errors.Is(err, game.ErrIllegalPhaseAction) {
			return RespondWithEphemeralMessage(s, i, "No team vote is open.")
		}
		if errors.Is(err, game.ErrPlayerNotFound) {
			return RespondWithEphemeralMessage(s, i, "Spectators don't get a ballot.")
		}
		log.Printf("Error casting vote: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	// The ballot itself stays secret until the round closes
	if err := RespondWithEphemeralMessage(s, i, "Your ballot is in."); err != nil {
		return err
	}

	if out.VoteResolved {
		b.announceAfterAdvance(s, i.ChannelID, out.Session, userID)
	}

	return nil
}

// handlePlayCard handles a success or fail card button
func (b *Bot) handlePlayCard(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, userID string, card models.Card) error {
	out, err := b.gameService.PlayCard(context.Background(), &game.PlayCardInput{
		SessionID: sessionID,
		PlayerID:  userID,
		Card:      card,
	})
	if err != nil {
		if errors.Is(err, game.ErrIllegalCardChoice) {
			return RespondWithEphemeralMessage(s, i, "Your loyalty forbids it. Good plays success.")
		}
		if errors.Is(err, game.ErrDuplicateAction) {
			return RespondWithEphemeralMessage(s, i, "Your card is already on the table.")
		}
		if errors.Is(err, game.ErrUnauthorizedActor) {
			return RespondWithEphemeralMessage(s, i, "You're not on this quest.")
		}
		if errors.Is(err, game.ErrIllegalPhaseAction) {
			return RespondWithEphemeralMessage(s, i, "No quest is underway.")
		}
		log.Printf("Error playing card: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	// Cards are anonymous; acknowledge privately
	if err := RespondWithEphemeralMessage(s, i, "Your card is played."); err != nil {
		return err
	}

	if out.MissionResolved {
		b.announceAfterAdvance(s, i.ChannelID, out.Session, userID)
	}

	return nil
}

// handleAssassinate handles the Assassin's target selection
func (b *Bot) handleAssassinate(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, userID, targetID string) error {
	out, err := b.gameService.Assassinate(context.Background(), &game.AssassinateInput{
		SessionID: sessionID,
		PlayerID:  userID,
		TargetID:  targetID,
	})
	if err != nil {
		if errors.Is(err, game.ErrUnauthorizedActor) {
			return RespondWithEphemeralMessage(s, i, "Only the Assassin takes the final shot.")
		}
		if errors.Is(err, game.ErrIllegalPhaseAction) {
			return RespondWithEphemeralMessage(s, i, "The Assassin has no shot to take.")
		}
		log.Printf("Error assassinating: %v", err)
		return RespondWithError(s, i, fmt.Sprintf("Error: %v", err))
	}

	if err := RespondWithEphemeralMessage(s, i, "The blade is thrown."); err != nil {
		return err
	}

	b.announce(s, i.ChannelID, gameOverLine(out.Session), nil)
	return nil
}

// announceAfterAdvance posts the public consequence of an engine advance:
// a settled vote, a resolved quest, the assassination window opening, or
// the end of the match. Bot turns may have cascaded, so it reads the
// session as it stands now.
func (b *Bot) announceAfterAdvance(s *discordgo.Session, channelID string, sess *models.GameSession, userID string) {
	switch sess.Phase {
	case models.PhaseGameOver:
		b.announce(s, channelID, gameOverLine(sess), nil)

	case models.PhaseAssassination:
		b.announce(s, channelID,
			"⚔️ Good has claimed three quests! The Assassin sharpens the blade: who is Merlin?",
			[]discordgo.MessageComponent{b.assassinMenu(sess, userID)})

	case models.PhaseTeamSelection:
		leader := sess.Leader()
		mission := sess.CurrentMission()
		if leader == nil || mission == nil {
			return
		}
		content := fmt.Sprintf("👑 **%s** leads. Pick %d players for Quest %d.", leader.Name, mission.TeamSize, mission.Sequence)
		b.announce(s, channelID, content, []discordgo.MessageComponent{b.teamMenu(sess, userID, mission.TeamSize)})

	case models.PhaseTeamVoting:
		mission := sess.CurrentMission()
		if mission == nil {
			return
		}
		b.announce(s, channelID,
			fmt.Sprintf("A team stands proposed for Quest %d. Cast your votes!", mission.Sequence),
			voteButtons())

	case models.PhaseMissionPlay:
		mission := sess.CurrentMission()
		if mission == nil {
			return
		}
		b.announce(s, channelID,
			fmt.Sprintf("The team is approved! Quest %d members, play your cards.", mission.Sequence),
			cardButtons())
	}
}

// teamMenu builds the proposal menu from the redacted view
func (b *Bot) teamMenu(sess *models.GameSession, userID string, teamSize int) discordgo.SelectMenu {
	view, err := b.gameService.GetPlayerView(context.Background(), &game.GetPlayerViewInput{
		SessionID: sess.ID,
		PlayerID:  userID,
	})
	if err != nil {
		log.Printf("Error building team menu view: %v", err)
		return teamSelectMenu(&game.PlayerView{}, teamSize)
	}
	return teamSelectMenu(view.View, teamSize)
}

// assassinMenu builds the target menu from the redacted view
func (b *Bot) assassinMenu(sess *models.GameSession, userID string) discordgo.SelectMenu {
	view, err := b.gameService.GetPlayerView(context.Background(), &game.GetPlayerViewInput{
		SessionID: sess.ID,
		PlayerID:  userID,
	})
	if err != nil {
		log.Printf("Error building assassin menu view: %v", err)
		return assassinSelectMenu(&game.PlayerView{})
	}
	return assassinSelectMenu(view.View)
}

// gameOverLine summarizes a finished match for the channel
func gameOverLine(sess *models.GameSession) string {
	switch sess.Winner {
	case models.WinnerGood:
		return fmt.Sprintf("🏰 **Good wins!** %s. Use `/avalon reset` to play again with the same table.", sess.WinReason)
	case models.WinnerEvil:
		return fmt.Sprintf("💀 **Evil wins!** %s. Use `/avalon reset` to play again with the same table.", sess.WinReason)
	default:
		return "The match is over."
	}
}

// joinNames renders a short name list for announcements
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return fmt.Sprintf("%s and %s", strings.Join(names[:len(names)-1], ", "), names[len(names)-1])
	}
}
