package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ShyGirl95/Avalon/internal/models"
	"github.com/ShyGirl95/Avalon/internal/services/game"
)

// statusEmoji maps a mission status to its board marker
func statusEmoji(status models.MissionStatus) string {
	switch status {
	case models.MissionStatusSucceeded:
		return "🔵"
	case models.MissionStatusFailed:
		return "🔴"
	case models.MissionStatusPending:
		return "⚪"
	default:
		return "🟡"
	}
}

// phaseLine describes the current phase for the board header
func phaseLine(view *game.PlayerView) string {
	switch view.Phase {
	case models.PhaseLobbySetup:
		if view.LobbyLocked {
			return "Gathering players. The lobby is locked; the leader can open it with `/avalon lock`."
		}
		return "Gathering players. The lobby is open, spectators may join the roster."
	case models.PhaseRoleReveal:
		return "Roles are dealt. Waiting for everyone to confirm their card."
	case models.PhaseTeamSelection:
		return "The leader is choosing a quest team."
	case models.PhaseTeamVoting:
		return "Vote on the proposed team!"
	case models.PhaseMissionPlay:
		return "The quest team is playing their cards."
	case models.PhaseAssassination:
		return "Good claimed three quests... but the Assassin gets one shot at Merlin."
	case models.PhaseGameOver:
		switch view.Winner {
		case models.WinnerGood:
			return fmt.Sprintf("**Good wins!** %s", view.WinReason)
		case models.WinnerEvil:
			return fmt.Sprintf("**Evil wins!** %s", view.WinReason)
		}
		return "The match is over."
	default:
		return ""
	}
}

// renderBoardFields builds the shared, spoiler-free board for a view
func renderBoardFields(view *game.PlayerView) []*discordgo.MessageEmbedField {
	var missions []string
	for _, m := range view.Missions {
		line := fmt.Sprintf("%s Quest %d · team of %d", statusEmoji(m.Status), m.Sequence, m.TeamSize)
		if len(m.Team) > 0 && !m.Status.Terminal() {
			line += fmt.Sprintf(" · proposed: %s", strings.Join(teamNames(view, m.Team), ", "))
		}
		if m.Status == models.MissionStatusFailed && m.FailCount > 0 {
			line += fmt.Sprintf(" · %d fail card(s)", m.FailCount)
		}
		missions = append(missions, line)
	}

	var players []string
	for _, p := range view.Players {
		line := p.Name
		if p.IsLeader {
			line = "👑 " + line
		}
		if p.IsBot {
			line += " 🤖"
		}
		if p.OnTeam {
			line += " ⚔️"
		}
		if p.HasVoted {
			line += " ✅"
		}
		players = append(players, line)
	}

	return []*discordgo.MessageEmbedField{
		{
			Name:  fmt.Sprintf("Score — Good %d : %d Evil", view.GoodScore, view.EvilScore),
			Value: fmt.Sprintf("Rejected proposals in a row: %d of 4", view.ConsecutiveRejections),
		},
		{
			Name:  "Quests",
			Value: strings.Join(missions, "\n"),
		},
		{
			Name:  "Players",
			Value: strings.Join(players, "\n"),
		},
	}
}

// teamNames resolves player IDs to display names
func teamNames(view *game.PlayerView, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := id
		for _, p := range view.Players {
			if p.ID == id {
				name = p.Name
				break
			}
		}
		names = append(names, name)
	}
	return names
}

// renderRoleCard builds the ephemeral role reveal for one player,
// including whatever their role lets them see
func renderRoleCard(view *game.PlayerView) (string, string) {
	role := view.YourRole
	title := fmt.Sprintf("You are %s", role.DisplayName())

	var lines []string
	if desc := role.Description(); desc != "" {
		lines = append(lines, desc)
	}

	var seen []string
	for _, p := range view.Players {
		switch p.SeenAs {
		case models.VisionEvil:
			seen = append(seen, fmt.Sprintf("**%s** serves Evil", p.Name))
		case models.VisionMerlinOrMorgana:
			seen = append(seen, fmt.Sprintf("**%s** is Merlin or Morgana", p.Name))
		}
	}

	if len(seen) > 0 {
		lines = append(lines, "", "Your sight shows:")
		lines = append(lines, seen...)
		lines = append(lines, "", "Memorize it. The vision fades in a few seconds.")
	}

	return title, strings.Join(lines, "\n")
}

// confirmRoleButton is shown to each player during role reveal
func confirmRoleButton() discordgo.Button {
	return discordgo.Button{
		Label:    "Reveal my role",
		Style:    discordgo.PrimaryButton,
		CustomID: ButtonConfirmRole,
		Emoji: &discordgo.ComponentEmoji{
			Name: "🎭",
		},
	}
}

// voteButtons are shown while a team vote is open
func voteButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Approve",
			Style:    discordgo.SuccessButton,
			CustomID: ButtonVoteApprove,
			Emoji: &discordgo.ComponentEmoji{
				Name: "👍",
			},
		},
		discordgo.Button{
			Label:    "Reject",
			Style:    discordgo.DangerButton,
			CustomID: ButtonVoteReject,
			Emoji: &discordgo.ComponentEmoji{
				Name: "👎",
			},
		},
	}
}

// cardButtons are shown to quest team members
func cardButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Success",
			Style:    discordgo.SuccessButton,
			CustomID: ButtonPlaySuccess,
		},
		discordgo.Button{
			Label:    "Fail",
			Style:    discordgo.DangerButton,
			CustomID: ButtonPlayFail,
		},
	}
}

// teamSelectMenu lets the leader pick exactly the mission's team size
func teamSelectMenu(view *game.PlayerView, teamSize int) discordgo.SelectMenu {
	options := make([]discordgo.SelectMenuOption, 0, len(view.Players))
	for _, p := range view.Players {
		options = append(options, discordgo.SelectMenuOption{
			Label:       p.Name,
			Value:       p.ID,
			Description: "Send on the quest",
		})
	}

	minValues := teamSize
	return discordgo.SelectMenu{
		CustomID:    SelectProposeTeam,
		Placeholder: fmt.Sprintf("Pick %d players for the quest", teamSize),
		MinValues:   &minValues,
		MaxValues:   teamSize,
		Options:     options,
	}
}

// assassinSelectMenu lets the Assassin pick a target
func assassinSelectMenu(view *game.PlayerView) discordgo.SelectMenu {
	options := make([]discordgo.SelectMenuOption, 0, len(view.Players))
	for _, p := range view.Players {
		options = append(options, discordgo.SelectMenuOption{
			Label:       p.Name,
			Value:       p.ID,
			Description: "Shoot this player",
			Emoji: &discordgo.ComponentEmoji{
				Name: "🗡️",
			},
		})
	}

	one := 1
	return discordgo.SelectMenu{
		CustomID:    SelectAssassinTarget,
		Placeholder: "Who is Merlin?",
		MinValues:   &one,
		MaxValues:   1,
		Options:     options,
	}
}

// componentsForPhase returns the action row matching what the viewer can
// currently do, or nil when there is nothing to click
func componentsForPhase(view *game.PlayerView, userID string) []discordgo.MessageComponent {
	switch view.Phase {
	case models.PhaseRoleReveal:
		return []discordgo.MessageComponent{confirmRoleButton()}
	case models.PhaseTeamVoting:
		return voteButtons()
	case models.PhaseMissionPlay:
		for _, p := range view.Players {
			if p.ID == userID && p.OnTeam {
				return cardButtons()
			}
		}
		return nil
	default:
		return nil
	}
}
