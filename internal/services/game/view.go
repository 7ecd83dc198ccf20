package game

import (
	"context"

	"github.com/ShyGirl95/Avalon/internal/models"
)

// GetPlayerView returns a redacted snapshot safe to show one player. The
// viewer sees their own role, their own vision while the window is open,
// vote tallies only after the round closes, and fail counts only for
// resolved missions. No other player's role ever appears.
func (s *service) GetPlayerView(ctx context.Context, input *GetPlayerViewInput) (*GetPlayerViewOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if s.pruneExpiredVisions(sess) {
		if err := s.saveSession(ctx, sess); err != nil {
			return nil, err
		}
	}

	return &GetPlayerViewOutput{
		View: buildPlayerView(sess, input.PlayerID),
	}, nil
}

func buildPlayerView(sess *models.GameSession, viewerID string) *PlayerView {
	view := &PlayerView{
		SessionID:             sess.ID,
		Phase:                 sess.Phase,
		GoodScore:             sess.GoodScore,
		EvilScore:             sess.EvilScore,
		ConsecutiveRejections: sess.ConsecutiveRejections,
		LobbyLocked:           sess.LobbyLocked,
		Winner:                sess.Winner,
		WinReason:             sess.WinReason,
	}

	leader := sess.Leader()
	if leader != nil {
		view.LeaderID = leader.ID
	}

	viewer := sess.FindPlayer(viewerID)
	if viewer != nil {
		view.YourRole = viewer.Role
	}

	// The vision window opens at role confirmation; a zero deadline means
	// the viewer has not confirmed yet and sees nothing
	vision := sess.Visions[viewerID]
	if vision == nil || vision.ExpiresAt.IsZero() {
		vision = nil
	} else {
		view.VisionExpiresAt = vision.ExpiresAt
	}

	current := sess.CurrentMission()

	for _, p := range sess.Players {
		pub := PlayerPublic{
			ID:       p.ID,
			Name:     p.Name,
			IsBot:    p.IsBot,
			IsLeader: leader != nil && p.ID == leader.ID,
		}

		if current != nil {
			pub.OnTeam = current.OnTeam(p.ID)
			if current.Status == models.MissionStatusTeamVoting {
				_, pub.HasVoted = current.Votes[p.ID]
			}
		}

		if vision != nil {
			pub.SeenAs = vision.Seen[p.ID]
		}

		view.Players = append(view.Players, pub)
	}

	for _, m := range sess.Missions {
		pub := MissionPublic{
			Sequence:      m.Sequence,
			TeamSize:      m.TeamSize,
			FailsRequired: m.FailsRequired,
			Status:        m.Status,
			Team:          append([]string(nil), m.Team...),
		}

		// Individual ballots stay hidden until the round closes
		if m.Status != models.MissionStatusTeamVoting && len(m.Votes) > 0 {
			pub.Votes = make(map[string]models.Vote, len(m.Votes))
			for id, v := range m.Votes {
				pub.Votes[id] = v
			}
		}

		// Cards are anonymous; only the aggregate fail count of a
		// resolved mission is ever shown
		if m.Status.Terminal() {
			pub.FailCount = m.FailCount()
		}

		view.Missions = append(view.Missions, pub)
	}

	return view
}
