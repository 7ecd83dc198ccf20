package game

import (
	"context"
	"fmt"

	"github.com/ShyGirl95/Avalon/internal/models"
)

// enterTeamSelection activates the next pending mission and hands the
// floor to the current leader. If the leader is a bot its proposal is
// applied immediately through the same path a human proposal takes.
func (s *service) enterTeamSelection(sess *models.GameSession) error {
	mission := sess.NextPendingMission()
	if mission == nil {
		return fmt.Errorf("%w: no pending mission to select a team for", ErrCorruptSession)
	}

	mission.Status = models.MissionStatusTeamSelection
	mission.Team = nil
	mission.Votes = make(map[string]models.Vote)
	mission.Cards = make(map[string]models.Card)
	mission.EligibleVoters = 0
	sess.Phase = models.PhaseTeamSelection

	return s.maybeBotPropose(sess)
}

// reopenTeamSelection puts the current mission back into team selection
// after a rejected vote, under the next leader
func (s *service) reopenTeamSelection(sess *models.GameSession, mission *models.Mission) error {
	s.rotateLeader(sess)

	mission.Status = models.MissionStatusTeamSelection
	mission.Team = nil
	mission.Votes = make(map[string]models.Vote)
	mission.EligibleVoters = 0
	sess.Phase = models.PhaseTeamSelection

	return s.maybeBotPropose(sess)
}

// maybeBotPropose drives a bot leader: it proposes itself plus the next
// roster players in seating order
func (s *service) maybeBotPropose(sess *models.GameSession) error {
	leader := sess.Leader()
	if leader == nil || !leader.IsBot {
		return nil
	}

	mission := sess.CurrentMission()
	if mission == nil || mission.Status != models.MissionStatusTeamSelection {
		return nil
	}

	members := make([]string, 0, mission.TeamSize)
	for i := 0; len(members) < mission.TeamSize; i++ {
		p := sess.Players[(sess.LeaderIndex+i)%len(sess.Players)]
		members = append(members, p.ID)
	}

	_, _, err := s.applyProposal(sess, mission, members)
	return err
}

// applyProposal commits a validated team and opens the vote round. The
// leader does not vote, so the barrier is roster size minus one.
func (s *service) applyProposal(sess *models.GameSession, mission *models.Mission, memberIDs []string) (resolved bool, approved bool, err error) {
	mission.Team = memberIDs
	mission.Status = models.MissionStatusTeamVoting
	mission.Votes = make(map[string]models.Vote)
	mission.EligibleVoters = len(sess.Players) - 1
	sess.Phase = models.PhaseTeamVoting

	return s.advanceVoteRound(sess, mission)
}

// advanceVoteRound records outstanding bot ballots and, once every
// eligible voter has voted, tallies the round. Approval needs a strict
// majority of cast ballots; a tie rejects.
func (s *service) advanceVoteRound(sess *models.GameSession, mission *models.Mission) (resolved bool, approved bool, err error) {
	leader := sess.Leader()
	for _, p := range sess.Players {
		if !p.IsBot || (leader != nil && p.ID == leader.ID) {
			continue
		}
		if _, voted := mission.Votes[p.ID]; !voted {
			mission.Votes[p.ID] = models.VoteApprove
		}
	}

	if len(mission.Votes) < mission.EligibleVoters {
		return false, false, nil
	}

	approve := 0
	for _, v := range mission.Votes {
		if v == models.VoteApprove {
			approve++
		}
	}
	approved = approve > len(mission.Votes)-approve

	if approved {
		mission.Status = models.MissionStatusInProgress
		mission.Cards = make(map[string]models.Card)
		sess.ConsecutiveRejections = 0
		sess.Phase = models.PhaseMissionPlay

		_, _, err = s.advanceCardRound(sess, mission)
		return true, true, err
	}

	sess.ConsecutiveRejections++
	if sess.ConsecutiveRejections >= s.config.MaxRejections {
		sess.EvilScore += s.config.MissionsToWin
		if sess.EvilScore > s.config.MissionsToWin {
			sess.EvilScore = s.config.MissionsToWin
		}
		mission.Status = models.MissionStatusFailed
		s.finish(sess, models.WinnerEvil, "four team proposals in a row were rejected")
		return true, false, nil
	}

	return true, false, s.reopenTeamSelection(sess, mission)
}

// advanceCardRound records outstanding bot cards and, once every team
// member has played, resolves the mission. Bot cards follow alignment.
func (s *service) advanceCardRound(sess *models.GameSession, mission *models.Mission) (resolved bool, succeeded bool, err error) {
	for _, p := range sess.Players {
		if !p.IsBot || !mission.OnTeam(p.ID) {
			continue
		}
		if _, played := mission.Cards[p.ID]; !played {
			if p.Role.Alignment() == models.AlignmentEvil {
				mission.Cards[p.ID] = models.CardFail
			} else {
				mission.Cards[p.ID] = models.CardSuccess
			}
		}
	}

	if len(mission.Cards) < len(mission.Team) {
		return false, false, nil
	}

	succeeded = mission.FailCount() < mission.FailsRequired
	if succeeded {
		mission.Status = models.MissionStatusSucceeded
		if sess.GoodScore < s.config.MissionsToWin {
			sess.GoodScore++
		}
	} else {
		mission.Status = models.MissionStatusFailed
		if sess.EvilScore < s.config.MissionsToWin {
			sess.EvilScore++
		}
	}

	switch {
	case sess.GoodScore >= s.config.MissionsToWin:
		// Good must survive the Assassin before the win is final
		sess.Phase = models.PhaseAssassination
		err = s.maybeBotAssassinate(sess)
	case sess.EvilScore >= s.config.MissionsToWin:
		s.finish(sess, models.WinnerEvil, "Evil sabotaged three quests")
	default:
		s.rotateLeader(sess)
		err = s.enterTeamSelection(sess)
	}

	return true, succeeded, err
}

// maybeBotAssassinate drives a bot Assassin: it shoots a random
// Good-aligned player
func (s *service) maybeBotAssassinate(sess *models.GameSession) error {
	var assassin *models.Player
	for _, p := range sess.Players {
		if p.Role == models.RoleAssassin {
			assassin = p
			break
		}
	}
	if assassin == nil {
		return fmt.Errorf("%w: assassination phase without an Assassin", ErrCorruptSession)
	}
	if !assassin.IsBot {
		return nil
	}

	var candidates []*models.Player
	for _, p := range sess.Players {
		if p.Role.Alignment() == models.AlignmentGood {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: no Good players to target", ErrCorruptSession)
	}

	target := candidates[s.shuffler.Intn(len(candidates))]
	s.applyAssassination(sess, target)
	return nil
}

// applyAssassination settles the match on the Assassin's pick
func (s *service) applyAssassination(sess *models.GameSession, target *models.Player) bool {
	if target.Role == models.RoleMerlin {
		s.finish(sess, models.WinnerEvil, fmt.Sprintf("the Assassin found Merlin (%s)", target.Name))
		return true
	}

	s.finish(sess, models.WinnerGood, fmt.Sprintf("the Assassin shot %s, but Merlin lives", target.Name))
	return false
}

// finish closes the match
func (s *service) finish(sess *models.GameSession, winner models.Winner, reason string) {
	sess.Phase = models.PhaseGameOver
	sess.Winner = winner
	sess.WinReason = reason
}

// rotateLeader advances leadership one seat clockwise
func (s *service) rotateLeader(sess *models.GameSession) {
	if len(sess.Players) == 0 {
		return
	}
	sess.LeaderIndex = (sess.LeaderIndex + 1) % len(sess.Players)
}

// ProposeTeam submits the leader's mission team. Validation happens
// before any mutation; a rejected proposal leaves the session untouched.
func (s *service) ProposeTeam(ctx context.Context, input *ProposeTeamInput) (*ProposeTeamOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.Phase != models.PhaseTeamSelection {
		return nil, fmt.Errorf("%w: no team is being selected right now", ErrIllegalPhaseAction)
	}

	leader := sess.Leader()
	if leader == nil || input.LeaderID != leader.ID {
		return nil, fmt.Errorf("%w: only the current leader may propose a team", ErrUnauthorizedActor)
	}

	mission := sess.CurrentMission()
	if mission == nil || mission.Status != models.MissionStatusTeamSelection {
		return nil, fmt.Errorf("%w: no mission is awaiting a team", ErrCorruptSession)
	}

	if len(input.MemberIDs) != mission.TeamSize {
		return nil, fmt.Errorf("%w: mission %d needs exactly %d members", ErrInvalidTeamSize, mission.Sequence, mission.TeamSize)
	}

	seen := make(map[string]bool, len(input.MemberIDs))
	for _, id := range input.MemberIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: %s appears more than once", ErrInvalidTeamSize, id)
		}
		seen[id] = true

		if sess.FindPlayer(id) == nil {
			return nil, fmt.Errorf("%w: %s is not on the roster", ErrPlayerNotFound, id)
		}
	}

	resolved, approved, err := s.applyProposal(sess, mission, input.MemberIDs)
	if err != nil {
		return nil, err
	}

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &ProposeTeamOutput{
		VoteResolved: resolved,
		Approved:     approved,
		Session:      sess,
	}, nil
}

// CastVote records a ballot on the proposed team. The leader does not
// vote; everyone else votes exactly once.
func (s *service) CastVote(ctx context.Context, input *CastVoteInput) (*CastVoteOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.Phase != models.PhaseTeamVoting {
		return nil, fmt.Errorf("%w: no team vote is open", ErrIllegalPhaseAction)
	}

	mission := sess.CurrentMission()
	if mission == nil || mission.Status != models.MissionStatusTeamVoting {
		return nil, fmt.Errorf("%w: no mission is being voted on", ErrCorruptSession)
	}

	voter := sess.FindPlayer(input.PlayerID)
	if voter == nil {
		return nil, fmt.Errorf("%w: %s is not on the roster", ErrPlayerNotFound, input.PlayerID)
	}

	leader := sess.Leader()
	if leader != nil && voter.ID == leader.ID {
		return nil, fmt.Errorf("%w: the leader does not vote on their own proposal", ErrUnauthorizedActor)
	}

	if _, voted := mission.Votes[voter.ID]; voted {
		return nil, fmt.Errorf("%w: ballot already cast", ErrDuplicateAction)
	}

	mission.Votes[voter.ID] = input.Vote

	resolved, approved, err := s.advanceVoteRound(sess, mission)
	if err != nil {
		return nil, err
	}

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &CastVoteOutput{
		VoteResolved: resolved,
		Approved:     approved,
		Session:      sess,
	}, nil
}

// PlayCard records a team member's mission card. Good players may only
// play success.
func (s *service) PlayCard(ctx context.Context, input *PlayCardInput) (*PlayCardOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.Phase != models.PhaseMissionPlay {
		return nil, fmt.Errorf("%w: no mission is underway", ErrIllegalPhaseAction)
	}

	mission := sess.CurrentMission()
	if mission == nil || mission.Status != models.MissionStatusInProgress {
		return nil, fmt.Errorf("%w: no mission is in progress", ErrCorruptSession)
	}

	player := sess.FindPlayer(input.PlayerID)
	if player == nil {
		return nil, fmt.Errorf("%w: %s is not on the roster", ErrPlayerNotFound, input.PlayerID)
	}

	if !mission.OnTeam(player.ID) {
		return nil, fmt.Errorf("%w: only team members play mission cards", ErrUnauthorizedActor)
	}

	if _, played := mission.Cards[player.ID]; played {
		return nil, fmt.Errorf("%w: card already played", ErrDuplicateAction)
	}

	if input.Card == models.CardFail && player.Role.Alignment() == models.AlignmentGood {
		return nil, fmt.Errorf("%w: Good players can only play success", ErrIllegalCardChoice)
	}

	mission.Cards[player.ID] = input.Card

	resolved, succeeded, err := s.advanceCardRound(sess, mission)
	if err != nil {
		return nil, err
	}

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &PlayCardOutput{
		MissionResolved:  resolved,
		MissionSucceeded: succeeded,
		Session:          sess,
	}, nil
}

// Assassinate resolves the Assassin's attempt on Merlin and ends the match
func (s *service) Assassinate(ctx context.Context, input *AssassinateInput) (*AssassinateOutput, error) {
	sess, err := s.loadSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	if sess.Phase != models.PhaseAssassination {
		return nil, fmt.Errorf("%w: the Assassin has no shot to take", ErrIllegalPhaseAction)
	}

	actor := sess.FindPlayer(input.PlayerID)
	if actor == nil {
		return nil, fmt.Errorf("%w: %s is not on the roster", ErrPlayerNotFound, input.PlayerID)
	}

	if actor.Role != models.RoleAssassin {
		return nil, fmt.Errorf("%w: only the Assassin takes the final shot", ErrUnauthorizedActor)
	}

	target := sess.FindPlayer(input.TargetID)
	if target == nil {
		return nil, fmt.Errorf("%w: %s is not on the roster", ErrPlayerNotFound, input.TargetID)
	}

	wasMerlin := s.applyAssassination(sess, target)

	if err := s.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	return &AssassinateOutput{
		TargetWasMerlin: wasMerlin,
		Session:         sess,
	}, nil
}
