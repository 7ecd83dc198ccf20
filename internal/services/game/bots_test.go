package game

import (
	"time"

	"github.com/ShyGirl95/Avalon/internal/models"
	sessionRepo "github.com/ShyGirl95/Avalon/internal/repositories/session"
)

// promoteBots fills the roster with the four seeded bot spectators
func (s *GameServiceTestSuite) promoteBots() {
	for _, id := range []string{"bot-alice", "bot-bob", "bot-charlie", "bot-dave"} {
		_, err := s.gameService.JoinAsPlayer(s.ctx, &JoinAsPlayerInput{
			SessionID:   s.testSessionID,
			SpectatorID: id,
			RequestorID: s.creatorID,
		})
		s.Require().NoError(err)
	}
}

// With one human and four bots the identity shuffle seats the human as
// Merlin and makes bot-charlie (Morgana) and bot-dave (the Assassin) the
// Evil pair. Every bot decision resolves through the same record path a
// human action takes, so a single human input can cascade through
// proposals, votes and cards.
func (s *GameServiceTestSuite) TestBotsResolveWholeRounds() {
	s.createLobby()
	s.promoteBots()
	s.expectIdentityShuffle()

	start, err := s.gameService.StartGame(s.ctx, &StartGameInput{
		SessionID: s.testSessionID,
		PlayerID:  s.creatorID,
	})
	s.Require().NoError(err)

	// Bots never acknowledge; only the human confirmation is outstanding
	s.Len(start.Session.RoleConfirmed, 4)

	confirm, err := s.gameService.ConfirmRoleSeen(s.ctx, &ConfirmRoleSeenInput{
		SessionID: s.testSessionID,
		PlayerID:  s.creatorID,
	})
	s.Require().NoError(err)
	s.True(confirm.AllConfirmed)
	s.Equal(models.PhaseTeamSelection, confirm.Session.Phase)

	// Human leader proposes; all four eligible voters are bots, so the
	// vote closes inside the proposal call
	proposal, err := s.gameService.ProposeTeam(s.ctx, &ProposeTeamInput{
		SessionID: s.testSessionID,
		LeaderID:  s.creatorID,
		MemberIDs: []string{"p1", "bot-alice"},
	})
	s.Require().NoError(err)
	s.True(proposal.VoteResolved)
	s.True(proposal.Approved)
	s.Equal(models.PhaseMissionPlay, proposal.Session.Phase)

	// bot-alice's success card is already in; the human card resolves the
	// mission and hands leadership to bot-alice, whose proposal and the
	// bot ballots land before the call returns
	play, err := s.gameService.PlayCard(s.ctx, &PlayCardInput{
		SessionID: s.testSessionID,
		PlayerID:  "p1",
		Card:      models.CardSuccess,
	})
	s.Require().NoError(err)
	s.True(play.MissionResolved)
	s.True(play.MissionSucceeded)

	sess := play.Session
	s.Equal(1, sess.GoodScore)
	s.Equal("bot-alice", sess.Leader().ID)
	s.Equal(models.PhaseTeamVoting, sess.Phase)
	s.Equal([]string{"bot-alice", "bot-bob", "bot-charlie"}, sess.Missions[1].Team)
	s.Len(sess.Missions[1].Votes, 3)

	// The human approval closes the vote; the all-bot team plays out
	// immediately and Morgana sinks the mission. Leadership passes to
	// bot-bob whose proposal opens the next vote.
	vote, err := s.gameService.CastVote(s.ctx, &CastVoteInput{
		SessionID: s.testSessionID,
		PlayerID:  "p1",
		Vote:      models.VoteApprove,
	})
	s.Require().NoError(err)
	s.True(vote.VoteResolved)
	s.True(vote.Approved)

	sess = vote.Session
	s.Equal(models.MissionStatusFailed, sess.Missions[1].Status)
	s.Equal(1, sess.EvilScore)
	s.Equal("bot-bob", sess.Leader().ID)
	s.Equal(models.PhaseTeamVoting, sess.Phase)
	s.Equal([]string{"bot-bob", "bot-charlie"}, sess.Missions[2].Team)

	// Mission 3: bot-charlie fails it too
	vote, err = s.gameService.CastVote(s.ctx, &CastVoteInput{
		SessionID: s.testSessionID,
		PlayerID:  "p1",
		Vote:      models.VoteApprove,
	})
	s.Require().NoError(err)
	s.Equal(2, vote.Session.EvilScore)
	s.Equal("bot-charlie", vote.Session.Leader().ID)
	s.Equal([]string{"bot-charlie", "bot-dave", "p1"}, vote.Session.Missions[3].Team)

	// Mission 4 includes the human, so after the vote closes the round
	// waits for the human card before both Evil cards decide the match
	vote, err = s.gameService.CastVote(s.ctx, &CastVoteInput{
		SessionID: s.testSessionID,
		PlayerID:  "p1",
		Vote:      models.VoteApprove,
	})
	s.Require().NoError(err)
	s.Equal(models.PhaseMissionPlay, vote.Session.Phase)

	final, err := s.gameService.PlayCard(s.ctx, &PlayCardInput{
		SessionID: s.testSessionID,
		PlayerID:  "p1",
		Card:      models.CardSuccess,
	})
	s.Require().NoError(err)
	s.True(final.MissionResolved)
	s.False(final.MissionSucceeded)
	s.Equal(3, final.Session.EvilScore)
	s.Equal(models.PhaseGameOver, final.Session.Phase)
	s.Equal(models.WinnerEvil, final.Session.Winner)
}

func (s *GameServiceTestSuite) TestBotAssassinShootsOnGoodThirdWin() {
	missions, err := missionPlan(5)
	s.Require().NoError(err)

	missions[0].Status = models.MissionStatusSucceeded
	missions[1].Status = models.MissionStatusSucceeded
	missions[2].Status = models.MissionStatusInProgress
	missions[2].Team = []string{"p1", "p2"}
	missions[2].EligibleVoters = 4
	missions[2].Votes = map[string]models.Vote{
		"p2": models.VoteApprove, "p4": models.VoteApprove, "p5": models.VoteApprove,
	}
	missions[2].Cards = map[string]models.Card{"p1": models.CardSuccess}

	sess := &models.GameSession{
		ID:        s.testSessionID,
		ChannelID: s.testChannelID,
		CreatorID: "p1",
		Phase:     models.PhaseMissionPlay,
		Players: []*models.Player{
			{ID: "p1", Name: "Alice", Role: models.RoleMerlin},
			{ID: "p2", Name: "Bob", Role: models.RolePercival},
			{ID: "p3", Name: "Carol", Role: models.RoleLoyalServant},
			{ID: "p4", Name: "Dan", Role: models.RoleMorgana},
			{ID: "p5", Name: "Evebot", Role: models.RoleAssassin, IsBot: true},
		},
		Missions:      missions,
		GoodScore:     2,
		LeaderIndex:   2,
		LobbyLocked:   true,
		Visions:       make(map[string]*models.Vision),
		RoleConfirmed: map[string]bool{"p1": true, "p2": true, "p3": true, "p4": true, "p5": true},
		CreatedAt:     s.now,
		UpdatedAt:     s.now,
	}
	s.Require().NoError(s.repo.SaveSession(s.ctx, &sessionRepo.SaveSessionInput{Session: sess}))

	// Good-aligned candidates in seat order are p1, p2, p3; index 0 is Merlin
	s.mockShuffler.EXPECT().Intn(3).Return(0)

	out, err := s.gameService.PlayCard(s.ctx, &PlayCardInput{
		SessionID: s.testSessionID,
		PlayerID:  "p2",
		Card:      models.CardSuccess,
	})
	s.Require().NoError(err)
	s.True(out.MissionSucceeded)
	s.Equal(3, out.Session.GoodScore)
	s.Equal(models.PhaseGameOver, out.Session.Phase)
	s.Equal(models.WinnerEvil, out.Session.Winner)
	s.Contains(out.Session.WinReason, "Merlin")
}

func (s *GameServiceTestSuite) TestBotVisionWindowIrrelevant() {
	s.createLobby()
	s.promoteBots()
	s.expectIdentityShuffle()

	_, err := s.gameService.StartGame(s.ctx, &StartGameInput{
		SessionID: s.testSessionID,
		PlayerID:  s.creatorID,
	})
	s.Require().NoError(err)

	// Bot visions exist but never open a window; pruning leaves them alone
	s.now = s.now.Add(time.Hour)

	out, err := s.gameService.GetSession(s.ctx, &GetSessionInput{SessionID: s.testSessionID})
	s.Require().NoError(err)
	s.NotNil(out.Session.Visions["bot-charlie"])
	s.True(out.Session.Visions["bot-charlie"].ExpiresAt.IsZero())
}
