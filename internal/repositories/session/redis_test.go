package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/ShyGirl95/Avalon/internal/models"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	// Create a Redis client connected to the miniredis server
	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	// Create the repository
	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newSession(id, channelID string, phase models.Phase) *models.GameSession {
	return &models.GameSession{
		ID:        id,
		ChannelID: channelID,
		CreatorID: "test-creator-id",
		Phase:     phase,
		Players: []*models.Player{
			{ID: "test-player-id", Name: "Test Player"},
		},
		Missions: []*models.Mission{
			{Sequence: 1, TeamSize: 2, FailsRequired: 1, Status: models.MissionStatusPending},
		},
		LobbyLocked: true,
		CreatedAt:   s.testNow,
		UpdatedAt:   s.testNow,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetSession() {
	sess := s.newSession("test-session-id", "test-channel-id", models.PhaseLobbySetup)
	sess.Visions = map[string]*models.Vision{
		"test-player-id": {
			Seen:      map[string]models.VisionKind{"other-player-id": models.VisionEvil},
			ExpiresAt: s.testNow.Add(10 * time.Second),
		},
	}

	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: sess,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		SessionID: "test-session-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-session-id", retrieved.ID)
	s.Equal("test-channel-id", retrieved.ChannelID)
	s.Equal("test-creator-id", retrieved.CreatorID)
	s.Equal(models.PhaseLobbySetup, retrieved.Phase)
	s.Len(retrieved.Players, 1)
	s.Equal("test-player-id", retrieved.Players[0].ID)
	s.Len(retrieved.Missions, 1)
	s.Equal(models.MissionStatusPending, retrieved.Missions[0].Status)
	s.True(retrieved.LobbyLocked)
	s.Require().Contains(retrieved.Visions, "test-player-id")
	s.Equal(models.VisionEvil, retrieved.Visions["test-player-id"].Seen["other-player-id"])
	s.Equal(s.testNow.Unix(), retrieved.CreatedAt.Unix())
}

func (s *RedisRepositoryTestSuite) TestGetSessionNotFound() {
	_, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		SessionID: "missing-session-id",
	})
	s.Require().Error(err)
	s.Equal(ErrSessionNotFound, err)
}

func (s *RedisRepositoryTestSuite) TestGetSessionByChannel() {
	sess := s.newSession("test-session-id", "test-channel-id", models.PhaseTeamSelection)

	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: sess,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetSessionByChannel(context.Background(), &GetSessionByChannelInput{
		ChannelID: "test-channel-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-session-id", retrieved.ID)
	s.Equal("test-channel-id", retrieved.ChannelID)
}

func (s *RedisRepositoryTestSuite) TestListActiveSessions() {
	lobby := s.newSession("lobby-session-id", "lobby-channel-id", models.PhaseLobbySetup)
	playing := s.newSession("playing-session-id", "playing-channel-id", models.PhaseMissionPlay)
	finished := s.newSession("finished-session-id", "finished-channel-id", models.PhaseGameOver)
	finished.Winner = models.WinnerEvil

	s.Require().NoError(s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: lobby}))
	s.Require().NoError(s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: playing}))
	s.Require().NoError(s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: finished}))

	result, err := s.repo.ListActiveSessions(context.Background(), &ListActiveSessionsInput{})
	s.Require().NoError(err)
	s.Require().NotNil(result)

	// Only unfinished sessions are returned
	s.Len(result.Sessions, 2)

	sessionMap := make(map[string]*models.GameSession)
	for _, sess := range result.Sessions {
		sessionMap[sess.ID] = sess
	}

	_, ok := sessionMap["lobby-session-id"]
	s.True(ok)
	_, ok = sessionMap["playing-session-id"]
	s.True(ok)
	_, ok = sessionMap["finished-session-id"]
	s.False(ok)
}

func (s *RedisRepositoryTestSuite) TestDeleteSession() {
	sess := s.newSession("test-session-id", "test-channel-id", models.PhaseTeamVoting)

	err := s.repo.SaveSession(context.Background(), &SaveSessionInput{
		Session: sess,
	})
	s.Require().NoError(err)

	err = s.repo.DeleteSession(context.Background(), &DeleteSessionInput{
		SessionID: "test-session-id",
	})
	s.Require().NoError(err)

	_, err = s.repo.GetSession(context.Background(), &GetSessionInput{
		SessionID: "test-session-id",
	})
	s.Require().Error(err)
	s.Equal(ErrSessionNotFound, err)

	// The channel mapping is removed as well
	_, err = s.repo.GetSessionByChannel(context.Background(), &GetSessionByChannelInput{
		ChannelID: "test-channel-id",
	})
	s.Require().Error(err)
	s.Equal(ErrSessionNotFound, err)

	// And the session no longer counts as active
	result, err := s.repo.ListActiveSessions(context.Background(), &ListActiveSessionsInput{})
	s.Require().NoError(err)
	s.Len(result.Sessions, 0)
}

func (s *RedisRepositoryTestSuite) TestFinishedSessionLeavesActiveSet() {
	sess := s.newSession("test-session-id", "test-channel-id", models.PhaseMissionPlay)

	s.Require().NoError(s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: sess}))

	result, err := s.repo.ListActiveSessions(context.Background(), &ListActiveSessionsInput{})
	s.Require().NoError(err)
	s.Len(result.Sessions, 1)

	// Finish the match and save again
	sess.Phase = models.PhaseGameOver
	sess.Winner = models.WinnerGood
	sess.UpdatedAt = s.testNow.Add(time.Minute)

	s.Require().NoError(s.repo.SaveSession(context.Background(), &SaveSessionInput{Session: sess}))

	result, err = s.repo.ListActiveSessions(context.Background(), &ListActiveSessionsInput{})
	s.Require().NoError(err)
	s.Len(result.Sessions, 0)

	// The session itself is still readable
	retrieved, err := s.repo.GetSession(context.Background(), &GetSessionInput{
		SessionID: "test-session-id",
	})
	s.Require().NoError(err)
	s.Equal(models.WinnerGood, retrieved.Winner)
}
