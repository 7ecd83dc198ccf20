package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/ShyGirl95/Avalon/internal/common/clock/mocks"
	uuidMocks "github.com/ShyGirl95/Avalon/internal/common/uuid/mocks"
	"github.com/ShyGirl95/Avalon/internal/models"
	sessionRepo "github.com/ShyGirl95/Avalon/internal/repositories/session"
	sessionMocks "github.com/ShyGirl95/Avalon/internal/repositories/session/mocks"
	shuffleMocks "github.com/ShyGirl95/Avalon/internal/shuffle/mocks"
)

// Storage failures must surface unchanged; the engine never swallows them
// and never half-applies a mutation on top of one.
type RepoErrorTestSuite struct {
	suite.Suite
	mockCtrl    *gomock.Controller
	mockRepo    *sessionMocks.MockRepository
	gameService Service
	ctx         context.Context

	testTime time.Time
	repoErr  error
}

func (s *RepoErrorTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = sessionMocks.NewMockRepository(s.mockCtrl)

	mockShuffler := shuffleMocks.NewMockShuffler(s.mockCtrl)
	mockClock := clockMocks.NewMockClock(s.mockCtrl)
	mockUUID := uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.repoErr = errors.New("redis connection lost")

	mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	mockUUID.EXPECT().NewUUID().Return("test-session-id").AnyTimes()

	svc, err := New(&Config{
		SessionRepo:   s.mockRepo,
		Shuffler:      mockShuffler,
		Clock:         mockClock,
		UUIDGenerator: mockUUID,
	})
	s.Require().NoError(err)
	s.gameService = svc
}

func (s *RepoErrorTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *RepoErrorTestSuite) TestGetSessionPropagatesRepoError() {
	s.mockRepo.EXPECT().
		GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: "sess-1"}).
		Return(nil, s.repoErr)

	_, err := s.gameService.GetSession(s.ctx, &GetSessionInput{SessionID: "sess-1"})
	s.ErrorIs(err, s.repoErr)
}

func (s *RepoErrorTestSuite) TestGetSessionMapsNotFound() {
	s.mockRepo.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound)

	_, err := s.gameService.GetSession(s.ctx, &GetSessionInput{SessionID: "sess-1"})
	s.ErrorIs(err, ErrSessionNotFound)
}

func (s *RepoErrorTestSuite) TestCreateSessionLookupError() {
	s.mockRepo.EXPECT().
		GetSessionByChannel(s.ctx, gomock.Any()).
		Return(nil, s.repoErr)

	_, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{
		ChannelID:   "chan-1",
		CreatorID:   "p1",
		CreatorName: "Alice",
	})
	s.ErrorIs(err, s.repoErr)
}

func (s *RepoErrorTestSuite) TestCreateSessionSaveError() {
	s.mockRepo.EXPECT().
		GetSessionByChannel(s.ctx, gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound)
	s.mockRepo.EXPECT().
		SaveSession(s.ctx, gomock.Any()).
		Return(s.repoErr)

	_, err := s.gameService.CreateSession(s.ctx, &CreateSessionInput{
		ChannelID:   "chan-1",
		CreatorID:   "p1",
		CreatorName: "Alice",
	})
	s.ErrorIs(err, s.repoErr)
}

func (s *RepoErrorTestSuite) TestAddSpectatorSaveError() {
	sess := &models.GameSession{
		ID:    "sess-1",
		Phase: models.PhaseLobbySetup,
		Players: []*models.Player{
			{ID: "p1", Name: "Alice"},
		},
		Visions:       make(map[string]*models.Vision),
		RoleConfirmed: make(map[string]bool),
	}

	s.mockRepo.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(sess, nil)
	s.mockRepo.EXPECT().
		SaveSession(s.ctx, gomock.Any()).
		Return(s.repoErr)

	_, err := s.gameService.AddSpectator(s.ctx, &AddSpectatorInput{
		SessionID:  "sess-1",
		PlayerID:   "p2",
		PlayerName: "Bob",
	})
	s.ErrorIs(err, s.repoErr)
}

func TestRepoErrorSuite(t *testing.T) {
	suite.Run(t, new(RepoErrorTestSuite))
}
