package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/ShyGirl95/Avalon/internal/repositories/session Repository

import (
	"context"

	"github.com/ShyGirl95/Avalon/internal/models"
)

// Repository defines the interface for game session storage. The store is
// ephemeral: sessions live only as long as the process cares to keep them.
type Repository interface {
	// SaveSession persists a session
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, input *GetSessionInput) (*models.GameSession, error)

	// GetSessionByChannel retrieves a session by channel ID
	GetSessionByChannel(ctx context.Context, input *GetSessionByChannelInput) (*models.GameSession, error)

	// DeleteSession removes a session
	DeleteSession(ctx context.Context, input *DeleteSessionInput) error

	// ListActiveSessions retrieves all sessions that have not finished
	ListActiveSessions(ctx context.Context, input *ListActiveSessionsInput) (*ListActiveSessionsOutput, error)
}
