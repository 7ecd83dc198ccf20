package session

import "github.com/ShyGirl95/Avalon/internal/models"

type SaveSessionInput struct {
	Session *models.GameSession
}

type GetSessionInput struct {
	SessionID string
}

type GetSessionByChannelInput struct {
	ChannelID string
}

type DeleteSessionInput struct {
	SessionID string
}

type ListActiveSessionsInput struct {
}

type ListActiveSessionsOutput struct {
	Sessions []*models.GameSession
}
