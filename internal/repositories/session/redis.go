package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ShyGirl95/Avalon/internal/models"
)

const (
	// Key prefixes for Redis
	sessionKeyPrefix  = "session:"
	channelKeyPrefix  = "channel:"
	activeSessionsKey = "active_sessions"
)

// ErrSessionNotFound is returned when a session is not found
var ErrSessionNotFound = errors.New("session not found")

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveSession persists a session to Redis
func (r *redisRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.Session.ID)
	pipe.Set(ctx, sessionKey, sessionJSON, 0)

	// Keep the channel-to-session mapping current
	if input.Session.ChannelID != "" {
		channelKey := fmt.Sprintf("%s%s", channelKeyPrefix, input.Session.ChannelID)
		pipe.Set(ctx, channelKey, input.Session.ID, 0)
	}

	// Track unfinished sessions in the active set
	if input.Session.Active() {
		pipe.SAdd(ctx, activeSessionsKey, input.Session.ID)
	} else {
		pipe.SRem(ctx, activeSessionsKey, input.Session.ID)
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID from Redis
func (r *redisRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.GameSession, error) {
	if input == nil || input.SessionID == "" {
		return nil, errors.New("input and session ID cannot be empty")
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess models.GameSession
	if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &sess, nil
}

// GetSessionByChannel retrieves a session by channel ID from Redis
func (r *redisRepository) GetSessionByChannel(ctx context.Context, input *GetSessionByChannelInput) (*models.GameSession, error) {
	if input == nil || input.ChannelID == "" {
		return nil, errors.New("input and channel ID cannot be empty")
	}

	channelKey := fmt.Sprintf("%s%s", channelKeyPrefix, input.ChannelID)
	sessionID, err := r.client.Get(ctx, channelKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session ID for channel: %w", err)
	}

	return r.GetSession(ctx, &GetSessionInput{
		SessionID: sessionID,
	})
}

// DeleteSession removes a session from Redis
func (r *redisRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.SessionID == "" {
		return errors.New("input and session ID cannot be empty")
	}

	// Get the session first to find its channel mapping
	sess, err := r.GetSession(ctx, &GetSessionInput{
		SessionID: input.SessionID,
	})
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, input.SessionID)
	pipe.Del(ctx, sessionKey)

	if sess.ChannelID != "" {
		channelKey := fmt.Sprintf("%s%s", channelKeyPrefix, sess.ChannelID)
		pipe.Del(ctx, channelKey)
	}

	pipe.SRem(ctx, activeSessionsKey, input.SessionID)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// ListActiveSessions retrieves all unfinished sessions from Redis
func (r *redisRepository) ListActiveSessions(ctx context.Context, input *ListActiveSessionsInput) (*ListActiveSessionsOutput, error) {
	sessionIDs, err := r.client.SMembers(ctx, activeSessionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active session IDs: %w", err)
	}

	if len(sessionIDs) == 0 {
		return &ListActiveSessionsOutput{
			Sessions: []*models.GameSession{},
		}, nil
	}

	pipe := r.client.Pipeline()
	sessionCommands := make(map[string]*redis.StringCmd)

	for _, sessionID := range sessionIDs {
		sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
		sessionCommands[sessionID] = pipe.Get(ctx, sessionKey)
	}

	_, err = pipe.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active sessions: %w", err)
	}

	sessions := make([]*models.GameSession, 0, len(sessionIDs))
	for sessionID, cmd := range sessionCommands {
		sessionJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Session was deleted between listing the set and the fetch
				continue
			}
			return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
		}

		var sess models.GameSession
		if err := json.Unmarshal([]byte(sessionJSON), &sess); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
		}

		sessions = append(sessions, &sess)
	}

	return &ListActiveSessionsOutput{
		Sessions: sessions,
	}, nil
}
