package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gridduel/tictactoe-rooms-backend/internal/apperror"
)

// Session binds one live connection to a room and a role within it.
type Session struct {
	ConnectionID string `json:"connection_id"`
	RoomCode     string `json:"room_code"`
	Mark         string `json:"mark,omitempty"`
	Spectator    bool   `json:"spectator,omitempty"`
}

type SessionRepository interface {
	CreateOrUpdate(ctx context.Context, session *Session) error
	GetByConnectionID(ctx context.Context, connectionID string) (*Session, error)
	DeleteByConnectionID(ctx context.Context, connectionID string) error
}

type dbSession struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) SessionRepository {
	return &dbSession{
		client: client,
	}
}

func (that *dbSession) CreateOrUpdate(ctx context.Context, session *Session) error {
	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	sessionKey := "session:" + session.ConnectionID
	if err = that.client.Set(ctx, sessionKey, sessionJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByConnectionID(ctx context.Context, connectionID string) (*Session, error) {
	sessionKey := "session:" + connectionID

	response, err := that.client.Get(ctx, sessionKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrNotInRoom
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by connection id: %w", err)
	}

	var existingSession Session
	if err = json.Unmarshal([]byte(response), &existingSession); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &existingSession, nil
}

func (that *dbSession) DeleteByConnectionID(ctx context.Context, connectionID string) error {
	sessionKey := "session:" + connectionID

	if err := that.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session by connection id: %w", err)
	}

	return nil
}
