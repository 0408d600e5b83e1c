package usecase

import (
	"context"
	"fmt"

	"github.com/gridduel/tictactoe-rooms-backend/internal/entity"
)

// GameUseCase is the single surface the transports talk to.
type GameUseCase interface {
	CreateRoom(ctx context.Context, connectionID, name, avatar string) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, code, connectionID, name, avatar string) (*entity.Room, *entity.Player, error)
	WatchRoom(ctx context.Context, code, connectionID string) (*entity.Room, error)

	MakeTurn(ctx context.Context, connectionID string, row, col int) (*entity.Room, error)
	RestartGame(ctx context.Context, connectionID string) (*entity.Room, error)

	LeaveRoom(ctx context.Context, connectionID string) (*entity.Room, *entity.Player, error)
}

type gamePlayService interface {
	CreateRoom(ctx context.Context, connectionID, name, avatar string) (*entity.Room, *entity.Player, error)
	JoinRoom(ctx context.Context, code, connectionID, name, avatar string) (*entity.Room, *entity.Player, error)
	WatchRoom(ctx context.Context, code, connectionID string) (*entity.Room, error)
	MakeTurn(ctx context.Context, connectionID string, row, col int) (*entity.Room, error)
	RestartGame(ctx context.Context, connectionID string) (*entity.Room, error)
	LeaveRoom(ctx context.Context, connectionID string) (*entity.Room, *entity.Player, error)
}

type gameUseCase struct {
	gamePlayService gamePlayService
}

func NewGameUseCase(gamePlayService gamePlayService) GameUseCase {
	return &gameUseCase{
		gamePlayService: gamePlayService,
	}
}

func (that *gameUseCase) CreateRoom(ctx context.Context, connectionID, name, avatar string) (*entity.Room, *entity.Player, error) {
	room, host, err := that.gamePlayService.CreateRoom(ctx, connectionID, name, avatar)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, host, nil
}

func (that *gameUseCase) JoinRoom(ctx context.Context, code, connectionID, name, avatar string) (*entity.Room, *entity.Player, error) {
	room, player, err := that.gamePlayService.JoinRoom(ctx, code, connectionID, name, avatar)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to join room: %w", err)
	}

	return room, player, nil
}

func (that *gameUseCase) WatchRoom(ctx context.Context, code, connectionID string) (*entity.Room, error) {
	room, err := that.gamePlayService.WatchRoom(ctx, code, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to watch room: %w", err)
	}

	return room, nil
}

func (that *gameUseCase) MakeTurn(ctx context.Context, connectionID string, row, col int) (*entity.Room, error) {
	room, err := that.gamePlayService.MakeTurn(ctx, connectionID, row, col)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	return room, nil
}

func (that *gameUseCase) RestartGame(ctx context.Context, connectionID string) (*entity.Room, error) {
	room, err := that.gamePlayService.RestartGame(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	return room, nil
}

func (that *gameUseCase) LeaveRoom(ctx context.Context, connectionID string) (*entity.Room, *entity.Player, error) {
	room, removed, err := that.gamePlayService.LeaveRoom(ctx, connectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to leave room: %w", err)
	}

	return room, removed, nil
}
