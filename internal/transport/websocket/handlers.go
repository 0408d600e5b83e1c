package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gridduel/tictactoe-rooms-backend/internal/apperror"
)

func (that *Server) handleCreateRoom(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleCreateRoom", "connectionID", client.ID)

	var req CreateRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.Name == "" {
		return that.sendError(client, ActionCreateRoom, "name is required")
	}

	room, host, err := that.game.CreateRoom(ctx, client.ID, req.Name, req.Avatar)
	if err != nil {
		log.Error("failed to create room", "error", err)
		return that.sendError(client, ActionCreateRoom, errorMessage(err))
	}

	return that.sendResponse(client, ActionCreateRoom, RoomAckPayload{
		RoomID: room.Code,
		Role:   wireRole(host.Mark),
	})
}

func (that *Server) handleJoinRoom(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleJoinRoom", "connectionID", client.ID)

	var req JoinRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.RoomID == "" || req.Name == "" {
		return that.sendError(client, ActionJoinRoom, "roomId and name are required")
	}

	room, player, err := that.game.JoinRoom(ctx, req.RoomID, client.ID, req.Name, req.Avatar)
	if err != nil {
		log.Error("failed to join room", "roomCode", req.RoomID, "error", err)
		return that.sendError(client, ActionJoinRoom, errorMessage(err))
	}

	return that.sendResponse(client, ActionJoinRoom, RoomAckPayload{
		RoomID: room.Code,
		Role:   wireRole(player.Mark),
	})
}

func (that *Server) handleWatchRoom(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleWatchRoom", "connectionID", client.ID)

	var req WatchRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.RoomID == "" {
		return that.sendError(client, ActionWatchRoom, "roomId is required")
	}

	room, err := that.game.WatchRoom(ctx, req.RoomID, client.ID)
	if err != nil {
		log.Error("failed to watch room", "roomCode", req.RoomID, "error", err)
		return that.sendError(client, ActionWatchRoom, errorMessage(err))
	}

	board := room.Board

	return that.sendResponse(client, ActionWatchRoom, RoomAckPayload{
		RoomID:    room.Code,
		Role:      RoleSpectator,
		GameState: &board,
	})
}

func (that *Server) handleMakeMove(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleMakeMove", "connectionID", client.ID)

	var req MakeMovePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.Row == nil || req.Col == nil {
		return that.sendError(client, ActionMakeMove, "row and col are required")
	}

	if _, err := that.game.MakeTurn(ctx, client.ID, *req.Row, *req.Col); err != nil {
		log.Info("move rejected", "error", err)
		return that.sendError(client, ActionMakeMove, errorMessage(err))
	}

	return that.sendResponse(client, ActionMakeMove, AckPayload{})
}

func (that *Server) handleRestartGame(ctx context.Context, client *Client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleRestartGame", "connectionID", client.ID)

	var req RestartGamePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if _, err := that.game.RestartGame(ctx, client.ID); err != nil {
		log.Info("restart rejected", "error", err)
		return that.sendError(client, ActionRestartGame, errorMessage(err))
	}

	return that.sendResponse(client, ActionRestartGame, AckPayload{})
}

func (that *Server) handleLeaveRoom(ctx context.Context, client *Client, _ json.RawMessage) error {
	log := that.logger.With("method", "handleLeaveRoom", "connectionID", client.ID)

	if _, _, err := that.game.LeaveRoom(ctx, client.ID); err != nil {
		log.Info("leave rejected", "error", err)
		return that.sendError(client, ActionLeaveRoom, errorMessage(err))
	}

	return that.sendResponse(client, ActionLeaveRoom, AckPayload{})
}

func (that *Server) sendResponse(client *Client, action string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal response payload: %w", err)
	}

	if err = client.Send(&Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

func (that *Server) sendError(client *Client, action, message string) error {
	raw, err := json.Marshal(RoomAckPayload{Error: message})
	if err != nil {
		return fmt.Errorf("failed to marshal error payload: %w", err)
	}

	if err = client.Send(&Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// errorMessage - maps domain errors to the messages clients see; anything
// unexpected stays behind a generic message.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		return "room not found"
	case errors.Is(err, apperror.ErrRoomFull):
		return "room is full"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "it's not your turn"
	case errors.Is(err, apperror.ErrGameNotActive):
		return "game is not active"
	case errors.Is(err, apperror.ErrGameNotFinished):
		return "game is not finished yet"
	case errors.Is(err, apperror.ErrCellOccupied):
		return "cell is already occupied"
	case errors.Is(err, apperror.ErrOutOfBounds):
		return "cell is out of bounds"
	case errors.Is(err, apperror.ErrNotInRoom):
		return "you are not in a room"
	case errors.Is(err, apperror.ErrSpectatorsCannotPlay):
		return "spectators cannot play"
	default:
		return "internal error"
	}
}
