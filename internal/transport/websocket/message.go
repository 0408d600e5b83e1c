package websocket

import (
	"encoding/json"

	"github.com/gridduel/tictactoe-rooms-backend/internal/entity"
)

// Inbound commands and their responses share one envelope. Every command gets
// exactly one response carrying the same action; command errors ride in
// payload.error and are never broadcast. Events reuse the envelope with the
// event name as the action.
const (
	ActionCreateRoom  = "create_room"
	ActionJoinRoom    = "join_room"
	ActionWatchRoom   = "watch_room"
	ActionMakeMove    = "make_move"
	ActionRestartGame = "restart_game"
	ActionLeaveRoom   = "leave_room"

	EventGameStarted   = "game_started"
	EventPlayerJoined  = "player_joined"
	EventMoveMade      = "move_made"
	EventGameOver      = "game_over"
	EventGameRestarted = "game_restarted"
	EventPlayerLeft    = "player_left"
	EventRoomError     = "room_error"
)

// Player role values on the wire. Internally the entities use bare marks.
const (
	RolePlayerX   = "PLAYER_X"
	RolePlayerO   = "PLAYER_O"
	RoleSpectator = "SPECTATOR"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreateRoomPayload struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type WatchRoomPayload struct {
	RoomID string `json:"roomId"`
}

// MakeMovePayload uses pointers so an absent coordinate is distinguishable
// from a legal zero.
type MakeMovePayload struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type RestartGamePayload struct {
	RoomID string `json:"roomId,omitempty"`
}

// RoomAckPayload answers create_room, join_room and watch_room.
type RoomAckPayload struct {
	RoomID    string        `json:"roomId,omitempty"`
	Role      string        `json:"role,omitempty"`
	GameState *entity.Board `json:"gameState,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// AckPayload answers make_move, restart_game and leave_room.
type AckPayload struct {
	Error string `json:"error,omitempty"`
}

type WirePlayer struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type GameStartedPayload struct {
	Players       map[string]WirePlayer `json:"players"`
	GameState     entity.Board          `json:"gameState"`
	CurrentPlayer string                `json:"currentPlayer"`
}

type PlayerJoinedPayload struct {
	Players map[string]WirePlayer `json:"players"`
}

type MoveMadePayload struct {
	GameState entity.Board `json:"gameState"`
	NextTurn  string       `json:"nextTurn"`
}

type GameOverPayload struct {
	GameState entity.Board `json:"gameState"`
	Winner    string       `json:"winner,omitempty"`
	Draw      bool         `json:"draw,omitempty"`
}

type GameRestartedPayload struct {
	Board         entity.Board `json:"board"`
	CurrentPlayer string       `json:"currentPlayer"`
}

type PlayerLeftPayload struct {
	PlayerName string `json:"playerName"`
}

type RoomErrorPayload struct {
	Message string `json:"message"`
}

// wireRole - maps an internal mark to its wire role value.
func wireRole(mark string) string {
	switch mark {
	case entity.PlayerX:
		return RolePlayerX
	case entity.PlayerO:
		return RolePlayerO
	default:
		return ""
	}
}

// wirePlayers - builds the role-keyed roster the clients expect.
func wirePlayers(room *entity.Room) map[string]WirePlayer {
	players := make(map[string]WirePlayer, len(room.Players))
	for _, player := range room.Players {
		players[wireRole(player.Mark)] = WirePlayer{
			Name:   player.Name,
			Avatar: player.Avatar,
		}
	}
	return players
}
