package websocket

import (
	"encoding/json"

	"github.com/gridduel/tictactoe-rooms-backend/internal/entity"
)

// The methods below implement service.Broadcaster. They run while the room
// lock is held, which is what keeps the per-room event order exact.

func (that *Server) PlayerJoined(room *entity.Room) {
	that.broadcast(room, EventPlayerJoined, PlayerJoinedPayload{
		Players: wirePlayers(room),
	})
}

func (that *Server) GameStarted(room *entity.Room) {
	that.broadcast(room, EventGameStarted, GameStartedPayload{
		Players:       wirePlayers(room),
		GameState:     room.Board,
		CurrentPlayer: wireRole(room.Turn),
	})
}

func (that *Server) MoveMade(room *entity.Room) {
	that.broadcast(room, EventMoveMade, MoveMadePayload{
		GameState: room.Board,
		NextTurn:  wireRole(room.Turn),
	})
}

func (that *Server) GameOver(room *entity.Room) {
	payload := GameOverPayload{GameState: room.Board}
	if room.IsDraw() {
		payload.Draw = true
	} else {
		payload.Winner = wireRole(room.Winner)
	}

	that.broadcast(room, EventGameOver, payload)
}

func (that *Server) GameRestarted(room *entity.Room) {
	that.broadcast(room, EventGameRestarted, GameRestartedPayload{
		Board:         room.Board,
		CurrentPlayer: wireRole(room.Turn),
	})
}

func (that *Server) PlayerLeft(room *entity.Room, player *entity.Player) {
	that.broadcast(room, EventPlayerLeft, PlayerLeftPayload{
		PlayerName: player.Name,
	})
}

func (that *Server) RoomClosed(room *entity.Room) {
	that.broadcast(room, EventRoomError, RoomErrorPayload{
		Message: "room closed",
	})
}

// broadcast - fans an event out to every seated player and spectator whose
// connection is still registered.
func (that *Server) broadcast(room *entity.Room, action string, payload any) {
	log := that.logger.With("method", "broadcast", "roomCode", room.Code, "action", action)

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal event payload", "error", err)
		return
	}

	message := &Message{Action: action, Payload: raw}

	recipients := make([]string, 0, len(room.Players)+len(room.Spectators))
	for _, player := range room.Players {
		recipients = append(recipients, player.ID)
	}
	recipients = append(recipients, room.Spectators...)

	for _, id := range recipients {
		client, ok := that.clientByID(id)
		if !ok {
			continue
		}

		if err = client.Send(message); err != nil {
			log.Error("failed to send event", "connectionID", id, "error", err)
		}
	}
}
