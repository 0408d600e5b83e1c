package entity

import (
	"fmt"

	"github.com/gridduel/tictactoe-rooms-backend/internal/apperror"
)

const (
	PhaseWaiting  = "waiting"
	PhasePlaying  = "playing"
	PhaseFinished = "finished"
)

// Room owns one board, two player slots and the turn arbitration for them.
// It is a plain state machine: callers serialize access per room.
type Room struct {
	Code       string    `json:"code"`
	Board      Board     `json:"board"`
	Phase      string    `json:"phase"`
	Turn       string    `json:"turn,omitempty"`
	Winner     string    `json:"winner,omitempty"`
	Players    []*Player `json:"players,omitempty"`
	Spectators []string  `json:"spectators,omitempty"`
}

func NewRoom(code string) *Room {
	return &Room{
		Code:  code,
		Phase: PhaseWaiting,
	}
}

// Join - seats a player in the first free slot, X before O.
// The first joiner is always X. The second join starts the game.
func (that *Room) Join(player *Player) error {
	if len(that.Players) >= 2 {
		return fmt.Errorf("%w: room %s", apperror.ErrRoomFull, that.Code)
	}

	player.Mark = PlayerX
	if len(that.Players) == 1 {
		player.Mark = toggleMark(that.Players[0].Mark)
	}

	that.Players = append(that.Players, player)

	if len(that.Players) == 2 {
		that.Phase = PhasePlaying
		that.Turn = PlayerX
	}

	return nil
}

// MakeTurn - validates and applies one move, then updates phase, winner and turn.
func (that *Room) MakeTurn(mark string, row, col int) error {
	if !that.IsPlaying() {
		return fmt.Errorf("%w: room %s is %s", apperror.ErrGameNotActive, that.Code, that.Phase)
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if err := that.Board.Apply(row, col, mark); err != nil {
		return err
	}

	switch winner := that.Board.Evaluate(); winner {
	case PlayerX, PlayerO, PlayerTie:
		that.Winner = winner
		that.Phase = PhaseFinished
		that.Turn = ""
	default:
		that.Turn = toggleMark(mark)
	}

	return nil
}

// Restart - re-arms a finished game in place: empty board, X to move.
func (that *Room) Restart() error {
	if !that.IsFinished() {
		return fmt.Errorf("%w: room %s is %s", apperror.ErrGameNotFinished, that.Code, that.Phase)
	}

	that.Board.Reset()
	that.Winner = ""
	that.Phase = PhasePlaying
	that.Turn = PlayerX

	return nil
}

// RemovePlayer - frees the slot held by mark and returns the removed player.
// A mid-game leave does not finish the game: the room falls back to waiting
// with a fresh board, ready for the next joiner.
func (that *Room) RemovePlayer(mark string) *Player {
	var removed *Player

	players := that.Players[:0]
	for _, player := range that.Players {
		if player.Mark == mark && removed == nil {
			removed = player
			continue
		}
		players = append(players, player)
	}
	that.Players = players

	if removed == nil {
		return nil
	}

	that.Board.Reset()
	that.Winner = ""
	that.Turn = ""
	that.Phase = PhaseWaiting

	return removed
}

// PlayerByMark - returns the seated player holding the given mark.
func (that *Room) PlayerByMark(mark string) *Player {
	for _, player := range that.Players {
		if player.Mark == mark {
			return player
		}
	}
	return nil
}

// Opponent - returns the seated player not holding the given mark.
func (that *Room) Opponent(mark string) *Player {
	for _, player := range that.Players {
		if player.Mark != mark {
			return player
		}
	}
	return nil
}

func (that *Room) AddSpectator(id string) {
	for _, existing := range that.Spectators {
		if existing == id {
			return
		}
	}
	that.Spectators = append(that.Spectators, id)
}

func (that *Room) RemoveSpectator(id string) {
	spectators := that.Spectators[:0]
	for _, existing := range that.Spectators {
		if existing != id {
			spectators = append(spectators, existing)
		}
	}
	that.Spectators = spectators
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

func (that *Room) IsWaiting() bool {
	return that.Phase == PhaseWaiting
}

func (that *Room) IsPlaying() bool {
	return that.Phase == PhasePlaying
}

func (that *Room) IsFinished() bool {
	return that.Phase == PhaseFinished
}

func (that *Room) IsDraw() bool {
	return that.Winner == PlayerTie
}
