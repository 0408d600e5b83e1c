package apperror

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrGameNotActive   = errors.New("game is not active")
	ErrGameNotFinished = errors.New("game is not finished yet")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrOutOfBounds     = errors.New("cell is out of bounds")
	ErrNotInRoom       = errors.New("connection is not bound to a room")

	ErrSpectatorsCannotPlay = errors.New("spectators cannot play")
)
