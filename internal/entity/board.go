package entity

import (
	"encoding/json"
	"fmt"

	"github.com/gridduel/tictactoe-rooms-backend/internal/apperror"
)

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""

	BoardSize = 3
)

// winLines - all 8 winning lines as (row, col) triples: 3 rows, 3 columns, 2 diagonals.
var winLines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is the 3x3 grid. The zero value is an empty board.
// Its JSON form is the wire form: a row-major 3x3 array of "X" | "O" | null.
type Board struct {
	cells [BoardSize][BoardSize]string
}

// Apply - writes a mark into the given cell, all-or-nothing.
func (that *Board) Apply(row, col int, mark string) error {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	if that.cells[row][col] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.cells[row][col] = mark

	return nil
}

// Evaluate - returns PlayerX or PlayerO if a line is complete, PlayerTie on a
// full board without one, and EmptyCell while the game is still in progress.
// At most one player can hold a complete line, so enumeration order is irrelevant.
func (that *Board) Evaluate() string {
	for _, line := range winLines {
		a := that.cells[line[0][0]][line[0][1]]
		b := that.cells[line[1][0]][line[1][1]]
		c := that.cells[line[2][0]][line[2][1]]

		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	for row := range that.cells {
		for col := range that.cells[row] {
			if that.cells[row][col] == EmptyCell {
				return EmptyCell
			}
		}
	}

	return PlayerTie
}

// Cell - returns the mark at the given position, EmptyCell outside the grid.
func (that *Board) Cell(row, col int) string {
	if row < 0 || row >= BoardSize || col < 0 || col >= BoardSize {
		return EmptyCell
	}
	return that.cells[row][col]
}

// Reset - clears the grid.
func (that *Board) Reset() {
	that.cells = [BoardSize][BoardSize]string{}
}

func (that Board) MarshalJSON() ([]byte, error) {
	wire := make([][]*string, BoardSize)
	for row := range that.cells {
		wire[row] = make([]*string, BoardSize)
		for col := range that.cells[row] {
			if that.cells[row][col] == EmptyCell {
				continue
			}
			mark := that.cells[row][col]
			wire[row][col] = &mark
		}
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board: %w", err)
	}

	return data, nil
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var wire [BoardSize][BoardSize]*string
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	for row := range wire {
		for col := range wire[row] {
			if wire[row][col] == nil {
				that.cells[row][col] = EmptyCell
				continue
			}
			that.cells[row][col] = *wire[row][col]
		}
	}

	return nil
}

func toggleMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
