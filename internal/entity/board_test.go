package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridduel/tictactoe-rooms-backend/internal/apperror"
)

func TestBoard_Apply(t *testing.T) {
	t.Run("Writes a mark into an empty cell", func(t *testing.T) {
		// Given: an empty board
		board := &Board{}

		// When: applying a mark inside the grid
		err := board.Apply(0, 0, PlayerX)

		// Then: the mark is written
		require.NoError(t, err)
		assert.Equal(t, PlayerX, board.Cell(0, 0))
	})

	t.Run("Rejects a move outside the grid", func(t *testing.T) {
		// Given: an empty board
		board := &Board{}

		// When: applying marks outside the grid
		errRow := board.Apply(3, 0, PlayerX)
		errCol := board.Apply(0, -1, PlayerX)

		// Then: both moves fail with ErrOutOfBounds and nothing is written
		require.ErrorIs(t, errRow, apperror.ErrOutOfBounds)
		require.ErrorIs(t, errCol, apperror.ErrOutOfBounds)
		assert.Equal(t, EmptyCell, board.Cell(0, 0))
	})

	t.Run("Double submission succeeds then fails with ErrCellOccupied", func(t *testing.T) {
		// Given: an empty board
		board := &Board{}

		// When: submitting the same cell twice
		first := board.Apply(1, 1, PlayerX)
		second := board.Apply(1, 1, PlayerO)

		// Then: the first succeeds, the second is rejected, the cell keeps the first mark
		require.NoError(t, first)
		require.ErrorIs(t, second, apperror.ErrCellOccupied)
		assert.Equal(t, PlayerX, board.Cell(1, 1))
	})
}

func TestBoard_Evaluate(t *testing.T) {
	t.Run("Empty board is still in progress", func(t *testing.T) {
		// Given: an empty board
		board := &Board{}

		// When: evaluating it
		result := board.Evaluate()

		// Then: no outcome yet
		assert.Equal(t, EmptyCell, result)
	})

	t.Run("Detects a row win", func(t *testing.T) {
		// Given: X holds the top row
		board := &Board{}
		for col := 0; col < BoardSize; col++ {
			require.NoError(t, board.Apply(0, col, PlayerX))
		}

		// When: evaluating it
		result := board.Evaluate()

		// Then: X wins
		assert.Equal(t, PlayerX, result)
	})

	t.Run("Detects a column win", func(t *testing.T) {
		// Given: O holds the middle column
		board := &Board{}
		for row := 0; row < BoardSize; row++ {
			require.NoError(t, board.Apply(row, 1, PlayerO))
		}

		// When: evaluating it
		result := board.Evaluate()

		// Then: O wins
		assert.Equal(t, PlayerO, result)
	})

	t.Run("Detects a diagonal win", func(t *testing.T) {
		// Given: X holds the main diagonal
		board := &Board{}
		for i := 0; i < BoardSize; i++ {
			require.NoError(t, board.Apply(i, i, PlayerX))
		}

		// When: evaluating it
		result := board.Evaluate()

		// Then: X wins
		assert.Equal(t, PlayerX, result)
	})

	t.Run("Detects the anti-diagonal win", func(t *testing.T) {
		// Given: O holds the anti-diagonal
		board := &Board{}
		for i := 0; i < BoardSize; i++ {
			require.NoError(t, board.Apply(i, BoardSize-1-i, PlayerO))
		}

		// When: evaluating it
		result := board.Evaluate()

		// Then: O wins
		assert.Equal(t, PlayerO, result)
	})

	t.Run("Full board without a line is a tie", func(t *testing.T) {
		// Given: a full board with no winning line
		//   X O X
		//   X O O
		//   O X X
		board := &Board{}
		layout := [BoardSize][BoardSize]string{
			{PlayerX, PlayerO, PlayerX},
			{PlayerX, PlayerO, PlayerO},
			{PlayerO, PlayerX, PlayerX},
		}
		for row := range layout {
			for col := range layout[row] {
				require.NoError(t, board.Apply(row, col, layout[row][col]))
			}
		}

		// When: evaluating it
		result := board.Evaluate()

		// Then: it is a tie
		assert.Equal(t, PlayerTie, result)
	})
}

func TestBoard_WireFormat(t *testing.T) {
	t.Run("Marshals as a 3x3 array with nulls for empty cells", func(t *testing.T) {
		// Given: a board with one X in the corner
		board := &Board{}
		require.NoError(t, board.Apply(0, 0, PlayerX))

		// When: marshaling to JSON
		data, err := json.Marshal(board)

		// Then: the wire form uses null for empty cells
		require.NoError(t, err)
		assert.JSONEq(t, `[["X",null,null],[null,null,null],[null,null,null]]`, string(data))
	})

	t.Run("Unmarshals the wire form back into marks", func(t *testing.T) {
		// Given: a wire board with a mark in each role
		wire := `[[null,"O",null],[null,"X",null],[null,null,null]]`

		// When: unmarshaling it
		var board Board
		err := json.Unmarshal([]byte(wire), &board)

		// Then: the marks land in the right cells
		require.NoError(t, err)
		assert.Equal(t, PlayerO, board.Cell(0, 1))
		assert.Equal(t, PlayerX, board.Cell(1, 1))
		assert.Equal(t, EmptyCell, board.Cell(2, 2))
	})
}
