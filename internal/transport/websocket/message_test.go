package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridduel/tictactoe-rooms-backend/internal/apperror"
	"github.com/gridduel/tictactoe-rooms-backend/internal/entity"
)

func TestWireRole(t *testing.T) {
	assert.Equal(t, RolePlayerX, wireRole(entity.PlayerX))
	assert.Equal(t, RolePlayerO, wireRole(entity.PlayerO))
	assert.Equal(t, "", wireRole(""))
}

func TestWirePlayers(t *testing.T) {
	t.Run("Roster is keyed by wire role", func(t *testing.T) {
		// Given: a room with both seats taken
		room := entity.NewRoom("ABC123")
		require.NoError(t, room.Join(&entity.Player{ID: "conn-1", Name: "alice", Avatar: "cat"}))
		require.NoError(t, room.Join(&entity.Player{ID: "conn-2", Name: "bob"}))

		// When: building the wire roster
		players := wirePlayers(room)

		// Then: each player sits under their role key
		require.Len(t, players, 2)
		assert.Equal(t, WirePlayer{Name: "alice", Avatar: "cat"}, players[RolePlayerX])
		assert.Equal(t, WirePlayer{Name: "bob"}, players[RolePlayerO])
	})

	t.Run("A half-empty room produces a single entry", func(t *testing.T) {
		room := entity.NewRoom("ABC123")
		require.NoError(t, room.Join(&entity.Player{ID: "conn-1", Name: "alice"}))

		players := wirePlayers(room)

		require.Len(t, players, 1)
		assert.Contains(t, players, RolePlayerX)
	})
}

func TestMessage_Envelope(t *testing.T) {
	t.Run("Commands decode into the shared envelope", func(t *testing.T) {
		// Given: a raw client frame
		raw := `{"action":"make_move","payload":{"row":0,"col":2}}`

		// When: decoding the envelope and then the payload
		var msg Message
		require.NoError(t, json.Unmarshal([]byte(raw), &msg))

		var payload MakeMovePayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))

		// Then: the action and both coordinates come through
		assert.Equal(t, ActionMakeMove, msg.Action)
		require.NotNil(t, payload.Row)
		require.NotNil(t, payload.Col)
		assert.Equal(t, 0, *payload.Row)
		assert.Equal(t, 2, *payload.Col)
	})

	t.Run("A missing coordinate is not a legal zero", func(t *testing.T) {
		var payload MakeMovePayload
		require.NoError(t, json.Unmarshal([]byte(`{"row":0}`), &payload))

		assert.NotNil(t, payload.Row)
		assert.Nil(t, payload.Col)
	})
}

func TestGameOverPayload_Wire(t *testing.T) {
	t.Run("A win carries the winner and omits the draw flag", func(t *testing.T) {
		var board entity.Board
		require.NoError(t, board.Apply(0, 0, entity.PlayerX))

		raw, err := json.Marshal(GameOverPayload{GameState: board, Winner: entity.PlayerX})
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"gameState": [["X",null,null],[null,null,null],[null,null,null]],
			"winner": "X"
		}`, string(raw))
	})

	t.Run("A draw carries the flag and omits the winner", func(t *testing.T) {
		raw, err := json.Marshal(GameOverPayload{Draw: true})
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"gameState": [[null,null,null],[null,null,null],[null,null,null]],
			"draw": true
		}`, string(raw))
	})
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{apperror.ErrRoomNotFound, "room not found"},
		{apperror.ErrRoomFull, "room is full"},
		{apperror.ErrNotYourTurn, "it's not your turn"},
		{apperror.ErrCellOccupied, "cell is already occupied"},
		{apperror.ErrOutOfBounds, "cell is out of bounds"},
		{apperror.ErrNotInRoom, "you are not in a room"},
		{apperror.ErrSpectatorsCannotPlay, "spectators cannot play"},
		{fmt.Errorf("failed to resolve session: %w", apperror.ErrNotInRoom), "you are not in a room"},
		{errors.New("redis gone"), "internal error"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, errorMessage(tc.err))
	}
}
