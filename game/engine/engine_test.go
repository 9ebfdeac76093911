package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
	"github.com/wricardo/mcp-training/solitaire/game/problem"
)

func createTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	game, err := NewGame(createValidConfig(), seed)
	require.NoError(t, err)
	return game
}

// almostWon has every spade on the foundation except the king.
func almostWon() Solitaire {
	spades := cards.FullDeck(1)
	return Solitaire{
		deck:       []cards.Card{},
		waste:      []cards.Card{},
		tableau:    [][]cards.Card{{spades[12]}},
		visibility: []int{0},
		goal:       [][]cards.Card{copyCards(spades[:12])},
	}
}

func TestNewGame(t *testing.T) {
	game := createTestGame(t, 42)

	assert.Equal(t, 4, game.State().RowCount())
	assert.Equal(t, 2, game.State().FoundationCount())
	assert.Equal(t, int64(42), game.Seed())
	assert.Equal(t, "Welcome to the test table!", game.Message())
	assert.False(t, game.IsWon())
	assert.Zero(t, game.TotalMoves())
	assert.Nil(t, game.LastMove())
	require.NoError(t, game.State().Validate(2))
}

func TestNewGame_Defaults(t *testing.T) {
	game, err := NewGame(nil, 1)
	require.NoError(t, err)
	assert.Equal(t, MaxRows, game.State().RowCount())
	assert.Len(t, game.State().AllCards(), 52)
	assert.Len(t, game.State().Deck(), 24)
}

func TestNewGame_InvalidConfig(t *testing.T) {
	config := createValidConfig()
	config.Rows = 0
	_, err := NewGame(config, 1)
	assert.Error(t, err)
}

func TestNewGame_SeedDeterminism(t *testing.T) {
	a := createTestGame(t, 7)
	b := createTestGame(t, 7)
	c := createTestGame(t, 8)

	assert.True(t, a.State().Equal(b.State()))
	assert.False(t, a.State().Equal(c.State()))
}

func TestGame_ApplyLegal(t *testing.T) {
	game := createTestGame(t, 3)
	before := game.State()

	require.NoError(t, game.Apply(Tap(DeckStack)))

	assert.Equal(t, 1, game.TotalMoves())
	require.NotNil(t, game.LastMove())
	assert.Equal(t, Tap(DeckStack), game.LastMove().Action)
	assert.Equal(t, 1, game.LastMove().MoveNumber)
	assert.Nil(t, game.LastMove().Before)
	require.Len(t, game.CurrentMoves(), 1)
	assert.True(t, game.CurrentMoves()[0].Before.Equal(before))
	assert.Len(t, game.State().Waste(), 3)
	assert.Equal(t, "tap deck", game.Message())
}

func TestGame_ApplyIllegal(t *testing.T) {
	game := createTestGame(t, 3)
	before := game.State()

	err := game.Apply(Move(cards.New(cards.Spades, cards.King), FoundationStack(0)))
	assert.ErrorIs(t, err, problem.ErrIllegalAction)
	assert.True(t, game.State().Equal(before))
	assert.Zero(t, game.TotalMoves())
	assert.Equal(t, "Not allowed", game.Message())

	err = game.Apply(Tap(WasteStack))
	assert.ErrorIs(t, err, problem.ErrIllegalAction)
}

func TestGame_ApplyIndex(t *testing.T) {
	game := createTestGame(t, 3)
	legal := game.LegalActions()
	require.NotEmpty(t, legal)

	action, err := game.ApplyIndex(0)
	require.NoError(t, err)
	assert.Equal(t, legal[0], action)

	_, err = game.ApplyIndex(len(game.LegalActions()))
	assert.ErrorIs(t, err, ErrActionIndex)
	_, err = game.ApplyIndex(-1)
	assert.ErrorIs(t, err, ErrActionIndex)
}

func TestGame_Undo(t *testing.T) {
	game := createTestGame(t, 9)
	initial := game.State()

	_, err := game.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)

	require.NoError(t, game.Apply(Tap(DeckStack)))
	afterFirst := game.State()
	require.NoError(t, game.Apply(Tap(DeckStack)))

	undone, err := game.Undo()
	require.NoError(t, err)
	assert.Equal(t, Tap(DeckStack), undone)
	assert.True(t, game.State().Equal(afterFirst))

	_, err = game.Undo()
	require.NoError(t, err)
	assert.True(t, game.State().Equal(initial))

	// cumulative history keeps undone actions
	assert.Len(t, game.MoveHistory(), 2)
	assert.Empty(t, game.CurrentMoves())
	assert.Equal(t, 2, game.TotalMoves())
}

func TestGame_Reset(t *testing.T) {
	game := createTestGame(t, 11)
	initial := game.State()

	for i := 0; i < 3; i++ {
		require.NoError(t, game.Apply(Tap(DeckStack)))
	}
	require.False(t, game.State().Equal(initial))

	state := game.Reset()
	assert.True(t, state.Equal(initial))
	assert.True(t, game.State().Equal(initial))
	assert.Len(t, game.MoveHistory(), 3)
	assert.Equal(t, 3, game.TotalMoves())
	assert.Empty(t, game.CurrentMoves())
	assert.Equal(t, "Welcome to the test table!", game.Message())

	_, err := game.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestGame_RecycleMessage(t *testing.T) {
	game := createTestGame(t, 4)
	for len(game.State().Deck()) > 0 {
		require.NoError(t, game.Apply(Tap(DeckStack)))
	}
	require.NoError(t, game.Apply(Tap(DeckStack)))
	assert.Equal(t, "Recycled", game.Message())
	assert.Empty(t, game.State().Waste())
}

func TestGame_Victory(t *testing.T) {
	game, err := NewGameFromState(createValidConfig(), 0, almostWon())
	require.NoError(t, err)
	require.False(t, game.IsWon())

	require.NoError(t, game.Apply(Move(cards.New(cards.Spades, cards.King), FoundationStack(0))))
	assert.True(t, game.IsWon())
	assert.Equal(t, "Victory!", game.Message())
	assert.Empty(t, game.LegalActions())

	assert.ErrorIs(t, game.Apply(Tap(DeckStack)), ErrGameWon)
}

func TestNewGameFromState_RejectsBadVisibility(t *testing.T) {
	s := almostWon()
	s.visibility[0] = 4
	_, err := NewGameFromState(nil, 0, s)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestGame_JSONSnapshot(t *testing.T) {
	game := createTestGame(t, 13)
	require.NoError(t, game.Apply(Tap(DeckStack)))
	require.NoError(t, game.Apply(Tap(DeckStack)))

	data, err := json.Marshal(game)
	require.NoError(t, err)

	var restored Game
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.True(t, restored.State().Equal(game.State()))
	assert.Equal(t, game.Seed(), restored.Seed())
	assert.Equal(t, game.TotalMoves(), restored.TotalMoves())
	assert.Equal(t, game.GetConfig().Name, restored.GetConfig().Name)
	assert.Len(t, restored.MoveHistory(), 2)

	_, err = restored.Undo()
	require.NoError(t, err)
	_, err = restored.Undo()
	require.NoError(t, err)
	assert.True(t, restored.State().Equal(createTestGame(t, 13).State()))

	restored.Reset()
	assert.True(t, restored.State().Equal(createTestGame(t, 13).State()))
}

func TestGame_JSONSnapshotKeepsHistoryLean(t *testing.T) {
	game := createTestGame(t, 17)
	for i := 0; i < 4; i++ {
		require.NoError(t, game.Apply(Tap(DeckStack)))
	}
	game.Reset()
	require.NoError(t, game.Apply(Tap(DeckStack)))

	data, err := json.Marshal(game)
	require.NoError(t, err)

	var raw struct {
		History []map[string]json.RawMessage `json:"history"`
		Current []map[string]json.RawMessage `json:"current"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw.History, 5)
	for i, entry := range raw.History {
		_, ok := entry["before"]
		assert.False(t, ok, "history entry %d carries a snapshot", i)
	}
	require.Len(t, raw.Current, 1)
	assert.Contains(t, raw.Current[0], "before")

	var restored Game
	require.NoError(t, json.Unmarshal(data, &restored))
	_, err = restored.Undo()
	require.NoError(t, err)
	assert.True(t, restored.State().Equal(createTestGame(t, 17).State()))
}

func TestGame_UndoWithoutSnapshot(t *testing.T) {
	game := createTestGame(t, 19)
	data := []byte(`{"seed": 19, "current": [{"action": {"kind": "tap", "target": "deck"}, "move_number": 1}]}`)
	require.NoError(t, json.Unmarshal(data, game))

	_, err := game.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}
