package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
)

func TestLimitConstants(t *testing.T) {
	tests := []struct {
		name     string
		actual   int
		expected int
	}{
		{"MinRows", MinRows, 1},
		{"MaxRows", MaxRows, 7},
		{"MinSuits", MinSuits, 1},
		{"MaxSuits", MaxSuits, 4},
		{"DrawCount", DrawCount, 3},
	}

	for _, test := range tests {
		if test.actual != test.expected {
			t.Errorf("%s: expected %d, got %d", test.name, test.expected, test.actual)
		}
	}
}

func TestStackID_String(t *testing.T) {
	assert.Equal(t, "deck", DeckStack.String())
	assert.Equal(t, "waste", WasteStack.String())
	assert.Equal(t, "tableau:3", TableauStack(3).String())
	assert.Equal(t, "foundation:0", FoundationStack(0).String())
}

func TestParseStackID(t *testing.T) {
	valid := map[string]StackID{
		"deck":         DeckStack,
		"Stock":        DeckStack,
		"d":            DeckStack,
		"waste":        WasteStack,
		"runoff":       WasteStack,
		" w ":          WasteStack,
		"tableau:6":    TableauStack(6),
		"t2":           TableauStack(2),
		"foundation:1": FoundationStack(1),
		"F3":           FoundationStack(3),
	}
	for input, want := range valid {
		got, err := ParseStackID(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "x", "tableau", "tableau:-1", "t", "pile:2", "f:x"} {
		_, err := ParseStackID(input)
		assert.Error(t, err, input)
	}
}

func TestStackID_AsJSONKey(t *testing.T) {
	in := map[StackID]int{DeckStack: 1, TableauStack(4): 2}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"deck":1,"tableau:4":2}`, string(data))

	var out map[StackID]int
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestAction_Equality(t *testing.T) {
	a := Move(cards.New(cards.Hearts, 4), TableauStack(1))
	b := Move(cards.New(cards.Hearts, 4), TableauStack(1))
	assert.Equal(t, a, b)
	assert.True(t, a == b)
	assert.NotEqual(t, a, Move(cards.New(cards.Hearts, 4), TableauStack(2)))
	assert.Equal(t, Tap(DeckStack), Tap(DeckStack))
}

func TestAction_String(t *testing.T) {
	assert.Equal(t, "move ♡5 -> tableau:1", Move(cards.New(cards.Hearts, 4), TableauStack(1)).String())
	assert.Equal(t, "tap deck", Tap(DeckStack).String())
	assert.Equal(t, "noop", Action{}.String())
}

func TestAction_JSON(t *testing.T) {
	move := Move(cards.New(cards.Diamonds, 11), FoundationStack(3))
	data, err := json.Marshal(move)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"move","card":{"suit":3,"color":1,"rank":11},"target":"foundation:3"}`, string(data))

	var decoded Action
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, move, decoded)

	// color is derived from the suit, not trusted from input
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"move","card":{"suit":1,"rank":0},"target":"t0"}`), &decoded))
	assert.Equal(t, Move(cards.New(cards.Hearts, 0), TableauStack(0)), decoded)

	require.NoError(t, json.Unmarshal([]byte(`{"kind":"tap","target":"deck"}`), &decoded))
	assert.Equal(t, Tap(DeckStack), decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"move","target":"t0"}`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"fly","target":"t0"}`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`{"kind":"tap","target":"nowhere"}`), &decoded))
}
