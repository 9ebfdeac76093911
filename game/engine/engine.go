package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
	"github.com/wricardo/mcp-training/solitaire/game/problem"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrActionIndex   = errors.New("action index out of range")
	ErrGameWon       = errors.New("game already won")
)

// Engine provides the main interface for game operations
type Engine interface {
	// Table state
	State() Solitaire
	Percept() Percept
	LegalActions() []Action
	IsWon() bool
	Message() string

	// Actions
	Apply(action Action) error
	ApplyIndex(index int) (Action, error)
	Undo() (Action, error)
	Reset() Solitaire

	// Configuration
	GetConfig() *GameConfig
	Seed() int64

	// History
	MoveHistory() []HistoryEntry
	LastMove() *HistoryEntry
	TotalMoves() int
}

// Game holds one player's table. The Solitaire snapshots it stores are never
// mutated; every action replaces the current snapshot with a new one.
type Game struct {
	config  *GameConfig
	seed    int64
	initial Solitaire
	state   Solitaire
	message string

	// history is the cumulative log across resets; current is the undo
	// stack of the running deal.
	history    []HistoryEntry
	current    []HistoryEntry
	totalMoves int

	now func() time.Time
}

var _ Engine = (*Game)(nil)

// NewGame shuffles a fresh deck with seed and deals it according to config.
// A nil config selects DefaultConfig.
func NewGame(config *GameConfig, seed int64) (*Game, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	initial, err := dealConfig(config, seed)
	if err != nil {
		return nil, err
	}
	return NewGameFromState(config, seed, initial)
}

// NewGameFromState starts a game from an existing table, for example a
// hand-built position or a restored snapshot.
func NewGameFromState(config *GameConfig, seed int64, state Solitaire) (*Game, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := state.checkVisibility(); err != nil {
		return nil, err
	}
	return &Game{
		config:  config,
		seed:    seed,
		initial: state,
		state:   state,
		message: config.Messages.Welcome,
		history: []HistoryEntry{},
		current: []HistoryEntry{},
		now:     time.Now,
	}, nil
}

func dealConfig(config *GameConfig, seed int64) (Solitaire, error) {
	deck := cards.Shuffle(cards.FullDeck(config.Suits), seed)
	return Deal(deck, config.Rows, config.Suits)
}

// State returns the current snapshot.
func (g *Game) State() Solitaire {
	return g.state
}

// Percept returns what the player can currently see.
func (g *Game) Percept() Percept {
	return g.state.Percept()
}

// LegalActions returns the current legal actions in engine order.
func (g *Game) LegalActions() []Action {
	return g.state.Actions()
}

// IsWon reports whether the goal has been reached.
func (g *Game) IsWon() bool {
	return g.state.IsGoal()
}

// Message returns the text produced by the last operation.
func (g *Game) Message() string {
	return g.message
}

// Apply validates action against the legal actions and advances the table.
// On error the table is left unchanged.
func (g *Game) Apply(action Action) error {
	if g.state.IsGoal() {
		return ErrGameWon
	}

	recycle := action.Kind == ActionTap && len(g.state.deck) == 0
	next, err := problem.Step[Solitaire, Action, Percept](g.state, action)
	if err != nil {
		if g.config.Messages.Illegal != "" {
			g.message = g.config.Messages.Illegal
		} else {
			g.message = fmt.Sprintf("Illegal action: %s", action)
		}
		return fmt.Errorf("%s: %w", action, err)
	}

	g.totalMoves++
	entry := HistoryEntry{
		Action:     action,
		MoveNumber: g.totalMoves,
		Timestamp:  g.now().Unix(),
	}
	g.history = append(g.history, entry)
	before := g.state
	entry.Before = &before
	g.current = append(g.current, entry)
	g.state = next

	switch {
	case next.IsGoal():
		g.message = g.config.Messages.Victory
	case recycle && g.config.Messages.Recycle != "":
		g.message = g.config.Messages.Recycle
	default:
		g.message = action.String()
	}
	return nil
}

// ApplyIndex applies the index-th entry of LegalActions.
func (g *Game) ApplyIndex(index int) (Action, error) {
	actions := g.state.Actions()
	if index < 0 || index >= len(actions) {
		return Action{}, fmt.Errorf("%w: %d of %d", ErrActionIndex, index, len(actions))
	}
	action := actions[index]
	return action, g.Apply(action)
}

// Undo restores the snapshot taken before the last action of the current
// deal. The cumulative history keeps the undone entry.
func (g *Game) Undo() (Action, error) {
	if len(g.current) == 0 {
		return Action{}, ErrNothingToUndo
	}
	last := g.current[len(g.current)-1]
	if last.Before == nil {
		return Action{}, ErrNothingToUndo
	}
	g.current = g.current[:len(g.current)-1]
	g.state = *last.Before
	g.message = fmt.Sprintf("Undid %s", last.Action)
	return last.Action, nil
}

// Reset redeals the same seed. Cumulative history and the move total are
// kept; only the current deal's undo stack is cleared.
func (g *Game) Reset() Solitaire {
	g.state = g.initial
	g.current = []HistoryEntry{}
	g.message = g.config.Messages.Welcome
	return g.state
}

// GetConfig returns the table config.
func (g *Game) GetConfig() *GameConfig {
	return g.config
}

// Seed returns the shuffle seed of the deal.
func (g *Game) Seed() int64 {
	return g.seed
}

// MoveHistory returns every applied action since the game was created.
func (g *Game) MoveHistory() []HistoryEntry {
	return append([]HistoryEntry{}, g.history...)
}

// CurrentMoves returns the actions of the running deal that can be undone.
func (g *Game) CurrentMoves() []HistoryEntry {
	return append([]HistoryEntry{}, g.current...)
}

// LastMove returns the last applied action, or nil if there is none.
func (g *Game) LastMove() *HistoryEntry {
	if len(g.history) == 0 {
		return nil
	}
	entry := g.history[len(g.history)-1]
	return &entry
}

// TotalMoves returns how many actions have been applied in total.
func (g *Game) TotalMoves() int {
	return g.totalMoves
}

type gameJSON struct {
	Config     *GameConfig    `json:"config"`
	Seed       int64          `json:"seed"`
	Initial    Solitaire      `json:"initial"`
	State      Solitaire      `json:"state"`
	Message    string         `json:"message"`
	History    []HistoryEntry `json:"history"`
	Current    []HistoryEntry `json:"current"`
	TotalMoves int            `json:"total_moves"`
}

// MarshalJSON encodes the whole game, including history, for persistence.
func (g *Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameJSON{
		Config:     g.config,
		Seed:       g.seed,
		Initial:    g.initial,
		State:      g.state,
		Message:    g.message,
		History:    g.history,
		Current:    g.current,
		TotalMoves: g.totalMoves,
	})
}

// UnmarshalJSON restores a game written by MarshalJSON.
func (g *Game) UnmarshalJSON(b []byte) error {
	var in gameJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in.Config == nil {
		in.Config = DefaultConfig()
	}
	if in.History == nil {
		in.History = []HistoryEntry{}
	}
	if in.Current == nil {
		in.Current = []HistoryEntry{}
	}
	*g = Game{
		config:     in.Config,
		seed:       in.Seed,
		initial:    in.Initial,
		state:      in.State,
		message:    in.Message,
		history:    in.History,
		current:    in.Current,
		totalMoves: in.TotalMoves,
		now:        time.Now,
	}
	return nil
}
