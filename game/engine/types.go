package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
)

// Zone groups the stacks on the table.
type Zone int

const (
	ZoneStock      Zone = 0 // deck and waste
	ZoneTableau    Zone = 1
	ZoneFoundation Zone = 2

	// Game limits
	MinRows      = 1
	MaxRows      = 7
	MinSuits     = 1
	MaxSuits     = cards.MaxSuits
	DrawCount    = 3
	MaxStackSize = 255
)

// StackID addresses one stack on the table.
type StackID struct {
	Zone  Zone `json:"zone"`
	Index int  `json:"index"`
}

var (
	DeckStack  = StackID{Zone: ZoneStock, Index: 0}
	WasteStack = StackID{Zone: ZoneStock, Index: 1}
)

// TableauStack returns the id of tableau column i.
func TableauStack(i int) StackID {
	return StackID{Zone: ZoneTableau, Index: i}
}

// FoundationStack returns the id of foundation pile i.
func FoundationStack(i int) StackID {
	return StackID{Zone: ZoneFoundation, Index: i}
}

func (id StackID) String() string {
	switch {
	case id == DeckStack:
		return "deck"
	case id == WasteStack:
		return "waste"
	case id.Zone == ZoneTableau:
		return "tableau:" + strconv.Itoa(id.Index)
	case id.Zone == ZoneFoundation:
		return "foundation:" + strconv.Itoa(id.Index)
	default:
		return fmt.Sprintf("stack:%d:%d", id.Zone, id.Index)
	}
}

// ParseStackID parses the String form of a stack id. "t3" and "f0" are
// accepted as short forms.
func ParseStackID(s string) (StackID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "deck", "stock", "d":
		return DeckStack, nil
	case "waste", "runoff", "w":
		return WasteStack, nil
	}

	name, num, ok := strings.Cut(s, ":")
	if !ok && len(s) > 1 {
		name, num = s[:1], s[1:]
	}
	idx, err := strconv.Atoi(num)
	if err != nil || idx < 0 {
		return StackID{}, fmt.Errorf("invalid stack id %q", s)
	}
	switch name {
	case "tableau", "t":
		return TableauStack(idx), nil
	case "foundation", "f":
		return FoundationStack(idx), nil
	}
	return StackID{}, fmt.Errorf("invalid stack id %q", s)
}

// MarshalText lets StackID be used as a JSON object key.
func (id StackID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the String form.
func (id *StackID) UnmarshalText(b []byte) error {
	parsed, err := ParseStackID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ActionKind tags an Action.
type ActionKind int

const (
	ActionMove ActionKind = iota + 1
	ActionTap
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionTap:
		return "tap"
	default:
		return "unknown"
	}
}

// Action is a move of a card (and everything above it) onto Target, or a
// tap on Target. Card is zero for taps so actions compare structurally.
type Action struct {
	Kind   ActionKind
	Card   cards.Card
	Target StackID
}

// Move builds a move action.
func Move(card cards.Card, dst StackID) Action {
	return Action{Kind: ActionMove, Card: card, Target: dst}
}

// Tap builds a tap action.
func Tap(stack StackID) Action {
	return Action{Kind: ActionTap, Target: stack}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return fmt.Sprintf("move %s -> %s", a.Card.Label(), a.Target)
	case ActionTap:
		return fmt.Sprintf("tap %s", a.Target)
	default:
		return "noop"
	}
}

type actionJSON struct {
	Kind   string      `json:"kind"`
	Card   *cards.Card `json:"card,omitempty"`
	Target StackID     `json:"target"`
}

// MarshalJSON encodes the action as {"kind","card","target"}.
func (a Action) MarshalJSON() ([]byte, error) {
	out := actionJSON{Kind: a.Kind.String(), Target: a.Target}
	if a.Kind == ActionMove {
		c := a.Card
		out.Card = &c
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the MarshalJSON form.
func (a *Action) UnmarshalJSON(b []byte) error {
	var in actionJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "move":
		if in.Card == nil {
			return fmt.Errorf("move action requires a card")
		}
		*a = Move(cards.New(in.Card.Suit, in.Card.Rank), in.Target)
	case "tap":
		*a = Tap(in.Target)
	default:
		return fmt.Errorf("unknown action kind %q", in.Kind)
	}
	return nil
}

// Percept is what a player can see: every stack with hidden faces as nil.
type Percept struct {
	Stacks map[StackID][]*cards.Card `json:"stacks"`
}

// StackIDs returns the percept's stacks in table order: deck, waste,
// tableau columns, foundations.
func (p Percept) StackIDs() []StackID {
	ids := []StackID{}
	for _, id := range []StackID{DeckStack, WasteStack} {
		if _, ok := p.Stacks[id]; ok {
			ids = append(ids, id)
		}
	}
	for _, zone := range []Zone{ZoneTableau, ZoneFoundation} {
		for i := 0; ; i++ {
			id := StackID{Zone: zone, Index: i}
			if _, ok := p.Stacks[id]; !ok {
				break
			}
			ids = append(ids, id)
		}
	}
	return ids
}

// Top returns the top slot of a stack, or false if the stack is empty or
// unknown. The returned card is nil when its face is hidden.
func (p Percept) Top(id StackID) (*cards.Card, bool) {
	stack := p.Stacks[id]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// HistoryEntry records one applied action. Before is set only on entries of
// the running deal's undo stack.
type HistoryEntry struct {
	Action     Action     `json:"action"`
	MoveNumber int        `json:"move_number"`
	Timestamp  int64      `json:"timestamp"`
	Before     *Solitaire `json:"before,omitempty"`
}
