package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/grid"
)

// Base is the Slot of a stack's placeholder, the target used when dropping
// onto an empty stack.
const Base = -1

// CardID addresses one card slot, or the placeholder, of a stack.
type CardID struct {
	Stack engine.StackID
	Slot  int
}

// Slot addresses card i of stack.
func Slot(stack engine.StackID, i int) CardID {
	return CardID{Stack: stack, Slot: i}
}

// Placeholder addresses the empty-slot target of stack.
func Placeholder(stack engine.StackID) CardID {
	return CardID{Stack: stack, Slot: Base}
}

// IsBase reports whether id is a placeholder.
func (id CardID) IsBase() bool {
	return id.Slot == Base
}

// String returns "tableau:2#3" for a slot and "waste#base" for a placeholder.
func (id CardID) String() string {
	if id.IsBase() {
		return id.Stack.String() + "#base"
	}
	return id.Stack.String() + "#" + strconv.Itoa(id.Slot)
}

// ParseCardID parses the String form. A bare stack id means its placeholder.
func ParseCardID(s string) (CardID, error) {
	stack, slot, found := strings.Cut(strings.TrimSpace(s), "#")
	id, err := engine.ParseStackID(stack)
	if err != nil {
		return CardID{}, err
	}
	if !found || slot == "base" {
		return Placeholder(id), nil
	}
	n, err := strconv.Atoi(slot)
	if err != nil || n < 0 {
		return CardID{}, fmt.Errorf("invalid card slot %q", s)
	}
	return Slot(id, n), nil
}

// MarshalText encodes the String form.
func (id CardID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses the String form.
func (id *CardID) UnmarshalText(b []byte) error {
	parsed, err := ParseCardID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// DisplayKind says which face of a slot is drawn.
type DisplayKind int

const (
	DisplayEmpty DisplayKind = iota
	DisplayBack
	DisplayFront
)

func (k DisplayKind) String() string {
	switch k {
	case DisplayFront:
		return "front"
	case DisplayBack:
		return "back"
	default:
		return "empty"
	}
}

// Display is what a host draws for a slot. Card is only set for fronts.
type Display struct {
	Kind DisplayKind
	Card cards.Card
}

// Front shows the face of c.
func Front(c cards.Card) Display {
	return Display{Kind: DisplayFront, Card: c}
}

// AssetName returns the texture a host draws for the display.
func (d Display) AssetName() string {
	switch d.Kind {
	case DisplayFront:
		return d.Card.AssetName()
	case DisplayBack:
		return "cards/card_back"
	default:
		return "cards/card_empty"
	}
}

type displayJSON struct {
	Kind  string      `json:"kind"`
	Card  *cards.Card `json:"card,omitempty"`
	Asset string      `json:"asset"`
}

func (d Display) MarshalJSON() ([]byte, error) {
	out := displayJSON{Kind: d.Kind.String(), Asset: d.AssetName()}
	if d.Kind == DisplayFront {
		c := d.Card
		out.Card = &c
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the MarshalJSON form. The asset name is derived, so it
// is ignored.
func (d *Display) UnmarshalJSON(b []byte) error {
	var in displayJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "front":
		if in.Card == nil {
			return fmt.Errorf("front display requires a card")
		}
		*d = Front(*in.Card)
	case "back":
		*d = Display{Kind: DisplayBack}
	case "empty", "":
		*d = Display{Kind: DisplayEmpty}
	default:
		return fmt.Errorf("unknown display kind %q", in.Kind)
	}
	return nil
}

// CardData is the render-facing description of one slot. It is derived on
// demand from a percept and never stored.
type CardData struct {
	Pos          grid.Location `json:"pos"`
	Display      Display       `json:"display"`
	Draggable    bool          `json:"draggable"`
	DragChildren []CardID      `json:"drag_children,omitempty"`
	Entity       cards.Ident   `json:"entity"`
}

// GestureKind tags a Gesture.
type GestureKind int

const (
	GestureDrop GestureKind = iota + 1
	GestureTap
)

func (k GestureKind) String() string {
	switch k {
	case GestureDrop:
		return "drop"
	case GestureTap:
		return "tap"
	default:
		return "unknown"
	}
}

// Gesture is a pointer interaction already resolved to card ids by the host.
type Gesture struct {
	Kind    GestureKind `json:"-"`
	Dragged CardID      `json:"dragged"`
	Target  CardID      `json:"target"`
}

// Drop drags dragged and releases it over target.
func Drop(dragged, target CardID) Gesture {
	return Gesture{Kind: GestureDrop, Dragged: dragged, Target: target}
}

// TapOn taps target.
func TapOn(target CardID) Gesture {
	return Gesture{Kind: GestureTap, Target: target}
}

type gestureJSON struct {
	Kind    string  `json:"kind"`
	Dragged *CardID `json:"dragged,omitempty"`
	Target  CardID  `json:"target"`
}

func (g Gesture) MarshalJSON() ([]byte, error) {
	out := gestureJSON{Kind: g.Kind.String(), Target: g.Target}
	if g.Kind == GestureDrop {
		d := g.Dragged
		out.Dragged = &d
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts {"kind":"drop","dragged":"tableau:1#2","target":"foundation:0"}
// and {"kind":"tap","target":"deck"}.
func (g *Gesture) UnmarshalJSON(b []byte) error {
	var in gestureJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch in.Kind {
	case "drop":
		if in.Dragged == nil {
			return fmt.Errorf("drop gesture requires a dragged card")
		}
		*g = Drop(*in.Dragged, in.Target)
	case "tap":
		*g = TapOn(in.Target)
	default:
		return fmt.Errorf("unknown gesture kind %q", in.Kind)
	}
	return nil
}
