package render

import (
	"github.com/wricardo/mcp-training/solitaire/game/cards"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/grid"
)

const (
	// wasteFan is how many of the newest waste cards are fanned out.
	wasteFan = 3
	// foundationColumn is the major X of the first foundation pile.
	foundationColumn = 5
	// tableauRow is the major Y of the tableau.
	tableauRow = 2

	hiddenStep = 1
	shownStep  = 2
)

// View projects a percept onto grid positions. It holds no state beyond the
// percept and every query is recomputed.
type View struct {
	percept engine.Percept
}

// NewView wraps p.
func NewView(p engine.Percept) View {
	return View{percept: p}
}

// Percept returns the wrapped percept.
func (v View) Percept() engine.Percept {
	return v.percept
}

// Cards lists every addressable id: for each stack in table order, its
// placeholder followed by one id per slot.
func (v View) Cards() []CardID {
	var out []CardID
	for _, stack := range v.percept.StackIDs() {
		out = append(out, Placeholder(stack))
		for i := range v.percept.Stacks[stack] {
			out = append(out, Slot(stack, i))
		}
	}
	return out
}

// DataFor computes the render data of id. It returns false when the stack or
// slot does not exist in this percept.
func (v View) DataFor(id CardID) (CardData, bool) {
	stack, ok := v.percept.Stacks[id.Stack]
	if !ok {
		return CardData{}, false
	}
	if id.IsBase() {
		return CardData{
			Pos:     stackBase(id.Stack).Sub(grid.At(grid.V(0, 0), grid.V(0, 0), 1)),
			Display: Display{Kind: DisplayEmpty},
			Entity:  Entity(id),
		}, true
	}
	if id.Slot < 0 || id.Slot >= len(stack) {
		return CardData{}, false
	}

	slot := stack[id.Slot]
	offset := grid.At(grid.V(0, 0), grid.V(0, 0), id.Slot)
	var children []CardID

	if id.Stack.Zone == engine.ZoneTableau {
		if slot != nil {
			for i := id.Slot + 1; i < len(stack); i++ {
				children = append(children, Slot(id.Stack, i))
			}
		}
		minor := 0
		for _, below := range stack[:id.Slot] {
			if below == nil {
				minor += hiddenStep
			} else {
				minor += shownStep
			}
		}
		offset.Y = grid.V(0, minor)
	}

	if id.Stack == engine.WasteStack {
		start := max(len(stack)-wasteFan, 0)
		if id.Slot > start {
			offset.X = grid.V(0, (id.Slot-start)*shownStep)
		}
	}

	draggable := len(children) > 0
	if !draggable && (id.Stack == engine.WasteStack || id.Stack.Zone == engine.ZoneTableau) {
		draggable = id.Slot == len(stack)-1
	}

	display := Display{Kind: DisplayBack}
	if slot != nil {
		display = Front(*slot)
	}

	data := CardData{
		Pos:       stackBase(id.Stack).Add(offset),
		Display:   display,
		Draggable: draggable,
		Entity:    Entity(id),
	}
	if draggable {
		data.DragChildren = append([]CardID{}, children...)
	}
	return data, true
}

// ActionFor translates a gesture into a candidate action. A drop only
// resolves when the dragged id currently shows a face; a tap always
// resolves to a tap on the target's stack. Legality is left to the engine.
func (v View) ActionFor(g Gesture) (engine.Action, bool) {
	switch g.Kind {
	case GestureDrop:
		data, ok := v.DataFor(g.Dragged)
		if !ok || data.Display.Kind != DisplayFront {
			return engine.Action{}, false
		}
		return engine.Move(data.Display.Card, g.Target.Stack), true
	case GestureTap:
		return engine.Tap(g.Target.Stack), true
	}
	return engine.Action{}, false
}

// GridExtents returns a fixed bounding box around the largest possible
// table, for camera framing.
func GridExtents() (low, high grid.Location) {
	return grid.At(grid.V(-1, 0), grid.V(-1, 0), -1),
		grid.At(grid.V(13, 0), grid.V(3, 32), 20)
}

// Entity returns the identity of a slot. It depends only on the slot's
// address, so the same logical slot keeps its entity across snapshots, and
// distinct addresses never share one.
func Entity(id CardID) cards.Ident {
	return cards.NewIdent(1).
		Descend(uint64(id.Stack.Zone), 2).
		Descend(uint64(id.Stack.Index), 6).
		Descend(uint64(id.Slot+1), 8)
}

func stackBase(id engine.StackID) grid.Location {
	switch id.Zone {
	case engine.ZoneStock:
		return grid.At(grid.V(id.Index*2, 0), grid.V(0, 0), 0)
	case engine.ZoneTableau:
		return grid.At(grid.V(id.Index*2, 0), grid.V(tableauRow, 0), 0)
	default:
		return grid.At(grid.V(id.Index*2+foundationColumn, 0), grid.V(0, 0), 0)
	}
}
