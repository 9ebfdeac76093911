// Package render turns a percept into addressable, positioned card slots
// and translates pointer gestures back into engine actions.
//
// Every stack exposes a placeholder id (Slot == Base) that accepts drops when
// the stack is empty, plus one id per card slot. Positions are grid
// locations: the deck and waste sit on the top row, foundations start at
// major column 5, and the tableau hangs two majors below the deck. Face-up
// tableau cards fan out by two minor units and face-down ones by one, and
// the newest three waste cards fan sideways.
//
// Usage:
//
//	view := render.NewView(game.Percept())
//	for _, id := range view.Cards() {
//		data, _ := view.DataFor(id)
//		draw(data.Pos, data.Display.AssetName())
//	}
//	if action, ok := view.ActionFor(render.Drop(dragged, target)); ok {
//		err := game.Apply(action)
//	}
package render
