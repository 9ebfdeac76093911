package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
	"github.com/wricardo/mcp-training/solitaire/game/problem"
)

var (
	ErrInsufficientCards = errors.New("not enough cards to deal")
	ErrInvalidLayout     = errors.New("invalid table layout")
	ErrCardConservation  = errors.New("card conservation violated")
)

// Solitaire is an immutable snapshot of a Klondike table. Every transition
// returns a new value with its own backing arrays, so older snapshots can be
// kept for history and undo.
type Solitaire struct {
	deck       []cards.Card
	waste      []cards.Card
	tableau    [][]cards.Card
	visibility []int
	goal       [][]cards.Card
}

var _ problem.Problem[Solitaire, Action, Percept] = Solitaire{}

// Deal lays out a shuffled deck. Cards are taken from the end of the slice:
// column i receives i+1 cards with only the last one face up, and whatever
// remains becomes the deck with the last remaining card at its bottom.
func Deal(deck []cards.Card, rowCount, foundationCount int) (Solitaire, error) {
	if rowCount < 0 || foundationCount < 0 {
		return Solitaire{}, fmt.Errorf("%w: %d rows, %d foundations", ErrInvalidLayout, rowCount, foundationCount)
	}
	need := rowCount * (rowCount + 1) / 2
	if len(deck) < need {
		return Solitaire{}, fmt.Errorf("%w: %d rows need %d cards, got %d", ErrInsufficientCards, rowCount, need, len(deck))
	}

	remaining := make([]cards.Card, len(deck))
	copy(remaining, deck)
	pop := func() cards.Card {
		c := remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
		return c
	}

	s := Solitaire{
		deck:       make([]cards.Card, 0, len(deck)-need),
		waste:      []cards.Card{},
		tableau:    make([][]cards.Card, rowCount),
		visibility: make([]int, rowCount),
		goal:       make([][]cards.Card, foundationCount),
	}
	for i := 0; i < rowCount; i++ {
		column := make([]cards.Card, 0, i+1)
		for j := 0; j <= i; j++ {
			column = append(column, pop())
		}
		s.tableau[i] = column
		s.visibility[i] = i
	}
	for i := range s.goal {
		s.goal[i] = []cards.Card{}
	}
	for len(remaining) > 0 {
		s.deck = append(s.deck, pop())
	}
	return s, nil
}

// Percept hides the deck and the face-down part of every column.
func (s Solitaire) Percept() Percept {
	stacks := make(map[StackID][]*cards.Card, 2+len(s.tableau)+len(s.goal))

	deck := make([]*cards.Card, len(s.deck))
	stacks[DeckStack] = deck
	stacks[WasteStack] = shown(s.waste)

	for i, column := range s.tableau {
		slots := make([]*cards.Card, len(column))
		for j := range column {
			if j >= s.visibility[i] {
				c := column[j]
				slots[j] = &c
			}
		}
		stacks[TableauStack(i)] = slots
	}
	for i, pile := range s.goal {
		stacks[FoundationStack(i)] = shown(pile)
	}
	return Percept{Stacks: stacks}
}

func shown(stack []cards.Card) []*cards.Card {
	out := make([]*cards.Card, len(stack))
	for i := range stack {
		c := stack[i]
		out[i] = &c
	}
	return out
}

// Actions lists the legal actions in a fixed order: the deck tap, then
// tableau moves for the waste top and every face-up tableau card, then
// foundation moves for the waste top and every column top.
func (s Solitaire) Actions() []Action {
	out := []Action{}
	if len(s.deck) > 0 || len(s.waste) > 0 {
		out = append(out, Tap(DeckStack))
	}

	var candidates []cards.Card
	if len(s.waste) > 0 {
		candidates = append(candidates, s.waste[len(s.waste)-1])
	}
	for i, column := range s.tableau {
		candidates = append(candidates, column[s.visibility[i]:]...)
	}
	for _, c := range candidates {
		for k, column := range s.tableau {
			if len(column) == 0 {
				out = append(out, Move(c, TableauStack(k)))
				continue
			}
			top := column[len(column)-1]
			if top.Color != c.Color && top.Rank == c.Rank+1 {
				out = append(out, Move(c, TableauStack(k)))
			}
		}
	}

	candidates = candidates[:0]
	if len(s.waste) > 0 {
		candidates = append(candidates, s.waste[len(s.waste)-1])
	}
	for _, column := range s.tableau {
		if len(column) > 0 {
			candidates = append(candidates, column[len(column)-1])
		}
	}
	for _, c := range candidates {
		for k, pile := range s.goal {
			if c.Rank == len(pile) && c.Suit == k {
				out = append(out, Move(c, FoundationStack(k)))
			}
		}
	}
	return out
}

// Result returns the state after action. The receiver is never modified.
// Rules are not re-checked: callers are expected to pick from Actions (see
// problem.Step). Actions that cannot be carried out at all, such as moving a
// card that is not on the table or tapping anything but the deck, return an
// unchanged copy.
func (s Solitaire) Result(action Action) Solitaire {
	out := s.Clone()
	switch action.Kind {
	case ActionTap:
		if action.Target != DeckStack {
			return out
		}
		if len(out.deck) == 0 {
			out.deck = reversed(out.waste)
			out.waste = []cards.Card{}
			return out
		}
		for i := 0; i < DrawCount && len(out.deck) > 0; i++ {
			top := out.deck[len(out.deck)-1]
			out.deck = out.deck[:len(out.deck)-1]
			out.waste = append(out.waste, top)
		}
		return out

	case ActionMove:
		dst := out.stack(action.Target)
		if dst == nil {
			return out
		}
		src, k := out.locate(action.Card)
		if src == nil {
			return out
		}
		run := append([]cards.Card(nil), (*src)[k:]...)
		*src = (*src)[:k]
		*dst = append(*dst, run...)
		out.settleVisibility()
		return out
	}
	return out
}

// locate finds card by scanning the stock, then the tableau, then the
// foundations, and returns its stack and position.
func (s *Solitaire) locate(card cards.Card) (*[]cards.Card, int) {
	for _, zone := range []Zone{ZoneStock, ZoneTableau, ZoneFoundation} {
		for j := 0; ; j++ {
			stack := s.stack(StackID{Zone: zone, Index: j})
			if stack == nil {
				break
			}
			for k, c := range *stack {
				if c == card {
					return stack, k
				}
			}
		}
	}
	return nil, 0
}

// stack returns a pointer to the slice backing id, or nil.
func (s *Solitaire) stack(id StackID) *[]cards.Card {
	switch id.Zone {
	case ZoneStock:
		switch id.Index {
		case 0:
			return &s.deck
		case 1:
			return &s.waste
		}
	case ZoneTableau:
		if id.Index >= 0 && id.Index < len(s.tableau) {
			return &s.tableau[id.Index]
		}
	case ZoneFoundation:
		if id.Index >= 0 && id.Index < len(s.goal) {
			return &s.goal[id.Index]
		}
	}
	return nil
}

// settleVisibility clamps every column's visibility to its length and turns
// up the new top card of a column whose face-up run was moved away.
func (s *Solitaire) settleVisibility() {
	for i, column := range s.tableau {
		if s.visibility[i] > len(column) {
			s.visibility[i] = len(column)
		}
		if len(column) > 0 && len(column) <= s.visibility[i] {
			s.visibility[i]--
		}
	}
}

// IsGoal reports whether every card has left the deck, waste and tableau.
func (s Solitaire) IsGoal() bool {
	for _, column := range s.tableau {
		if len(column) > 0 {
			return false
		}
	}
	return len(s.deck) == 0 && len(s.waste) == 0
}

// Clone returns a deep copy.
func (s Solitaire) Clone() Solitaire {
	return Solitaire{
		deck:       copyCards(s.deck),
		waste:      copyCards(s.waste),
		tableau:    copyStacks(s.tableau),
		visibility: append([]int{}, s.visibility...),
		goal:       copyStacks(s.goal),
	}
}

// Equal reports whether both snapshots hold the same cards in the same
// places with the same visibility.
func (s Solitaire) Equal(o Solitaire) bool {
	if !sameCards(s.deck, o.deck) || !sameCards(s.waste, o.waste) {
		return false
	}
	if len(s.tableau) != len(o.tableau) || len(s.goal) != len(o.goal) {
		return false
	}
	for i := range s.tableau {
		if !sameCards(s.tableau[i], o.tableau[i]) || s.visibility[i] != o.visibility[i] {
			return false
		}
	}
	for i := range s.goal {
		if !sameCards(s.goal[i], o.goal[i]) {
			return false
		}
	}
	return true
}

// Deck returns the face-down draw pile, top last.
func (s Solitaire) Deck() []cards.Card { return copyCards(s.deck) }

// Waste returns the face-up pile drawn from the deck, top last.
func (s Solitaire) Waste() []cards.Card { return copyCards(s.waste) }

// Column returns tableau column i, top last.
func (s Solitaire) Column(i int) []cards.Card {
	if i < 0 || i >= len(s.tableau) {
		return nil
	}
	return copyCards(s.tableau[i])
}

// Foundation returns foundation pile i, top last.
func (s Solitaire) Foundation(i int) []cards.Card {
	if i < 0 || i >= len(s.goal) {
		return nil
	}
	return copyCards(s.goal[i])
}

// Visibility returns, per column, the index of the first face-up card.
func (s Solitaire) Visibility() []int { return append([]int{}, s.visibility...) }

// RowCount returns the number of tableau columns.
func (s Solitaire) RowCount() int { return len(s.tableau) }

// FoundationCount returns the number of foundation piles.
func (s Solitaire) FoundationCount() int { return len(s.goal) }

// FoundationCards returns how many cards have reached the foundations.
func (s Solitaire) FoundationCards() int {
	n := 0
	for _, pile := range s.goal {
		n += len(pile)
	}
	return n
}

// AllCards returns every card on the table.
func (s Solitaire) AllCards() []cards.Card {
	all := append(copyCards(s.deck), s.waste...)
	for _, column := range s.tableau {
		all = append(all, column...)
	}
	for _, pile := range s.goal {
		all = append(all, pile...)
	}
	return all
}

// Validate checks that the table holds each card of a suits*13 deck exactly
// once and that every visibility index is within its column.
func (s Solitaire) Validate(suits int) error {
	all := s.AllCards()
	if len(all) != suits*cards.RanksPerSuit {
		return fmt.Errorf("%w: %d cards on table, want %d", ErrCardConservation, len(all), suits*cards.RanksPerSuit)
	}
	seen := make(map[cards.Card]bool, len(all))
	for _, c := range all {
		if c.Suit < 0 || c.Suit >= suits || c.Rank < 0 || c.Rank >= cards.RanksPerSuit {
			return fmt.Errorf("%w: unexpected card %v", ErrCardConservation, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %v", ErrCardConservation, c)
		}
		seen[c] = true
	}
	return s.checkVisibility()
}

func (s Solitaire) checkVisibility() error {
	if len(s.visibility) != len(s.tableau) {
		return fmt.Errorf("%w: %d visibility entries for %d columns", ErrInvalidLayout, len(s.visibility), len(s.tableau))
	}
	for i, v := range s.visibility {
		if v < 0 || v > len(s.tableau[i]) {
			return fmt.Errorf("%w: column %d visibility %d out of range", ErrInvalidLayout, i, v)
		}
	}
	return nil
}

type solitaireJSON struct {
	Deck        []cards.Card   `json:"deck"`
	Waste       []cards.Card   `json:"waste"`
	Tableau     [][]cards.Card `json:"tableau"`
	Visibility  []int          `json:"visibility"`
	Foundations [][]cards.Card `json:"foundations"`
}

// MarshalJSON encodes the full, unredacted snapshot.
func (s Solitaire) MarshalJSON() ([]byte, error) {
	return json.Marshal(solitaireJSON{
		Deck:        nonNil(s.deck),
		Waste:       nonNil(s.waste),
		Tableau:     copyStacks(s.tableau),
		Visibility:  append([]int{}, s.visibility...),
		Foundations: copyStacks(s.goal),
	})
}

// UnmarshalJSON restores a snapshot written by MarshalJSON.
func (s *Solitaire) UnmarshalJSON(b []byte) error {
	var in solitaireJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	restored := Solitaire{
		deck:       nonNil(in.Deck),
		waste:      nonNil(in.Waste),
		tableau:    copyStacks(in.Tableau),
		visibility: append([]int{}, in.Visibility...),
		goal:       copyStacks(in.Foundations),
	}
	if err := restored.checkVisibility(); err != nil {
		return err
	}
	*s = restored
	return nil
}

func reversed(stack []cards.Card) []cards.Card {
	out := make([]cards.Card, len(stack))
	for i, c := range stack {
		out[len(stack)-1-i] = c
	}
	return out
}

func copyCards(stack []cards.Card) []cards.Card {
	return append([]cards.Card{}, stack...)
}

func copyStacks(stacks [][]cards.Card) [][]cards.Card {
	out := make([][]cards.Card, len(stacks))
	for i, stack := range stacks {
		out[i] = copyCards(stack)
	}
	return out
}

func nonNil(stack []cards.Card) []cards.Card {
	if stack == nil {
		return []cards.Card{}
	}
	return copyCards(stack)
}

func sameCards(a, b []cards.Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
