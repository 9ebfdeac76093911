package cards

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Suit values. Even suits are black, odd suits are red.
const (
	Spades   = 0
	Hearts   = 1
	Clubs    = 2
	Diamonds = 3

	MaxSuits     = 4
	RanksPerSuit = 13
)

// Rank values for the face cards and the ace.
const (
	Ace   = 0
	Jack  = 10
	Queen = 11
	King  = 12
)

// Card is an immutable playing card value.
// Color is derived from the suit when built through New and kept alongside
// it so rule checks can compare colors directly.
type Card struct {
	Suit  int `json:"suit" yaml:"suit"`
	Color int `json:"color" yaml:"color"`
	Rank  int `json:"rank" yaml:"rank"`
}

// New creates a card of the given suit and rank.
func New(suit, rank int) Card {
	return Card{Suit: suit, Color: suit % 2, Rank: rank}
}

// IsRed reports whether the card is hearts or diamonds.
func (c Card) IsRed() bool {
	return c.Color == 1
}

// SuitGlyph returns the suit symbol used by text drivers.
func (c Card) SuitGlyph() string {
	switch c.Suit {
	case Spades:
		return "♠"
	case Hearts:
		return "♡"
	case Clubs:
		return "♣"
	case Diamonds:
		return "♢"
	default:
		return "?"
	}
}

// RankLabel returns A, 2..10, J, Q or K.
func (c Card) RankLabel() string {
	switch c.Rank {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(c.Rank + 1)
	}
}

// Label returns the compact form, e.g. "♠A" or "♡10".
func (c Card) Label() string {
	return c.SuitGlyph() + c.RankLabel()
}

// String returns the fixed-width console form, e.g. "♠A " or "♡10".
func (c Card) String() string {
	return fmt.Sprintf("%s%-2s", c.SuitGlyph(), c.RankLabel())
}

// AssetName maps the card to the texture name used by graphical hosts.
func (c Card) AssetName() string {
	suit := [...]string{"spades", "hearts", "clubs", "diamonds"}
	s := "diamonds"
	if c.Suit >= 0 && c.Suit < len(suit) {
		s = suit[c.Suit]
	}

	var rank string
	switch c.Rank {
	case Ace:
		rank = "ace"
	case Jack:
		rank = "jack"
	case Queen:
		rank = "queen"
	case King:
		rank = "king"
	default:
		rank = strconv.Itoa(c.Rank + 1)
	}
	return fmt.Sprintf("cards/card_%s_%s", rank, s)
}

// ParseCard parses a card written as rank followed by suit, in either order.
// Suits may be glyphs (♠♡♥♣♢♦) or letters (s h c d); ranks are A, 2-10, J, Q, K.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("empty card")
	}

	suit := -1
	rest := s
	for glyph, value := range map[string]int{
		"♠": Spades, "♡": Hearts, "♥": Hearts, "♣": Clubs, "♢": Diamonds, "♦": Diamonds,
	} {
		if strings.HasPrefix(rest, glyph) {
			suit, rest = value, strings.TrimPrefix(rest, glyph)
			break
		}
		if strings.HasSuffix(rest, glyph) {
			suit, rest = value, strings.TrimSuffix(rest, glyph)
			break
		}
	}
	if suit < 0 {
		last := strings.ToLower(rest[len(rest)-1:])
		switch last {
		case "s":
			suit = Spades
		case "h":
			suit = Hearts
		case "c":
			suit = Clubs
		case "d":
			suit = Diamonds
		default:
			return Card{}, fmt.Errorf("card %q: unknown suit", s)
		}
		rest = rest[:len(rest)-1]
	}

	var rank int
	switch strings.ToUpper(strings.TrimSpace(rest)) {
	case "A", "1":
		rank = Ace
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	default:
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || n < 2 || n > 10 {
			return Card{}, fmt.Errorf("card %q: unknown rank", s)
		}
		rank = n - 1
	}
	return New(suit, rank), nil
}

// FullDeck returns suits*13 cards in suit-major, rank-ascending order.
func FullDeck(suits int) []Card {
	deck := make([]Card, 0, suits*RanksPerSuit)
	for s := 0; s < suits; s++ {
		for r := 0; r < RanksPerSuit; r++ {
			deck = append(deck, New(s, r))
		}
	}
	return deck
}

// Shuffle returns a shuffled copy of deck. The same seed always yields the
// same order.
func Shuffle(deck []Card, seed int64) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
