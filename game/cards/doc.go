// Package cards defines the playing card value type and the identity
// tokens used to follow a card's visual entity across table snapshots.
//
// Cards are plain comparable values and may be copied freely. A Card built
// with New carries a Color derived from its suit (spades and clubs are 0,
// hearts and diamonds are 1).
//
// Usage:
//
//	deck := cards.Shuffle(cards.FullDeck(4), 42)
//	fmt.Println(deck[0])           // e.g. "♡7 "
//	fmt.Println(deck[0].AssetName()) // "cards/card_7_hearts"
//
// Shuffling lives here so drivers have a deterministic deal source; the rule
// engine never shuffles on its own.
package cards
