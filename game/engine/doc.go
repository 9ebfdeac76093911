// Package engine provides the Klondike rule engine.
//
// The engine package implements the game mechanics including:
//   - Dealing a shuffled deck into tableau columns and a draw pile
//   - Legal action enumeration in a fixed, reproducible order
//   - Draw-three and waste recycling on the deck
//   - Moving face-up runs between columns and onto foundations
//   - Configuration loading and validation
//
// Core Types:
//
// Solitaire is an immutable table snapshot implementing
// problem.Problem[Solitaire, Action, Percept]. Result never mutates its
// receiver, so any older snapshot stays valid. Game wraps a snapshot for a
// driver: it validates actions against the legal set, keeps the history used
// for undo, and carries the GameConfig loaded from JSON or YAML files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		logger.Fatal("load config", zap.Error(err))
//	}
//
//	game, err := engine.NewGame(config, 42)
//	if err != nil {
//		logger.Fatal("deal", zap.Error(err))
//	}
//
//	// Draw from the deck
//	if err := game.Apply(engine.Tap(engine.DeckStack)); err != nil {
//		logger.Warn("action rejected", zap.Error(err))
//	}
//	percept := game.Percept()
//
// Game Rules:
//
// Tableau columns build down in alternating colors and accept any card when
// empty. Foundations build up from the ace, one suit per pile. Tapping the
// deck turns over up to three cards, or turns the waste back into the deck
// once the deck is empty. The game is won when the deck, the waste and every
// column are empty.
package engine
