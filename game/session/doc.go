// Package session provides session management for the solitaire server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Optional file persistence of whole games
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager owns the in-memory sessions. Each service.Session holds its own
// engine.Game, dealt from a config and a seed.
//
// Session Identifiers:
//
// Generated IDs are the first 8 hex characters of a random UUID. Lookups are
// case-insensitive.
//
// Persistence:
//
// FilePersistence writes one JSON file per session holding the config, seed,
// initial deal, current table and move history, so undo and reset keep
// working across restarts.
//
// Usage:
//
//	persistence, _ := session.NewFilePersistence("sessions")
//	manager := session.NewManagerWithPersistence(persistence, logger)
//	_ = manager.LoadPersistedSessions()
//
//	// Deal a new table
//	sess, err := manager.Create("", "classic", config, seed)
//	if err != nil {
//		logger.Fatal("setup failed", zap.Error(err))
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sess.ID)
package session
