// Package service provides the business logic layer for the solitaire server.
//
// The service package implements:
//   - Multi-session table management
//   - Seed selection for new deals
//   - Action, gesture and undo processing
//   - Projection of each table into a TableView for clients
//   - Paginated move history
//   - Prometheus counters for deals, actions and wins
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and persistence.
// ConfigManager manages table configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the rule engine. Each session owns an engine.Game; the service reads only
// its percept, so face-down cards never leave the process. Pointer gestures
// are resolved through render.View before they reach the engine.
//
// Usage:
//
//	configMgr, _ := config.NewManager("configs", logger)
//	sessionMgr := session.NewManager(logger)
//	gameService := service.NewGameService(sessionMgr, configMgr, logger)
//
//	// Deal a new table
//	info, err := gameService.CreateSession(ctx, "classic", nil)
//	if err != nil {
//		logger.Fatal("setup failed", zap.Error(err))
//	}
//
//	// Play the first legal action
//	result, err := gameService.ApplyIndex(ctx, info.ID, 0)
//
// An illegal action is not an error: the returned ActionResult has Success
// false and the table is left as it was.
package service
