// Package mcp exposes the solitaire REST API as Model Context Protocol tools.
//
// Client is a thin proxy: every tool call becomes one HTTP request against
// the API server, and the JSON reply is rendered as text an agent can read.
// Face-down cards are printed as ##.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: table lifecycle
//   - table_state: the table as the player sees it
//   - legal_actions: every legal action, numbered
//   - apply_action: play a legal action by index
//   - move_card, tap_deck: play an action directly
//   - undo, reset_game: take back one action, or re-deal the same shuffle
//   - move_history: paginated action history
//   - list_configs: available table configurations
//   - game_rules: rules and notation
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080", logger)
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	router.PathPrefix("/mcp").Handler(server.NewStreamableHTTPServer(client.GetMCPServer()))
package mcp
