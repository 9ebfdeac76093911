// Package api provides the HTTP REST API for the solitaire server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Deal a new table ({"config_id": "easy", "seed": 42}, both optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Several tables at once (?sessionIds=a,b or ?configName=x)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current table view
//   - GET /api/sessions/{id}/actions - Numbered legal actions
//   - POST /api/sessions/{id}/action - Apply {"index": 3} or {"action": {...}}
//   - POST /api/sessions/{id}/gesture - Apply a pointer gesture
//   - POST /api/sessions/{id}/undo - Step back one action
//   - POST /api/sessions/{id}/reset - Redeal the session's seed
//   - GET /api/sessions/{id}/history - Move history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a configuration (optional "config_id")
//
// Misc:
//   - GET /api/health - Liveness
//   - GET /api/layout - Table extents in grid and world units
//   - GET /ws?session={id} - WebSocket table updates
//   - GET /metrics - Prometheus metrics
//
// Actions and gestures use the JSON forms of engine.Action and
// render.Gesture:
//
//	{"action": {"kind": "move", "card": {"suit": 2, "color": 1, "rank": 0}, "target": "foundation:2"}}
//	{"action": {"kind": "tap", "target": "deck"}}
//	{"kind": "drop", "dragged": "tableau:3#4", "target": "tableau:1"}
//
// An illegal action answers 200 with "success": false and the unchanged
// table. Unknown sessions and configs answer 404. Errors are JSON:
//
//	{"error": "session not found"}
package api
