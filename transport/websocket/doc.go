// Package websocket pushes table updates to browser clients.
//
// A central Hub tracks the clients watching each session. Clients connect
// with /ws?session=<id>; every change the HTTP API makes to that session is
// broadcast as a Message carrying the new service.TableView:
//
//	{"session_id": "a1b2c3d4", "event": "table_update", "table": {...}}
//
// Incoming client messages are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// A client whose send buffer fills up is dropped rather than allowed to stall
// the broadcast.
package websocket
