package service

import (
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/render"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	Table          *TableView         `json:"table"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// TableView is everything a client needs to draw and play one table. It is
// built from the percept only, so face-down cards are never exposed.
type TableView struct {
	SessionID       string                           `json:"session_id"`
	ConfigName      string                           `json:"config_name"`
	Seed            int64                            `json:"seed"`
	Stacks          map[engine.StackID][]*cards.Card `json:"stacks"`
	Cards           []CardView                       `json:"cards"`
	Actions         []IndexedAction                  `json:"actions"`
	DeckSize        int                              `json:"deck_size"`
	FoundationCards int                              `json:"foundation_cards"`
	TotalMoves      int                              `json:"total_moves"`
	Won             bool                             `json:"won"`
	Message         string                           `json:"message"`
}

// CardView pairs a card id with its render data.
type CardView struct {
	ID render.CardID `json:"id"`
	render.CardData
}

// IndexedAction is a legal action with its position in the engine's list.
type IndexedAction struct {
	Index       int           `json:"index"`
	Action      engine.Action `json:"action"`
	Description string        `json:"description"`
}

// ActionResult contains the result of an action. An illegal action is not
// an error: Success is false and the table is unchanged.
type ActionResult struct {
	Success bool           `json:"success"`
	Action  *engine.Action `json:"action,omitempty"`
	Message string         `json:"message"`
	Won     bool           `json:"won"`
	Table   *TableView     `json:"table"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryMove is one applied action as reported to clients.
type HistoryMove struct {
	MoveNumber  int           `json:"move_number"`
	Action      engine.Action `json:"action"`
	Description string        `json:"description"`
	Timestamp   int64         `json:"timestamp"`
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []HistoryMove `json:"moves"`
	TotalMoves  int           `json:"total_moves"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// ConfigInfo provides information about a table configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Suits       int    `json:"suits"`
	CardCount   int    `json:"card_count"`
}
