package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/solitaire/game/cards"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
	logger     *zap.Logger
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Solitaire",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Solitaire - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Build every suit up from Ace to King on the foundations.

AVAILABLE TOOLS:
- create_session: Deal a new table (optional config_id and seed)
- list_sessions / get_session: Inspect running tables
- table_state: Show the table as the player sees it
- legal_actions: List every legal action with its index
- apply_action: Play a legal action by index
- move_card: Move a face-up card (and the cards above it) onto a stack
- tap_deck: Turn over the top deck card, or recycle the waste
- undo: Take back the last action
- reset_game: Re-deal the same shuffle
- move_history: View past actions
- list_configs: List available table configurations
- game_rules: Full rules and notation

TIP: call legal_actions and play by index; the list is always complete.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID of the table",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Deal a new table with optional config selection and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Identifier of the config to use (optional, see list_configs)",
				},
				"seed": map[string]interface{}{
					"type":        "number",
					"description": "Shuffle seed (optional). The same seed always deals the same table",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "table_state",
		Description: "Show the table: deck, waste, foundations and tableau columns. Face-down cards print as ##",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleTableState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_actions",
		Description: "List every legal action for the table, numbered for apply_action",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleLegalActions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "apply_action",
		Description: "Play the legal action with the given index from legal_actions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"index": map[string]interface{}{
					"type":        "number",
					"description": "Index of the action in legal_actions",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Why you are playing this action",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleApplyAction)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_card",
		Description: "Move a face-up card, with every card on top of it, onto a tableau column or foundation",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"card": map[string]interface{}{
					"type":        "string",
					"description": "Card to move, e.g. \"♠A\", \"10h\" or \"Qd\"",
				},
				"target": map[string]interface{}{
					"type":        "string",
					"description": "Destination stack: tableau:N (or tN) or foundation:N (or fN)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Why you are making this move",
				},
			},
			Required: []string{"session_id", "card", "target"},
		},
	}, c.handleMoveCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tap_deck",
		Description: "Turn over the top deck card onto the waste, or recycle the waste when the deck is empty",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleTapDeck)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Take back the last applied action",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Re-deal the table from its original shuffle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the actions applied so far, newest first by default",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "number",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Moves per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"description": "asc or desc (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available table configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the complete rules, table notation and tool usage",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving over stdio or HTTP.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", fmt.Errorf("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if seed, ok := args["seed"].(float64); ok {
		body["seed"] = int64(seed)
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n", session.ID, session.ConfigName, session.Seed)
	if session.Table != nil {
		result += "\n" + formatTable(session.Table)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in play"
		if s.Table != nil && s.Table.Won {
			status = "won"
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Seed: %d, %s, Created: %s)\n",
			s.ID, s.ConfigName, s.Seed, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleTableState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var table service.TableView
	if err := c.apiCall(ctx, "GET", path, nil, &table); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTable(&table)), nil
}

func (c *Client) handleLegalActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/actions")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Count   int                     `json:"count"`
		Actions []service.IndexedAction `json:"actions"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActions(response.Actions)), nil
}

func (c *Client) handleApplyAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	index, ok := args["index"].(float64)
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	// The intent parameter is for the caller's own reasoning
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, map[string]interface{}{"index": int(index)}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleMoveCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cardArg, _ := args["card"].(string)
	card, err := cards.ParseCard(cardArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetArg, _ := args["target"].(string)
	target, err := engine.ParseStackID(targetArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.postAction(ctx, path, engine.Move(card, target))
}

func (c *Client) handleTapDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.postAction(ctx, path, engine.Tap(engine.DeckStack))
}

func (c *Client) postAction(ctx context.Context, path string, action engine.Action) (*mcp.CallToolResult, error) {
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, map[string]interface{}{"action": action}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/undo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string             `json:"message"`
		Table   *service.TableView `json:"table"`
	}
	if err := c.apiCall(ctx, "POST", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := response.Message + "\n"
	if response.Table != nil {
		result += "\n" + formatTable(response.Table)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/history")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page, ok := args["page"].(float64); ok {
		query.Set("page", fmt.Sprint(int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", fmt.Sprint(int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		query.Set("order", order)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "- %s: %s (%d columns, %d suits, %d cards)\n",
			cfg.ConfigID, cfg.Name, cfg.Rows, cfg.Suits, cfg.CardCount)
		if cfg.Description != "" {
			fmt.Fprintf(&b, "  %s\n", cfg.Description)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := `Solitaire - Complete Rules

GAME OBJECTIVE:
Move every card onto the foundations. Each foundation holds one suit,
built up from Ace to King.

THE TABLE:
- Deck: face-down pile. Tapping it turns its top card onto the waste.
- Waste: face-up pile. Only its top card can be played.
- Tableau: columns dealt 1, 2, 3... cards deep. Only the last card of a
  column starts face up; the card under a moved run turns face up.
- Foundations: one per suit, built Ace first.

LEGAL MOVES:
- Tableau: a card goes onto a card one rank higher of the other color.
  The card moves together with every card on top of it.
- Empty column: any face-up card (with the cards above it) may go there.
- Foundation: a single card goes onto the card one rank lower of the
  same suit; an Ace goes onto an empty foundation.
- Deck tap: when the deck is empty, tapping it turns the waste back
  over into the deck.

NOTATION:
- Cards: suit glyph then rank, e.g. ♠A, ♡10, ♣Q. Tools also accept
  10h, Qd, As.
- Face-down cards print as ##.
- Stacks: deck, waste, tableau:N (tN), foundation:N (fN), counted from 0.

PLAYING WITH TOOLS:
1. create_session, then table_state to look at the deal.
2. legal_actions lists every legal action with an index.
3. apply_action with that index, or move_card / tap_deck directly.
4. undo takes back mistakes; reset_game re-deals the same shuffle.

VICTORY:
The table is won when every card sits on a foundation.`

	return mcp.NewToolResultText(rules), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\nLast accessed: %s\n",
		session.ID, session.ConfigName, session.Seed,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	if session.Table != nil {
		b.WriteString("\n")
		b.WriteString(formatTable(session.Table))
	}
	return b.String()
}

func cardText(c *cards.Card) string {
	if c == nil {
		return "## "
	}
	return c.String()
}

func formatStack(stack []*cards.Card) string {
	if len(stack) == 0 {
		return "--"
	}
	parts := make([]string, len(stack))
	for i, c := range stack {
		parts[i] = strings.TrimRight(cardText(c), " ")
	}
	return strings.Join(parts, " ")
}

func formatTable(table *service.TableView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table %s (%s, seed %d)\n", table.SessionID, table.ConfigName, table.Seed)
	if table.Won {
		b.WriteString("🎉 VICTORY!\n")
	}
	if table.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", table.Message)
	}
	fmt.Fprintf(&b, "Moves: %d  Foundation cards: %d\n\n", table.TotalMoves, table.FoundationCards)

	percept := engine.Percept{Stacks: table.Stacks}
	waste := "--"
	if top, ok := percept.Top(engine.WasteStack); ok {
		waste = strings.TrimRight(cardText(top), " ")
	}
	fmt.Fprintf(&b, "Deck: %d cards  Waste: %s (%d)\n", table.DeckSize, waste, len(table.Stacks[engine.WasteStack]))

	var foundations, columns []string
	for _, id := range percept.StackIDs() {
		switch id.Zone {
		case engine.ZoneFoundation:
			top := "--"
			if c, ok := percept.Top(id); ok {
				top = strings.TrimRight(cardText(c), " ")
			}
			foundations = append(foundations, fmt.Sprintf("f%d %s", id.Index, top))
		case engine.ZoneTableau:
			columns = append(columns, fmt.Sprintf("  t%d: %s", id.Index, formatStack(table.Stacks[id])))
		}
	}
	fmt.Fprintf(&b, "Foundations: %s\n", strings.Join(foundations, "  "))
	b.WriteString("Tableau:\n")
	for _, line := range columns {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(table.Actions) > 0 {
		fmt.Fprintf(&b, "\n%d legal actions (see legal_actions)\n", len(table.Actions))
	}
	return b.String()
}

func formatActions(actions []service.IndexedAction) string {
	if len(actions) == 0 {
		return "No legal actions.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Legal actions (%d):\n", len(actions))
	for _, a := range actions {
		fmt.Fprintf(&b, "  [%d] %s\n", a.Index, a.Description)
	}
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Action applied")
		if result.Action != nil {
			fmt.Fprintf(&b, ": %s", result.Action)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("✗ Action rejected\n")
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}
	if result.Table != nil {
		b.WriteString("\n")
		b.WriteString(formatTable(result.Table))
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves):\n\n",
		history.Page, history.TotalPages, history.TotalMoves)
	for _, move := range history.Moves {
		fmt.Fprintf(&b, "%d. %s\n", move.MoveNumber, move.Description)
	}
	if history.HasNext {
		b.WriteString("\n(more moves on the next page)\n")
	}
	return b.String()
}
