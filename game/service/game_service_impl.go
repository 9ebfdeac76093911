package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/problem"
	"github.com/wricardo/mcp-training/solitaire/game/render"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. A nil logger discards
// log output.
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger,
	}
}

// getConfigID returns the config_id for a display name.
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// DealSeed picks the shuffle seed for a new deal: the requested seed, then
// the config's fixed seed, then a random one.
func DealSeed(requested *int64, config *engine.GameConfig) int64 {
	switch {
	case requested != nil:
		return *requested
	case config != nil && config.Seed != nil:
		return *config.Seed
	default:
		return rand.Int64()
	}
}

// CreateSession deals a new table. The seed argument wins over a seed fixed
// by the config; without either a random seed is drawn.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed *int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return nil, s.configNotFound(configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	dealSeed := DealSeed(seed, config)

	session, err := s.sessions.Create("", configID, config, dealSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sessionsCreated.WithLabelValues(configID).Inc()
	s.logger.Info("session created",
		zap.String("session", session.ID),
		zap.String("config", configID),
		zap.Int64("seed", dealSeed))

	return s.sessionInfo(session), nil
}

func (s *gameServiceImpl) configNotFound(configName string) error {
	availableConfigs, listErr := s.configs.ListConfigs()
	if listErr == nil && len(availableConfigs) > 0 {
		var configIDs []string
		for _, cfg := range availableConfigs {
			configIDs = append(configIDs, cfg.ConfigID)
		}
		return fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
	}
	return fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
}

func (s *gameServiceImpl) sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     session.ConfigID,
		Seed:           session.Game.Seed(),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Table:          buildTable(session),
		GameConfig:     session.Config,
	}
}

// lookup returns the session and marks it accessed.
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return session, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// Apply validates action against the legal actions of the session's table
// and applies it.
func (s *gameServiceImpl) Apply(ctx context.Context, sessionID string, action engine.Action) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.apply(session, action), nil
}

// ApplyIndex applies the index-th legal action.
func (s *gameServiceImpl) ApplyIndex(ctx context.Context, sessionID string, index int) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	actions := session.Game.LegalActions()
	if index < 0 || index >= len(actions) {
		return &ActionResult{
			Success: false,
			Message: fmt.Sprintf("No action %d: choose between 0 and %d", index, len(actions)-1),
			Won:     session.Game.IsWon(),
			Table:   buildTable(session),
		}, nil
	}
	return s.apply(session, actions[index]), nil
}

// Gesture resolves a pointer gesture against the current percept and
// applies the resulting action.
func (s *gameServiceImpl) Gesture(ctx context.Context, sessionID string, gesture render.Gesture) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	view := render.NewView(session.Game.Percept())
	action, ok := view.ActionFor(gesture)
	if !ok {
		recordAction("gesture", false)
		return &ActionResult{
			Success: false,
			Message: ErrUnknownGesture.Error(),
			Won:     session.Game.IsWon(),
			Table:   buildTable(session),
		}, nil
	}
	return s.apply(session, action), nil
}

func (s *gameServiceImpl) apply(session *Session, action engine.Action) *ActionResult {
	err := session.Game.Apply(action)
	result := &ActionResult{
		Success: err == nil,
		Action:  &action,
		Message: session.Game.Message(),
		Won:     session.Game.IsWon(),
		Table:   buildTable(session),
	}

	recordAction(action.Kind.String(), err == nil)
	if err != nil {
		if errors.Is(err, engine.ErrGameWon) {
			result.Message = err.Error()
		}
		s.logger.Debug("action rejected",
			zap.String("session", session.ID),
			zap.Stringer("action", action),
			zap.Bool("illegal", errors.Is(err, problem.ErrIllegalAction)))
		return result
	}

	if result.Won {
		recordWin(session.Game)
	}
	s.logger.Info("action applied",
		zap.String("session", session.ID),
		zap.Stringer("action", action),
		zap.Int("move", session.Game.TotalMoves()),
		zap.Bool("won", result.Won))
	s.persist(session.ID, "action")
	return result
}

// Undo steps back one action.
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	action, err := session.Game.Undo()
	recordAction("undo", err == nil)
	if err != nil {
		return &ActionResult{
			Success: false,
			Message: err.Error(),
			Won:     session.Game.IsWon(),
			Table:   buildTable(session),
		}, nil
	}

	s.persist(sessionID, "undo")
	return &ActionResult{
		Success: true,
		Action:  &action,
		Message: session.Game.Message(),
		Won:     session.Game.IsWon(),
		Table:   buildTable(session),
	}, nil
}

// Reset redeals the session's seed.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*TableView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.Game.Reset()
	recordAction("reset", true)
	s.persist(sessionID, "reset")
	return buildTable(session), nil
}

func (s *gameServiceImpl) persist(sessionID, after string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to persist session",
			zap.String("session", sessionID),
			zap.String("after", after),
			zap.Error(err))
	}
}

// GetTable returns the current table view
func (s *gameServiceImpl) GetTable(ctx context.Context, sessionID string) (*TableView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return buildTable(session), nil
}

// LegalActions returns the numbered legal actions
func (s *gameServiceImpl) LegalActions(ctx context.Context, sessionID string) ([]IndexedAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return indexActions(session.Game.LegalActions()), nil
}

// GetMoveHistory returns a page of the cumulative move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	history := session.Game.MoveHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	moves := []HistoryMove{}
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, historyMove(history[i]))
		}
	} else {
		for i := start; i < end; i++ {
			moves = append(moves, historyMove(history[i]))
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

func historyMove(entry engine.HistoryEntry) HistoryMove {
	return HistoryMove{
		MoveNumber:  entry.MoveNumber,
		Action:      entry.Action,
		Description: entry.Action.String(),
		Timestamp:   entry.Timestamp,
	}
}

// ListConfigs returns the available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a configuration by id
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig stores a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func indexActions(actions []engine.Action) []IndexedAction {
	out := make([]IndexedAction, len(actions))
	for i, a := range actions {
		out[i] = IndexedAction{Index: i, Action: a, Description: a.String()}
	}
	return out
}

// buildTable projects a session's percept into a TableView.
func buildTable(session *Session) *TableView {
	game := session.Game
	percept := game.Percept()
	view := render.NewView(percept)

	ids := view.Cards()
	cardViews := make([]CardView, 0, len(ids))
	for _, id := range ids {
		data, ok := view.DataFor(id)
		if !ok {
			continue
		}
		cardViews = append(cardViews, CardView{ID: id, CardData: data})
	}

	return &TableView{
		SessionID:       session.ID,
		ConfigName:      session.ConfigID,
		Seed:            game.Seed(),
		Stacks:          percept.Stacks,
		Cards:           cardViews,
		Actions:         indexActions(game.LegalActions()),
		DeckSize:        len(percept.Stacks[engine.DeckStack]),
		FoundationCards: game.State().FoundationCards(),
		TotalMoves:      game.TotalMoves(),
		Won:             game.IsWon(),
		Message:         game.Message(),
	}
}
