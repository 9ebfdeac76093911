package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

var (
	// sessionsCreated counts dealt tables by config
	sessionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solitaire_sessions_created_total",
		Help: "Total tables dealt by config",
	}, []string{"config"})

	// actionsTotal counts played actions by kind and result
	actionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solitaire_actions_total",
		Help: "Total actions by kind (move, tap, gesture, undo, reset) and result (applied, rejected)",
	}, []string{"kind", "result"})

	// gamesWon counts tables that reached the goal
	gamesWon = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solitaire_games_won_total",
		Help: "Total tables won",
	})

	// movesToWin tracks how many actions a won table took
	movesToWin = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "solitaire_moves_to_win",
		Help:    "Actions applied before a table was won",
		Buckets: prometheus.ExponentialBuckets(8, 2, 8), // 8 to ~1000
	})
)

func resultLabel(ok bool) string {
	if ok {
		return "applied"
	}
	return "rejected"
}

func recordAction(kind string, ok bool) {
	actionsTotal.WithLabelValues(kind, resultLabel(ok)).Inc()
}

func recordWin(game *engine.Game) {
	gamesWon.Inc()
	movesToWin.Observe(float64(game.TotalMoves()))
}
