// Package http assembles the service's router.
package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courtwire/nba-sim-service/internal/http/handlers"
	"github.com/courtwire/nba-sim-service/internal/http/middleware"
	"github.com/courtwire/nba-sim-service/internal/metrics"
)

// NewRouter registers all routes. metricsHandler serves the Prometheus
// scrape endpoint and may be nil when metrics are disabled.
func NewRouter(h *handlers.Handler, logger *slog.Logger, recorder *metrics.Recorder, metricsHandler nethttp.Handler) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger, recorder))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	if metricsHandler != nil {
		r.Method(nethttp.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/simulation", func(r chi.Router) {
		r.Post("/start", h.StartSimulation)
		r.Post("/update", h.ProcessUpdate)
		r.Get("/state", h.SimulationState)
		r.Post("/stop", h.StopSimulation)
		r.Post("/game/{gameID}", h.SimulateGame)
	})

	r.Route("/games", func(r chi.Router) {
		r.Get("/", h.Games)
		r.Post("/schedule-next-week", h.ScheduleNextWeek)
		r.Get("/{gameID}", h.GameByID)
		r.Get("/{gameID}/events", h.GameEvents)
		r.Get("/{gameID}/statistics", h.GameStatistics)
	})

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", h.Teams)
		r.Get("/{teamID}", h.TeamByID)
		r.Get("/{teamID}/players", h.TeamRoster)
	})

	r.Get("/standings", h.Standings)

	return r
}
