// Package handlers wires HTTP routes to the simulation engine, the
// real-time tracker, the scheduler, and the read-side services.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appgames "github.com/courtwire/nba-sim-service/internal/app/games"
	appplayers "github.com/courtwire/nba-sim-service/internal/app/players"
	appteams "github.com/courtwire/nba-sim-service/internal/app/teams"
	domaingames "github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/driver"
	"github.com/courtwire/nba-sim-service/internal/logging"
	"github.com/courtwire/nba-sim-service/internal/repository"
	"github.com/courtwire/nba-sim-service/internal/schedule"
	"github.com/courtwire/nba-sim-service/internal/sim"
	"github.com/courtwire/nba-sim-service/internal/tracker"
)

// Handler carries the dependencies shared by all routes.
type Handler struct {
	games     *appgames.Service
	teams     *appteams.Service
	players   *appplayers.Service
	engine    *sim.Engine
	tracker   *tracker.Tracker
	scheduler *schedule.Scheduler
	logger    *slog.Logger
	statusFn  func() driver.Status
}

// NewHandler constructs a Handler.
func NewHandler(
	games *appgames.Service,
	teams *appteams.Service,
	players *appplayers.Service,
	engine *sim.Engine,
	t *tracker.Tracker,
	scheduler *schedule.Scheduler,
	logger *slog.Logger,
	statusFn func() driver.Status,
) *Handler {
	return &Handler{
		games:     games,
		teams:     teams,
		players:   players,
		engine:    engine,
		tracker:   t,
		scheduler: scheduler,
		logger:    logger,
		statusFn:  statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil || h.statusFn().IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := h.statusFn().LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// StartSimulation kicks off real-time progression for the requested games.
func (h *Handler) StartSimulation(w nethttp.ResponseWriter, r *nethttp.Request) {
	var body struct {
		GameIDs []string `json:"game_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.GameIDs) == 0 {
		writeError(w, r, nethttp.StatusBadRequest, "game_ids is required", h.logger)
		return
	}

	state, err := h.tracker.StartSimulation(r.Context(), body.GameIDs)
	if err != nil {
		if errors.Is(err, tracker.ErrNoValidGames) {
			writeError(w, r, nethttp.StatusBadRequest, "No valid games to simulate", h.logger)
			return
		}
		h.fail(w, r, "failed to start simulation", err)
		return
	}

	writeJSON(w, nethttp.StatusOK, map[string]any{
		"success":          true,
		"message":          fmt.Sprintf("Simulation started for %d games", len(state.ActiveGames)),
		"game_ids":         state.ActiveGames,
		"simulation_state": state,
	}, h.logger)
}

// ProcessUpdate advances every active game by one simulated minute. Exposed
// for external schedulers and manual driving; the in-process driver hits the
// tracker directly.
func (h *Handler) ProcessUpdate(w nethttp.ResponseWriter, r *nethttp.Request) {
	state, err := h.tracker.State(r.Context())
	if err != nil {
		h.fail(w, r, "failed to load simulation state", err)
		return
	}
	if len(state.ActiveGames) == 0 {
		writeError(w, r, nethttp.StatusBadRequest, "No active simulation in progress. Please start a simulation first.", h.logger)
		return
	}

	result, err := h.tracker.ProcessUpdate(r.Context())
	if err != nil {
		h.fail(w, r, "failed to process update", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"success": true, "data": result}, h.logger)
}

// SimulationState returns the current progression snapshot.
func (h *Handler) SimulationState(w nethttp.ResponseWriter, r *nethttp.Request) {
	state, err := h.tracker.State(r.Context())
	if err != nil {
		h.fail(w, r, "failed to load simulation state", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"success": true, "data": state}, h.logger)
}

// StopSimulation force-finalizes any in-progress games and deactivates the
// simulation.
func (h *Handler) StopSimulation(w nethttp.ResponseWriter, r *nethttp.Request) {
	if _, err := h.tracker.StopSimulation(r.Context()); err != nil {
		h.fail(w, r, "failed to stop simulation", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"success": true, "message": "Simulation stopped"}, h.logger)
}

// SimulateGame runs a scheduled game start to finish in one call.
func (h *Handler) SimulateGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	gameID := chi.URLParam(r, "gameID")

	g, err := h.engine.GetScheduledGame(r.Context(), gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, sim.ErrGameNotScheduled) {
			writeError(w, r, nethttp.StatusBadRequest, "Game is not found or not in scheduled status", h.logger)
			return
		}
		h.fail(w, r, "failed to load game", err)
		return
	}

	sess, err := h.engine.SimulateGame(r.Context(), g)
	if err != nil {
		h.fail(w, r, "failed to simulate game", err)
		return
	}

	writeJSON(w, nethttp.StatusOK, map[string]any{
		"success": true,
		"message": "Game simulation completed",
		"game":    sess.Game,
	}, h.logger)
}

// Games lists games, optionally filtered by status and season.
func (h *Handler) Games(w nethttp.ResponseWriter, r *nethttp.Request) {
	filter := repository.GameFilter{
		Status:   domaingames.GameStatus(r.URL.Query().Get("status")),
		SeasonID: r.URL.Query().Get("season_id"),
	}
	list, err := h.games.Games(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "failed to list games", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"games": list}, h.logger)
}

// GameByID returns one game with its teams.
func (h *Handler) GameByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	detail, err := h.games.GameByID(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
			return
		}
		h.fail(w, r, "failed to load game", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, detail, h.logger)
}

// GameEvents pages a game's play-by-play log with since_id semantics.
func (h *Handler) GameEvents(w nethttp.ResponseWriter, r *nethttp.Request) {
	sinceID := queryInt64(r, "since_id")
	limit := int(queryInt64(r, "limit"))

	events, err := h.games.Events(r.Context(), chi.URLParam(r, "gameID"), sinceID, limit)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
			return
		}
		h.fail(w, r, "failed to list events", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"events": events}, h.logger)
}

// GameStatistics returns both box scores for a game.
func (h *Handler) GameStatistics(w nethttp.ResponseWriter, r *nethttp.Request) {
	statistics, err := h.games.Statistics(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
			return
		}
		h.fail(w, r, "failed to load statistics", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, statistics, h.logger)
}

// ScheduleNextWeek creates the next round of games for the active season.
func (h *Handler) ScheduleNextWeek(w nethttp.ResponseWriter, r *nethttp.Request) {
	var body struct {
		PlayedMatchups []schedule.Matchup `json:"played_matchups"`
	}
	if r.Body != nil {
		// An empty body is fine; the matchup history is optional.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	created, err := h.scheduler.ScheduleNextWeek(r.Context(), body.PlayedMatchups)
	if err != nil {
		if errors.Is(err, schedule.ErrNoActiveSeason) || errors.Is(err, schedule.ErrInsufficientTeams) {
			writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
			return
		}
		h.fail(w, r, "failed to schedule games", err)
		return
	}

	writeJSON(w, nethttp.StatusOK, map[string]any{
		"success": true,
		"games":   created,
	}, h.logger)
}

// Teams lists every team.
func (h *Handler) Teams(w nethttp.ResponseWriter, r *nethttp.Request) {
	list, err := h.teams.Teams(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list teams", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"teams": list}, h.logger)
}

// TeamByID returns one team.
func (h *Handler) TeamByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	team, err := h.teams.TeamByID(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, r, nethttp.StatusNotFound, "team not found", h.logger)
			return
		}
		h.fail(w, r, "failed to load team", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, team, h.logger)
}

// TeamRoster returns a team's players.
func (h *Handler) TeamRoster(w nethttp.ResponseWriter, r *nethttp.Request) {
	roster, err := h.players.Roster(r.Context(), chi.URLParam(r, "teamID"))
	if err != nil {
		h.fail(w, r, "failed to list roster", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"players": roster}, h.logger)
}

// Standings returns the active season's table.
func (h *Handler) Standings(w nethttp.ResponseWriter, r *nethttp.Request) {
	rows, err := h.teams.Standings(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, r, nethttp.StatusNotFound, "no active season", h.logger)
			return
		}
		h.fail(w, r, "failed to load standings", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"standings": rows}, h.logger)
}

func (h *Handler) fail(w nethttp.ResponseWriter, r *nethttp.Request, msg string, err error) {
	logger := loggerFromContext(r, h.logger)
	logging.Error(logger, msg, err)
	writeError(w, r, nethttp.StatusInternalServerError, msg, h.logger)
}

func queryInt64(r *nethttp.Request, key string) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
