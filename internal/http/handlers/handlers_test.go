package handlers_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appgames "github.com/courtwire/nba-sim-service/internal/app/games"
	appplayers "github.com/courtwire/nba-sim-service/internal/app/players"
	appteams "github.com/courtwire/nba-sim-service/internal/app/teams"
	"github.com/courtwire/nba-sim-service/internal/driver"
	httpserver "github.com/courtwire/nba-sim-service/internal/http"
	"github.com/courtwire/nba-sim-service/internal/http/handlers"
	"github.com/courtwire/nba-sim-service/internal/metrics"
	"github.com/courtwire/nba-sim-service/internal/repository/memory"
	"github.com/courtwire/nba-sim-service/internal/schedule"
	"github.com/courtwire/nba-sim-service/internal/sim"
	"github.com/courtwire/nba-sim-service/internal/snapshots"
	"github.com/courtwire/nba-sim-service/internal/standings"
	"github.com/courtwire/nba-sim-service/internal/testutil"
	"github.com/courtwire/nba-sim-service/internal/tracker"
)

type testServer struct {
	store   *memory.Store
	handler nethttp.Handler
}

func newTestServer(t *testing.T, statusFn func() driver.Status) *testServer {
	t.Helper()
	store := memory.NewStore()
	_, err := testutil.SeedLeague(context.Background(), store, 2)
	require.NoError(t, err)

	logger, _ := testutil.NewBufferLogger()
	recorder := metrics.NewRecorder()
	engine := sim.NewEngine(store, sim.NewSeededSampler(42), logger, recorder)
	updater := standings.NewUpdater(store, logger)
	tr := tracker.New(store, engine, snapshots.NewMemoryStore(), updater, logger, recorder)
	scheduler := schedule.NewScheduler(store, sim.NewSeededSampler(1), logger)

	h := handlers.NewHandler(
		appgames.NewService(store),
		appteams.NewService(store),
		appplayers.NewService(store),
		engine,
		tr,
		scheduler,
		logger,
		statusFn,
	)
	return &testServer{
		store:   store,
		handler: httpserver.NewRouter(h, logger, recorder, nil),
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *nethttp.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, nethttp.MethodGet, "/health", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestReadyWithFailingDriver(t *testing.T) {
	ts := newTestServer(t, func() driver.Status {
		return driver.Status{ConsecutiveFailures: 3, LastError: "tick failed"}
	})
	rec := ts.do(t, nethttp.MethodGet, "/ready", "")
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "tick failed", decode(t, rec)["message"])
}

func TestReadyWithoutDriver(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, nethttp.MethodGet, "/ready", "")
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestSimulateGame(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := testutil.SeedScheduledGame(context.Background(), ts.store, "g1")
	require.NoError(t, err)

	rec := ts.do(t, nethttp.MethodPost, "/simulation/game/g1", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Game simulation completed", body["message"])

	game, ok := body["game"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "completed", game["status"])
}

func TestSimulateGameUnknownID(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, nethttp.MethodPost, "/simulation/game/missing", "")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "Game is not found or not in scheduled status", decode(t, rec)["message"])
}

func TestSimulateGameAlreadyCompleted(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := testutil.SeedScheduledGame(context.Background(), ts.store, "g1")
	require.NoError(t, err)

	rec := ts.do(t, nethttp.MethodPost, "/simulation/game/g1", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = ts.do(t, nethttp.MethodPost, "/simulation/game/g1", "")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestStartSimulationRequiresGameIDs(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, nethttp.MethodPost, "/simulation/start", `{}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "game_ids is required", decode(t, rec)["message"])
}

func TestStartSimulationNoValidGames(t *testing.T) {
	ts := newTestServer(t, nil)
	rec := ts.do(t, nethttp.MethodPost, "/simulation/start", `{"game_ids":["missing"]}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "No valid games to simulate", decode(t, rec)["message"])
}

func TestSimulationLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := testutil.SeedScheduledGame(context.Background(), ts.store, "g1")
	require.NoError(t, err)

	rec := ts.do(t, nethttp.MethodPost, "/simulation/start", `{"game_ids":["g1"]}`)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Simulation started for 1 games", body["message"])

	rec = ts.do(t, nethttp.MethodPost, "/simulation/update", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, true, body["success"])

	rec = ts.do(t, nethttp.MethodGet, "/simulation/state", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	data, ok := decode(t, rec)["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["is_active"])

	rec = ts.do(t, nethttp.MethodPost, "/simulation/stop", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "Simulation stopped", decode(t, rec)["message"])

	rec = ts.do(t, nethttp.MethodPost, "/simulation/update", "")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "No active simulation in progress. Please start a simulation first.", decode(t, rec)["message"])
}

func TestGamesListAndFilter(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := testutil.SeedScheduledGame(context.Background(), ts.store, "g1")
	require.NoError(t, err)

	rec := ts.do(t, nethttp.MethodGet, "/games?status=scheduled", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	games, ok := decode(t, rec)["games"].([]any)
	require.True(t, ok)
	assert.Len(t, games, 1)

	rec = ts.do(t, nethttp.MethodGet, "/games?status=completed", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	games, _ = decode(t, rec)["games"].([]any)
	assert.Empty(t, games)
}

func TestGameByID(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := testutil.SeedScheduledGame(context.Background(), ts.store, "g1")
	require.NoError(t, err)

	rec := ts.do(t, nethttp.MethodGet, "/games/g1", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode(t, rec)
	game, ok := body["game"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "g1", game["id"])

	rec = ts.do(t, nethttp.MethodGet, "/games/missing", "")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestGameEventsPaging(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := testutil.SeedScheduledGame(context.Background(), ts.store, "g1")
	require.NoError(t, err)

	rec := ts.do(t, nethttp.MethodPost, "/simulation/game/g1", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = ts.do(t, nethttp.MethodGet, "/games/g1/events?limit=5", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	events, ok := decode(t, rec)["events"].([]any)
	require.True(t, ok)
	assert.Len(t, events, 5)

	first := events[0].(map[string]any)
	assert.Equal(t, "game_start", first["type"])

	// Page past the first batch.
	last := events[len(events)-1].(map[string]any)
	rec = ts.do(t, nethttp.MethodGet, "/games/g1/events?since_id=5&limit=5", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	next, _ := decode(t, rec)["events"].([]any)
	require.NotEmpty(t, next)
	assert.Greater(t, next[0].(map[string]any)["id"], last["id"])

	rec = ts.do(t, nethttp.MethodGet, "/games/missing/events", "")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestGameStatistics(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := testutil.SeedScheduledGame(context.Background(), ts.store, "g1")
	require.NoError(t, err)

	rec := ts.do(t, nethttp.MethodPost, "/simulation/game/g1", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = ts.do(t, nethttp.MethodGet, "/games/g1/statistics", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode(t, rec)
	teamStats, ok := body["team_stats"].([]any)
	require.True(t, ok)
	assert.Len(t, teamStats, 2)
	playerStats, ok := body["player_stats"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, playerStats)
}

func TestScheduleNextWeekEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, nethttp.MethodPost, "/games/schedule-next-week", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	games, ok := body["games"].([]any)
	require.True(t, ok)
	assert.Len(t, games, 1)
}

func TestTeamsEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, nethttp.MethodGet, "/teams", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	teams, ok := decode(t, rec)["teams"].([]any)
	require.True(t, ok)
	assert.Len(t, teams, 2)

	rec = ts.do(t, nethttp.MethodGet, "/teams/team-0", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "team-0", decode(t, rec)["id"])

	rec = ts.do(t, nethttp.MethodGet, "/teams/missing", "")
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = ts.do(t, nethttp.MethodGet, "/teams/team-0/players", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	roster, ok := decode(t, rec)["players"].([]any)
	require.True(t, ok)
	assert.Len(t, roster, 10)
}

func TestStandingsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := testutil.SeedScheduledGame(context.Background(), ts.store, "g1")
	require.NoError(t, err)

	rec := ts.do(t, nethttp.MethodPost, "/simulation/game/g1", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)

	// Full-game simulation alone does not touch standings; this endpoint
	// reads whatever rows exist.
	rec = ts.do(t, nethttp.MethodGet, "/standings", "")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	rows, ok := decode(t, rec)["standings"].([]any)
	require.True(t, ok)
	assert.Len(t, rows, 2)
}
