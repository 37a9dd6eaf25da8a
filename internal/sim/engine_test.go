package sim

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/domain/stats"
	"github.com/courtwire/nba-sim-service/internal/domain/teams"
	"github.com/courtwire/nba-sim-service/internal/metrics"
	"github.com/courtwire/nba-sim-service/internal/repository"
	"github.com/courtwire/nba-sim-service/internal/repository/memory"
	"github.com/courtwire/nba-sim-service/internal/testutil"
)

func newTestEngine(t *testing.T, seed int64) (*memory.Store, *Engine) {
	t.Helper()
	store := memory.NewStore()
	_, err := testutil.SeedLeague(context.Background(), store, 2)
	require.NoError(t, err)

	logger, _ := testutil.NewBufferLogger()
	e := NewEngine(store, NewSeededSampler(seed), logger, metrics.NewRecorder())
	e.SetNow(testutil.NowAt(testutil.MustParseRFC3339("2026-01-15T19:00:00Z")))
	return store, e
}

func TestGetScheduledGameNotFound(t *testing.T) {
	_, e := newTestEngine(t, 1)
	_, err := e.GetScheduledGame(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetScheduledGameWrongStatus(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 1)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	_, err = e.InitializeGame(ctx, g, metrics.ModeFullGame)
	require.NoError(t, err)

	_, err = e.GetScheduledGame(ctx, "g1")
	assert.ErrorIs(t, err, ErrGameNotScheduled)
}

func TestInitializeGame(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 1)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	sess, err := e.InitializeGame(ctx, g, metrics.ModeRealTime)
	require.NoError(t, err)

	assert.Equal(t, games.StatusInProgress, sess.Game.Status)
	assert.Equal(t, 1, sess.Game.CurrentQuarter)
	assert.Equal(t, games.QuarterLengthSeconds, sess.Game.QuarterTimeSeconds)
	assert.NotNil(t, sess.Game.StartedAt)
	assert.Len(t, sess.HomeActive, 5)
	assert.Len(t, sess.AwayActive, 5)
	assert.Len(t, sess.PlayerStats, 10)

	stored, err := store.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, games.StatusInProgress, stored.Status)

	teamStats, err := store.ListTeamStats(ctx, "g1")
	require.NoError(t, err)
	assert.Len(t, teamStats, 2)

	events, err := store.ListEvents(ctx, "g1", 0, 10)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, games.EventGameStart, events[0].Type)
	assert.Equal(t, "Game started between Team 0 and Team 1", events[0].Description)
}

func TestInitializeGameEmptyRoster(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 1)
	store.AddTeam(teams.Team{ID: "empty", Name: "Empty"}, nil)

	g := testutil.ScheduledGame("g1", "team-0", "empty")
	require.NoError(t, store.CreateGame(ctx, g))

	_, err := e.InitializeGame(ctx, g, metrics.ModeFullGame)
	assert.ErrorIs(t, err, ErrMissingActiveRoster)
}

func TestSimulateGameCompletes(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 42)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	sess, err := e.SimulateGame(ctx, g)
	require.NoError(t, err)

	final := sess.Game
	assert.Equal(t, games.StatusCompleted, final.Status)
	assert.NotNil(t, final.EndedAt)
	assert.False(t, final.Tied())
	assert.GreaterOrEqual(t, final.CurrentQuarter, games.QuarterCount)
	assert.Positive(t, final.HomeScore)
	assert.Positive(t, final.AwayScore)

	stored, err := store.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, final.HomeScore, stored.HomeScore)
	assert.Equal(t, final.AwayScore, stored.AwayScore)
}

func TestSimulateGameEventLog(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 42)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	_, err = e.SimulateGame(ctx, g)
	require.NoError(t, err)

	events, err := store.ListEvents(ctx, "g1", 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, events)

	assert.Equal(t, games.EventGameStart, events[0].Type)
	assert.Equal(t, games.EventGameEnd, events[len(events)-1].Type)

	var quarterEnds, quarterStarts int
	var lastSeq int64
	for _, ev := range events {
		assert.Greater(t, ev.Sequence, lastSeq, "sequence numbers must be monotonic")
		lastSeq = ev.Sequence
		switch ev.Type {
		case games.EventQuarterEnd:
			quarterEnds++
		case games.EventQuarterStart:
			quarterStarts++
		}
	}
	assert.GreaterOrEqual(t, quarterEnds, games.QuarterCount)
	// The game_start event doubles as the first quarter's start.
	assert.GreaterOrEqual(t, quarterStarts, games.QuarterCount-1)
}

func TestSimulateGameBoxScoreConsistency(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 99)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	sess, err := e.SimulateGame(ctx, g)
	require.NoError(t, err)

	teamStats, err := store.ListTeamStats(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, teamStats, 2)

	for _, ts := range teamStats {
		want := sess.Game.AwayScore
		if ts.HomeTeam {
			want = sess.Game.HomeScore
		}
		assert.Equal(t, want, ts.Points, "team %s points", ts.TeamID)

		subtotal := ts.Q1Score + ts.Q2Score + ts.Q3Score + ts.Q4Score + ts.OTScore
		assert.Equal(t, ts.Points, subtotal, "quarter subtotals must sum to points")

		assert.Equal(t, ts.FieldGoalsAttempted+ts.FreeThrowsAttempted, ts.AttackCount)
		assert.LessOrEqual(t, ts.FieldGoalsMade, ts.FieldGoalsAttempted)
		assert.LessOrEqual(t, ts.ThreePointersAttempted, ts.FieldGoalsAttempted)
		require.NotNil(t, ts.FieldGoalPercentage)
		assert.Equal(t, *stats.Percentage(ts.FieldGoalsMade, ts.FieldGoalsAttempted), *ts.FieldGoalPercentage)
	}

	playerStats, err := store.ListPlayerStats(ctx, "g1")
	require.NoError(t, err)
	require.NotEmpty(t, playerStats)

	points := map[string]int{}
	for _, ps := range playerStats {
		assert.True(t, ps.PointsConsistent(), "player %s box score", ps.PlayerID)
		points[ps.TeamID] += ps.Points
	}
	assert.Equal(t, sess.Game.HomeScore, points["team-0"])
	assert.Equal(t, sess.Game.AwayScore, points["team-1"])
}

func TestSimulateMinuteAdvancesClock(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 7)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	sess, err := e.InitializeGame(ctx, g, metrics.ModeRealTime)
	require.NoError(t, err)

	update, err := e.SimulateMinute(ctx, sess)
	require.NoError(t, err)

	assert.Equal(t, Score{}, update.InitialScore)
	assert.Equal(t, Score{Home: sess.Game.HomeScore, Away: sess.Game.AwayScore}, update.FinalScore)
	assert.NotEmpty(t, update.Events)
	assert.Equal(t, 1, sess.Game.CurrentQuarter)
	assert.Equal(t, 660, sess.Game.QuarterTimeSeconds)
}

func TestSimulateMinuteQuarterTransition(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 7)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	sess, err := e.InitializeGame(ctx, g, metrics.ModeRealTime)
	require.NoError(t, err)

	// Park the clock at the end of the first quarter and step once.
	sess.Game.QuarterTimeSeconds = 0
	require.NoError(t, store.SaveGame(ctx, sess.Game))

	update, err := e.SimulateMinute(ctx, sess)
	require.NoError(t, err)

	assert.Equal(t, 2, sess.Game.CurrentQuarter)
	require.NotEmpty(t, update.Events)
	assert.Equal(t, games.EventQuarterStart, update.Events[0].Type)
	assert.Equal(t, "Quarter 2 started", update.Events[0].Description)
}

func TestResumeSessionRestoresTeamStats(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 7)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	sess, err := e.InitializeGame(ctx, g, metrics.ModeRealTime)
	require.NoError(t, err)

	sess.HomeStat.Points = 12
	require.NoError(t, store.SaveTeamStat(ctx, sess.HomeStat))

	stored, err := store.GetGame(ctx, "g1")
	require.NoError(t, err)

	resumed, err := e.ResumeSession(ctx, stored, metrics.ModeRealTime)
	require.NoError(t, err)

	assert.Equal(t, 12, resumed.HomeStat.Points)
	assert.True(t, resumed.HomeStat.HomeTeam)
	assert.Len(t, resumed.HomeActive, 5)
	assert.Len(t, resumed.AwayActive, 5)
}

// zeroSource pins every random draw to zero: Chance always hits, Index
// always picks the first element.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func TestTurnoverPossession(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 7)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	sess, err := e.InitializeGame(ctx, g, metrics.ModeFullGame)
	require.NoError(t, err)
	shooter := sess.HomeActive[0]

	// With all-zero draws the home team keeps the ball, the first active
	// player handles it, and the turnover check fires before foul or shot.
	e.sampler = NewSamplerFromSource(rand.New(zeroSource{}))

	events, err := e.simulatePossession(ctx, sess, 1, 600)
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, games.EventTurnover, events[0].Type)
	assert.Equal(t, shooter.ID, events[0].PlayerID)
	assert.Equal(t, "team-0", events[0].TeamID)
	assert.Equal(t, 0, events[0].ScoreValue)
	assert.Contains(t, events[0].Description, "committed a turnover")

	assert.Equal(t, Score{}, sess.score())
	assert.Equal(t, 1, sess.HomeStat.Turnovers)
	assert.Zero(t, sess.HomeStat.FieldGoalsAttempted)
	assert.Zero(t, sess.HomeStat.ThreePointersAttempted)
	assert.Zero(t, sess.HomeStat.FreeThrowsAttempted)
	assert.Zero(t, sess.HomeStat.Fouls)
	assert.Zero(t, sess.AwayStat.Turnovers)

	ps := sess.PlayerStats[shooter.ID]
	assert.Zero(t, ps.Points)
	assert.Zero(t, ps.FieldGoalsAttempted)
	assert.Zero(t, ps.FreeThrowsAttempted)

	rows, err := store.ListTeamStats(ctx, "g1")
	require.NoError(t, err)
	for _, row := range rows {
		if row.TeamID == "team-0" {
			assert.Equal(t, 1, row.Turnovers)
			assert.Zero(t, row.AttackCount)
		} else {
			assert.Zero(t, row.Turnovers)
		}
	}
}

func TestSimulateMinuteSkipsPossessionsWithoutRoster(t *testing.T) {
	ctx := context.Background()
	store, e := newTestEngine(t, 3)
	g, err := testutil.SeedScheduledGame(ctx, store, "g1")
	require.NoError(t, err)

	sess, err := e.InitializeGame(ctx, g, metrics.ModeRealTime)
	require.NoError(t, err)

	// Both rosters and lineups vanish mid-game. The minute still completes,
	// the possessions are skipped, and the clock keeps moving.
	store.AddTeam(teams.Team{ID: "team-0", Name: "Team 0"}, nil)
	store.AddTeam(teams.Team{ID: "team-1", Name: "Team 1"}, nil)
	sess.HomeActive = nil
	sess.AwayActive = nil

	update, err := e.SimulateMinute(ctx, sess)
	require.NoError(t, err)

	assert.Empty(t, update.Events)
	assert.Equal(t, update.InitialScore, update.FinalScore)
	assert.Equal(t, Score{}, sess.score())
	assert.Equal(t, 660, sess.Game.QuarterTimeSeconds)
	assert.Equal(t, games.StatusInProgress, sess.Game.Status)
}
