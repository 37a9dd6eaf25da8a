// Package sim implements the possession-based game simulation engine. It
// drives both whole-game runs and the per-minute steps used by the real-time
// tracker, persisting games, events, and box scores through the repository.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/domain/players"
	"github.com/courtwire/nba-sim-service/internal/domain/stats"
	"github.com/courtwire/nba-sim-service/internal/domain/teams"
	"github.com/courtwire/nba-sim-service/internal/logging"
	"github.com/courtwire/nba-sim-service/internal/metrics"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

// Engine simulates games possession by possession. It holds no per-game
// state; each run works on its own Session so concurrent games are safe.
type Engine struct {
	store   repository.Store
	sampler *Sampler
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// NewEngine wires an engine. A nil sampler gets a time-seeded one.
func NewEngine(store repository.Store, sampler *Sampler, logger *slog.Logger, recorder *metrics.Recorder) *Engine {
	if sampler == nil {
		sampler = NewSampler()
	}
	return &Engine{
		store:   store,
		sampler: sampler,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// SetNow overrides the clock used for started/ended timestamps in tests.
func (e *Engine) SetNow(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// GetScheduledGame loads a game and verifies it has not started yet.
func (e *Engine) GetScheduledGame(ctx context.Context, id string) (games.Game, error) {
	g, err := e.store.GetGame(ctx, id)
	if err != nil {
		return games.Game{}, err
	}
	if g.Status != games.StatusScheduled {
		return games.Game{}, fmt.Errorf("game %s: %w", id, ErrGameNotScheduled)
	}
	return g, nil
}

// InitializeGame transitions a scheduled game to in_progress, creates the
// zero-valued box score rows, picks both lineups, and emits the game_start
// event. Everything happens in one transaction so an aborted start leaves no
// partial rows behind.
func (e *Engine) InitializeGame(ctx context.Context, g games.Game, mode string) (*Session, error) {
	home, err := e.store.GetTeam(ctx, g.HomeTeamID)
	if err != nil {
		return nil, fmt.Errorf("load home team: %w", err)
	}
	away, err := e.store.GetTeam(ctx, g.AwayTeamID)
	if err != nil {
		return nil, fmt.Errorf("load away team: %w", err)
	}

	sess := &Session{
		Game:        g,
		Mode:        mode,
		Home:        home,
		Away:        away,
		PlayerStats: map[string]*stats.PlayerStatistic{},
	}

	err = e.store.WithinTx(ctx, func(st repository.Store) error {
		startedAt := e.now()
		sess.Game.Status = games.StatusInProgress
		sess.Game.StartedAt = &startedAt
		sess.Game.CurrentQuarter = 1
		sess.Game.QuarterTimeSeconds = games.QuarterLengthSeconds
		sess.Game.HomeScore = 0
		sess.Game.AwayScore = 0
		if err := st.SaveGame(ctx, sess.Game); err != nil {
			return fmt.Errorf("save game: %w", err)
		}

		sess.HomeStat = stats.GameStatistic{GameID: g.ID, TeamID: g.HomeTeamID, HomeTeam: true}
		sess.AwayStat = stats.GameStatistic{GameID: g.ID, TeamID: g.AwayTeamID}
		if err := st.CreateTeamStat(ctx, sess.HomeStat); err != nil {
			return fmt.Errorf("create home team stat: %w", err)
		}
		if err := st.CreateTeamStat(ctx, sess.AwayStat); err != nil {
			return fmt.Errorf("create away team stat: %w", err)
		}

		if err := e.pickActivePlayers(ctx, st, sess); err != nil {
			return err
		}

		desc := "Game started between " + home.Name + " and " + away.Name
		_, err := e.appendEvent(ctx, st, sess, games.EventGameStart, 0, 1, games.QuarterLengthSeconds, desc, "", "", "")
		return err
	})
	if err != nil {
		logging.Error(e.logger, "game initialization failed", err, logging.FieldGameID, g.ID)
		return nil, err
	}

	e.metrics.RecordGameStarted(mode)
	logging.Info(e.logger, "game started",
		logging.FieldGameID, g.ID,
		logging.FieldTeamID, home.ID)
	return sess, nil
}

// ResumeSession rebuilds a session for an in_progress game from persisted
// rows, re-picking lineups and reloading any existing player stat rows. Used
// when the tracker restarts mid-simulation.
func (e *Engine) ResumeSession(ctx context.Context, g games.Game, mode string) (*Session, error) {
	home, err := e.store.GetTeam(ctx, g.HomeTeamID)
	if err != nil {
		return nil, fmt.Errorf("load home team: %w", err)
	}
	away, err := e.store.GetTeam(ctx, g.AwayTeamID)
	if err != nil {
		return nil, fmt.Errorf("load away team: %w", err)
	}

	sess := &Session{
		Game:        g,
		Mode:        mode,
		Home:        home,
		Away:        away,
		HomeStat:    stats.GameStatistic{GameID: g.ID, TeamID: g.HomeTeamID, HomeTeam: true},
		AwayStat:    stats.GameStatistic{GameID: g.ID, TeamID: g.AwayTeamID},
		PlayerStats: map[string]*stats.PlayerStatistic{},
	}

	teamStats, err := e.store.ListTeamStats(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("load team stats: %w", err)
	}
	for _, ts := range teamStats {
		if ts.HomeTeam {
			sess.HomeStat = ts
		} else {
			sess.AwayStat = ts
		}
	}

	if err := e.pickActivePlayers(ctx, e.store, sess); err != nil {
		return nil, err
	}

	logging.Info(e.logger, "session resumed", logging.FieldGameID, g.ID)
	return sess, nil
}

// EndGame finalizes a game: completed status, the game_end event, a full
// player stat flush, and team shooting percentages, all in one transaction.
func (e *Engine) EndGame(ctx context.Context, sess *Session) error {
	err := e.store.WithinTx(ctx, func(st repository.Store) error {
		endedAt := e.now()
		sess.Game.Status = games.StatusCompleted
		sess.Game.EndedAt = &endedAt
		if err := st.SaveGame(ctx, sess.Game); err != nil {
			return fmt.Errorf("save game: %w", err)
		}

		winner := sess.Away
		if sess.Game.HomeScore > sess.Game.AwayScore {
			winner = sess.Home
		}
		desc := fmt.Sprintf("Game ended. %s wins %d-%d", winner.Name, sess.Game.HomeScore, sess.Game.AwayScore)
		if _, err := e.appendEvent(ctx, st, sess, games.EventGameEnd, 0, sess.Game.CurrentQuarter, 0, desc, "", "", ""); err != nil {
			return err
		}

		if err := e.flushPlayerStats(ctx, st, sess); err != nil {
			return err
		}

		sess.HomeStat.RecomputePercentages()
		sess.AwayStat.RecomputePercentages()
		if err := e.flushTeamStat(ctx, st, sess, true); err != nil {
			return err
		}
		return e.flushTeamStat(ctx, st, sess, false)
	})
	if err != nil {
		logging.Error(e.logger, "game finalization failed", err, logging.FieldGameID, sess.Game.ID)
		return err
	}

	e.metrics.RecordGameCompleted(sess.Mode)
	logging.Info(e.logger, "game completed",
		logging.FieldGameID, sess.Game.ID,
		logging.FieldQuarter, sess.Game.CurrentQuarter)
	return nil
}

// SimulateGame runs a game start to finish: four regulation quarters, then
// overtime periods until the tie breaks, then finalization.
func (e *Engine) SimulateGame(ctx context.Context, g games.Game) (*Session, error) {
	sess, err := e.InitializeGame(ctx, g, metrics.ModeFullGame)
	if err != nil {
		return nil, err
	}

	for quarter := 1; quarter <= games.QuarterCount; quarter++ {
		if err := e.simulateQuarter(ctx, sess, quarter, games.QuarterLengthSeconds); err != nil {
			return nil, err
		}
		if quarter < games.QuarterCount {
			sess.Game.CurrentQuarter = quarter + 1
			sess.Game.QuarterTimeSeconds = games.QuarterLengthSeconds
			if err := e.store.SaveGame(ctx, sess.Game); err != nil {
				return nil, fmt.Errorf("save game: %w", err)
			}
			desc := games.PeriodLabel(quarter+1) + " started"
			if _, err := e.appendEvent(ctx, e.store, sess, games.EventQuarterStart, 0, quarter+1, games.QuarterLengthSeconds, desc, "", "", ""); err != nil {
				return nil, err
			}
		}
	}

	for sess.Game.Tied() {
		overtime := sess.Game.CurrentQuarter - games.QuarterCount + 1
		sess.Game.CurrentQuarter = games.QuarterCount + overtime
		sess.Game.QuarterTimeSeconds = games.OvertimeLengthSeconds
		if err := e.store.SaveGame(ctx, sess.Game); err != nil {
			return nil, fmt.Errorf("save game: %w", err)
		}
		desc := games.PeriodLabel(sess.Game.CurrentQuarter) + " started"
		if _, err := e.appendEvent(ctx, e.store, sess, games.EventQuarterStart, 0, sess.Game.CurrentQuarter, games.OvertimeLengthSeconds, desc, "", "", ""); err != nil {
			return nil, err
		}
		if err := e.simulateQuarter(ctx, sess, sess.Game.CurrentQuarter, games.OvertimeLengthSeconds); err != nil {
			return nil, err
		}
	}

	if err := e.EndGame(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (e *Engine) simulateQuarter(ctx context.Context, sess *Session, quarter, lengthSeconds int) error {
	timeRemaining := lengthSeconds
	for timeRemaining > 0 {
		possessionTime := e.sampler.PossessionSeconds()
		if possessionTime > timeRemaining {
			possessionTime = timeRemaining
		}
		timeRemaining -= possessionTime
		sess.Game.QuarterTimeSeconds = timeRemaining
		if err := e.store.SaveGame(ctx, sess.Game); err != nil {
			return fmt.Errorf("save game: %w", err)
		}
		if _, err := e.simulatePossession(ctx, sess, quarter, timeRemaining); err != nil {
			return err
		}
	}

	desc := games.PeriodLabel(quarter) + " ended"
	if _, err := e.appendEvent(ctx, e.store, sess, games.EventQuarterEnd, 0, quarter, 0, desc, "", "", ""); err != nil {
		return err
	}
	logging.Info(e.logger, "quarter ended",
		logging.FieldGameID, sess.Game.ID,
		logging.FieldQuarter, quarter)
	return nil
}

// SimulateMinute advances an in_progress game by one game-minute: it derives
// the quarter and remaining time from the clock, emits quarter transition
// events when the minute crosses a boundary, and runs 3-5 possessions spread
// across the minute. Overtime is not modeled here; the tracker runs games to
// a fixed 48-minute cap.
func (e *Engine) SimulateMinute(ctx context.Context, sess *Session) (MinuteUpdate, error) {
	update := MinuteUpdate{Events: []games.Event{}, InitialScore: sess.score()}

	totalMinutes := TotalMinutesPlayed(sess.Game)
	currentQuarter := MinuteToQuarter(totalMinutes)
	remaining := QuarterTimeRemaining(totalMinutes)

	if sess.Game.CurrentQuarter != currentQuarter {
		previous := sess.Game.CurrentQuarter
		sess.Game.CurrentQuarter = currentQuarter
		sess.Game.QuarterTimeSeconds = remaining
		if err := e.store.SaveGame(ctx, sess.Game); err != nil {
			return update, fmt.Errorf("save game: %w", err)
		}

		endDesc := games.PeriodLabel(previous) + " ended"
		if _, err := e.appendEvent(ctx, e.store, sess, games.EventQuarterEnd, 0, previous, 0, endDesc, "", "", ""); err != nil {
			return update, err
		}

		startDesc := games.PeriodLabel(currentQuarter) + " started"
		// The quarter_start event carries the full quarter clock even though
		// the game row already holds the minute-derived remainder.
		ev, err := e.appendEvent(ctx, e.store, sess, games.EventQuarterStart, 0, currentQuarter, games.QuarterLengthSeconds, startDesc, "", "", "")
		if err != nil {
			return update, err
		}
		update.Events = append(update.Events, ev)
	} else {
		sess.Game.QuarterTimeSeconds = remaining
		if err := e.store.SaveGame(ctx, sess.Game); err != nil {
			return update, fmt.Errorf("save game: %w", err)
		}
	}

	possessions := e.sampler.PossessionsPerMinute()
	for i := 0; i < possessions; i++ {
		secondsRemaining := remaining - 60*i/possessions
		if secondsRemaining < 0 {
			secondsRemaining = 0
		}
		events, err := e.simulatePossession(ctx, sess, currentQuarter, secondsRemaining)
		if err != nil {
			return update, err
		}
		update.Events = append(update.Events, events...)
	}

	update.FinalScore = sess.score()
	e.metrics.RecordSimMinute()
	return update, nil
}

func (e *Engine) pickActivePlayers(ctx context.Context, st repository.Store, sess *Session) error {
	homeLineup, err := e.pickLineup(ctx, st, sess, sess.Home)
	if err != nil {
		return err
	}
	awayLineup, err := e.pickLineup(ctx, st, sess, sess.Away)
	if err != nil {
		return err
	}
	sess.HomeActive = homeLineup
	sess.AwayActive = awayLineup

	logging.Info(e.logger, "lineups picked",
		logging.FieldGameID, sess.Game.ID,
		logging.FieldCount, len(homeLineup)+len(awayLineup))
	return nil
}

func (e *Engine) pickLineup(ctx context.Context, st repository.Store, sess *Session, team teams.Team) ([]players.Player, error) {
	roster, err := st.ListRoster(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("team %s: %w", team.Name, ErrMissingActiveRoster)
	}

	e.sampler.Shuffle(len(roster), func(i, j int) {
		roster[i], roster[j] = roster[j], roster[i]
	})
	n := activePlayersPerTeam
	if len(roster) < n {
		n = len(roster)
	}
	lineup := roster[:n]

	for _, p := range lineup {
		existing, err := st.GetPlayerStat(ctx, sess.Game.ID, p.ID)
		switch {
		case err == nil:
			ps := existing
			sess.PlayerStats[p.ID] = &ps
		case errors.Is(err, repository.ErrNotFound):
			ps := stats.PlayerStatistic{GameID: sess.Game.ID, PlayerID: p.ID, TeamID: p.TeamID}
			if err := st.UpsertPlayerStat(ctx, ps); err != nil {
				return nil, fmt.Errorf("create player stat: %w", err)
			}
			sess.PlayerStats[p.ID] = &ps
		default:
			return nil, fmt.Errorf("get player stat: %w", err)
		}
	}
	return lineup, nil
}

func (e *Engine) appendEvent(ctx context.Context, st repository.Store, sess *Session, evType games.EventType, scoreValue, quarter, quarterTime int, description, teamID, playerID, secondaryID string) (games.Event, error) {
	ev := games.Event{
		GameID:            sess.Game.ID,
		Type:              evType,
		ScoreValue:        scoreValue,
		Quarter:           quarter,
		QuarterTime:       quarterTime,
		Description:       description,
		HomeScore:         sess.Game.HomeScore,
		AwayScore:         sess.Game.AwayScore,
		TeamID:            teamID,
		PlayerID:          playerID,
		SecondaryPlayerID: secondaryID,
	}
	saved, err := st.AppendEvent(ctx, ev)
	if err != nil {
		return games.Event{}, fmt.Errorf("append %s event: %w", evType, err)
	}
	return saved, nil
}

func (e *Engine) flushTeamStat(ctx context.Context, st repository.Store, sess *Session, home bool) error {
	stat := sess.teamStat(home)
	stat.AttackCount = stat.FieldGoalsAttempted + stat.FreeThrowsAttempted
	if err := st.SaveTeamStat(ctx, *stat); err != nil {
		return fmt.Errorf("save team stat: %w", err)
	}
	e.metrics.RecordStatFlush()
	return nil
}

func (e *Engine) flushPlayerStats(ctx context.Context, st repository.Store, sess *Session) error {
	for _, ps := range sess.PlayerStats {
		if err := st.UpsertPlayerStat(ctx, *ps); err != nil {
			return fmt.Errorf("upsert player stat: %w", err)
		}
	}
	e.metrics.RecordStatFlush()
	return nil
}
