package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/domain/players"
	"github.com/courtwire/nba-sim-service/internal/logging"
)

// Player stat rows are write-behind: accumulated in the session and flushed
// every N possessions plus once at game end. Team rows flush every possession.
const playerFlushInterval = 10

// simulatePossession resolves one possession: turnover, foul (shooting or
// not), or a shot attempt. It mutates the session's score and stat
// accumulators, appends the play-by-play events, and returns them.
func (e *Engine) simulatePossession(ctx context.Context, sess *Session, quarter, timeRemaining int) ([]games.Event, error) {
	homePossession := e.sampler.HomePossession()

	lineup := sess.active(homePossession)
	if len(lineup) == 0 {
		logging.Warn(e.logger, "no active lineup, re-picking players",
			logging.FieldGameID, sess.Game.ID,
			logging.FieldTeamID, sess.team(homePossession).ID)
		if err := e.pickActivePlayers(ctx, e.store, sess); err != nil && !errors.Is(err, ErrMissingActiveRoster) {
			return nil, err
		}
		lineup = sess.active(homePossession)
		if len(lineup) == 0 {
			logging.Warn(e.logger, "skipping possession, no active roster",
				logging.FieldGameID, sess.Game.ID,
				logging.FieldTeamID, sess.team(homePossession).ID)
			return nil, nil
		}
	}
	shooter := lineup[e.sampler.Index(len(lineup))]

	sess.possessions++
	e.metrics.RecordPossession(sess.Mode)

	var (
		events []games.Event
		err    error
	)
	switch {
	case e.sampler.Turnover():
		events, err = e.simulateTurnover(ctx, sess, homePossession, shooter, quarter, timeRemaining)
	case e.sampler.Foul():
		defenders := sess.active(!homePossession)
		if len(defenders) == 0 {
			logging.Warn(e.logger, "skipping possession, no defenders available",
				logging.FieldGameID, sess.Game.ID,
				logging.FieldTeamID, sess.team(!homePossession).ID)
			return nil, nil
		}
		defender := defenders[e.sampler.Index(len(defenders))]
		if e.sampler.ShootingFoul() {
			events, err = e.simulateShootingFoul(ctx, sess, homePossession, shooter, defender, quarter, timeRemaining)
		} else {
			events, err = e.simulateNonShootingFoul(ctx, sess, homePossession, shooter, defender, quarter, timeRemaining)
		}
	default:
		events, err = e.simulateShot(ctx, sess, homePossession, shooter, quarter, timeRemaining)
	}
	if err != nil {
		return nil, err
	}

	if sess.possessions%playerFlushInterval == 0 {
		if err := e.flushPlayerStats(ctx, e.store, sess); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (e *Engine) simulateTurnover(ctx context.Context, sess *Session, home bool, shooter players.Player, quarter, timeRemaining int) ([]games.Event, error) {
	team := sess.team(home)
	desc := shooter.FullName() + " committed a turnover"

	ev, err := e.appendEvent(ctx, e.store, sess, games.EventTurnover, 0, quarter, timeRemaining, desc, team.ID, shooter.ID, "")
	if err != nil {
		return nil, err
	}

	sess.teamStat(home).Turnovers++
	if err := e.flushTeamStat(ctx, e.store, sess, home); err != nil {
		return nil, err
	}
	return []games.Event{ev}, nil
}

func (e *Engine) simulateShootingFoul(ctx context.Context, sess *Session, home bool, shooter, defender players.Player, quarter, timeRemaining int) ([]games.Event, error) {
	defTeam := sess.team(!home)
	offTeam := sess.team(home)

	desc := defender.FullName() + " committed a shooting foul on " + shooter.FullName()
	foulEv, err := e.appendEvent(ctx, e.store, sess, games.EventFoul, 0, quarter, timeRemaining, desc, defTeam.ID, defender.ID, shooter.ID)
	if err != nil {
		return nil, err
	}
	events := []games.Event{foulEv}

	// 3 free throws when the fouled attempt was from three.
	attempts := 2
	if e.sampler.ThreePointAttempt() {
		attempts = 3
	}

	shooterStat := sess.PlayerStats[shooter.ID]
	made := 0
	for i := 1; i <= attempts; i++ {
		shooterStat.FreeThrowsAttempted++
		if e.sampler.FreeThrowMade() {
			made++
			sess.addPoints(home, quarter, 1)
			shooterStat.Points++
			shooterStat.FreeThrowsMade++

			ftDesc := fmt.Sprintf("%s made free throw %d of %d", shooter.FullName(), i, attempts)
			ev, err := e.appendEvent(ctx, e.store, sess, games.EventFreeThrow, 1, quarter, timeRemaining, ftDesc, offTeam.ID, shooter.ID, "")
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
			continue
		}

		ftDesc := fmt.Sprintf("%s missed free throw %d of %d", shooter.FullName(), i, attempts)
		ev, err := e.appendEvent(ctx, e.store, sess, games.EventFreeThrow, 0, quarter, timeRemaining, ftDesc, offTeam.ID, shooter.ID, "")
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	if err := e.store.SaveGame(ctx, sess.Game); err != nil {
		return nil, err
	}

	offStat := sess.teamStat(home)
	offStat.FreeThrowsAttempted += attempts
	offStat.FreeThrowsMade += made
	if err := e.flushTeamStat(ctx, e.store, sess, home); err != nil {
		return nil, err
	}

	sess.teamStat(!home).Fouls++
	if err := e.flushTeamStat(ctx, e.store, sess, !home); err != nil {
		return nil, err
	}
	return events, nil
}

func (e *Engine) simulateNonShootingFoul(ctx context.Context, sess *Session, home bool, shooter, defender players.Player, quarter, timeRemaining int) ([]games.Event, error) {
	defTeam := sess.team(!home)

	desc := defender.FullName() + " committed a foul on " + shooter.FullName()
	ev, err := e.appendEvent(ctx, e.store, sess, games.EventFoul, 0, quarter, timeRemaining, desc, defTeam.ID, defender.ID, shooter.ID)
	if err != nil {
		return nil, err
	}

	sess.teamStat(!home).Fouls++
	if err := e.flushTeamStat(ctx, e.store, sess, !home); err != nil {
		return nil, err
	}
	return []games.Event{ev}, nil
}

func (e *Engine) simulateShot(ctx context.Context, sess *Session, home bool, shooter players.Player, quarter, timeRemaining int) ([]games.Event, error) {
	team := sess.team(home)
	three := e.sampler.ThreePointAttempt()

	var made bool
	if three {
		made = e.sampler.ThreePointMade()
	} else {
		made = e.sampler.FieldGoalMade()
	}

	// Field goal counters include threes so the points identity
	// 2*(FGM-3PM) + 3*3PM + FTM holds for every row.
	shooterStat := sess.PlayerStats[shooter.ID]
	teamStat := sess.teamStat(home)
	shooterStat.FieldGoalsAttempted++
	teamStat.FieldGoalsAttempted++
	if three {
		shooterStat.ThreePointersAttempted++
		teamStat.ThreePointersAttempted++
	}
	if made {
		shooterStat.FieldGoalsMade++
		teamStat.FieldGoalsMade++
		if three {
			shooterStat.ThreePointersMade++
			teamStat.ThreePointersMade++
		}
	}

	var assister *players.Player
	if made && e.sampler.Assisted() {
		teammates := sess.teammates(home, shooter.ID)
		if len(teammates) > 0 {
			p := teammates[e.sampler.Index(len(teammates))]
			assister = &p
			sess.PlayerStats[p.ID].Assists++
			teamStat.Assists++
		} else {
			logging.Warn(e.logger, "no teammate available for assist",
				logging.FieldGameID, sess.Game.ID,
				logging.FieldTeamID, team.ID)
		}
	}

	eventType := games.EventFieldGoal
	shotName := "field goal"
	scoreValue := 2
	if three {
		eventType = games.EventThreePointer
		shotName = "three-pointer"
		scoreValue = 3
	}

	var ev games.Event
	var err error
	if made {
		sess.addPoints(home, quarter, scoreValue)
		shooterStat.Points += scoreValue
		if err := e.store.SaveGame(ctx, sess.Game); err != nil {
			return nil, err
		}

		desc := shooter.FullName() + " made a " + shotName
		secondaryID := ""
		if assister != nil {
			desc += " (assisted by " + assister.FullName() + ")"
			secondaryID = assister.ID
		}
		ev, err = e.appendEvent(ctx, e.store, sess, eventType, scoreValue, quarter, timeRemaining, desc, team.ID, shooter.ID, secondaryID)
	} else {
		desc := shooter.FullName() + " missed a " + shotName
		ev, err = e.appendEvent(ctx, e.store, sess, eventType, 0, quarter, timeRemaining, desc, team.ID, shooter.ID, "")
	}
	if err != nil {
		return nil, err
	}

	if err := e.flushTeamStat(ctx, e.store, sess, home); err != nil {
		return nil, err
	}
	return []games.Event{ev}, nil
}

// addPoints credits points to the game score, the team total, and the
// per-quarter subtotal in one place.
func (s *Session) addPoints(home bool, quarter, points int) {
	if home {
		s.Game.HomeScore += points
	} else {
		s.Game.AwayScore += points
	}
	st := s.teamStat(home)
	st.Points += points
	st.AddQuarterPoints(quarter, points)
}
