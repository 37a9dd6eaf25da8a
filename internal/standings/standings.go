// Package standings maintains per-season win/loss records as games complete.
package standings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courtwire/nba-sim-service/internal/domain/games"
	"github.com/courtwire/nba-sim-service/internal/logging"
	"github.com/courtwire/nba-sim-service/internal/repository"
)

// Updater applies completed game results to both teams' season rows.
type Updater struct {
	store  repository.SeasonRepository
	logger *slog.Logger
}

func NewUpdater(store repository.SeasonRepository, logger *slog.Logger) *Updater {
	return &Updater{store: store, logger: logger}
}

// RecordCompletedGame bumps games played, points for/against, and the
// win/loss columns for both sides. Games with no standings rows are skipped
// rather than failed, so exhibition games outside a season stay harmless.
// A tied final counts as a loss for both teams.
func (u *Updater) RecordCompletedGame(ctx context.Context, g games.Game) error {
	homeRow, err := u.store.GetTeamSeason(ctx, g.HomeTeamID, g.SeasonID)
	if errors.Is(err, repository.ErrNotFound) {
		logging.Warn(u.logger, "no standings row for game, skipping",
			logging.FieldGameID, g.ID,
			logging.FieldTeamID, g.HomeTeamID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load home standings: %w", err)
	}
	awayRow, err := u.store.GetTeamSeason(ctx, g.AwayTeamID, g.SeasonID)
	if errors.Is(err, repository.ErrNotFound) {
		logging.Warn(u.logger, "no standings row for game, skipping",
			logging.FieldGameID, g.ID,
			logging.FieldTeamID, g.AwayTeamID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load away standings: %w", err)
	}

	homeRow.GamesPlayed++
	homeRow.PointsFor += g.HomeScore
	homeRow.PointsAgainst += g.AwayScore
	if g.HomeScore > g.AwayScore {
		homeRow.Wins++
	} else {
		homeRow.Losses++
	}

	awayRow.GamesPlayed++
	awayRow.PointsFor += g.AwayScore
	awayRow.PointsAgainst += g.HomeScore
	if g.AwayScore > g.HomeScore {
		awayRow.Wins++
	} else {
		awayRow.Losses++
	}

	if err := u.store.SaveTeamSeason(ctx, homeRow); err != nil {
		return fmt.Errorf("save home standings: %w", err)
	}
	if err := u.store.SaveTeamSeason(ctx, awayRow); err != nil {
		return fmt.Errorf("save away standings: %w", err)
	}
	return nil
}
