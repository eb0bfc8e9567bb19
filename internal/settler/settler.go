// Package settler orchestrates one settlement run: load picks, resolve and
// grade every due pending pick, save the collection once.
package settler

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/grading"
	"github.com/tensorplex-labs/picksettle/internal/pick"
	"github.com/tensorplex-labs/picksettle/internal/pickstore"
	"github.com/tensorplex-labs/picksettle/internal/sportsdata"
)

// gameSeparator splits "TeamA vs TeamB" into the side used for the provider
// search.
const gameSeparator = " vs "

// Settler drives settlement runs. Picks are processed strictly in stored
// order, so grading decisions are deterministic across runs. The run assumes
// it is the only writer of the store for its duration.
type Settler struct {
	store    pickstore.Store
	resolver sportsdata.Resolver
	engine   *grading.Engine
	now      func() time.Time
}

// RunStats summarizes one settlement run.
type RunStats struct {
	Total   int  // picks in the store
	Pending int  // pending picks seen
	Graded  int  // picks moved to a terminal state
	Skipped int  // pending picks left pending (future, unresolved, unfinished, unsupported)
	Failed  int  // picks with malformed data needing a manual fix
	Saved   bool // whether the collection was written back
}

func New(store pickstore.Store, resolver sportsdata.Resolver, engine *grading.Engine) *Settler {
	return &Settler{
		store:    store,
		resolver: resolver,
		engine:   engine,
		now:      time.Now,
	}
}

// Run executes one settlement pass. Per-pick failures are isolated: the run
// always processes every pick and performs exactly one save at the end, or no
// save at all when the store held nothing.
func (s *Settler) Run(ctx context.Context) (RunStats, error) {
	stats := RunStats{}

	picks, err := s.store.Load()
	if err != nil {
		return stats, err
	}
	stats.Total = len(picks)

	if len(picks) == 0 {
		log.Info().Msg("store is empty, nothing to settle")
		return stats, nil
	}

	today := pick.DateOnly(s.now())

	for i := range picks {
		p := &picks[i]
		if p.Status != pick.StatusPending {
			continue
		}
		stats.Pending++

		plog := log.With().
			Str("game", p.EventDetails.Game).
			Str("sport", string(p.Sport)).
			Str("date", p.EventDetails.Date).
			Logger()

		eventDate, err := p.EventDate()
		if err != nil {
			plog.Warn().Err(err).Msg("pick has malformed event date, leaving pending")
			stats.Failed++
			continue
		}
		if eventDate.After(today) {
			plog.Debug().Msg("game is in the future, skipping")
			stats.Skipped++
			continue
		}

		team, _, _ := strings.Cut(p.EventDetails.Game, gameSeparator)

		gameID, found := s.resolver.FindGameID(ctx, p.Sport, team, p.EventDetails.Date)
		if !found {
			plog.Info().Str("team", team).Msg("could not resolve a game id, leaving pending")
			stats.Skipped++
			continue
		}

		result, found := s.resolver.FetchResult(ctx, p.Sport, gameID)
		if !found {
			plog.Info().Int64("game_id", gameID).Msg("result not available, leaving pending")
			stats.Skipped++
			continue
		}
		if !result.Finished {
			plog.Info().Int64("game_id", gameID).Msg("game has not finished, leaving pending")
			stats.Skipped++
			continue
		}

		graded, err := s.engine.Grade(p, result)
		if err != nil {
			plog.Warn().Err(err).Str("prediction", p.Prediction).Msg("prediction could not be graded, fix the source pick")
			stats.Failed++
			continue
		}
		if !graded {
			plog.Info().Msg("market not supported for grading, leaving pending")
			stats.Skipped++
			continue
		}

		plog.Info().
			Str("status", string(p.Status)).
			Float64("profit_loss", p.ProfitLoss).
			Msg("pick settled")
		stats.Graded++
	}

	if stats.Pending == 0 {
		log.Info().Int("total", stats.Total).Msg("no pending picks to settle")
	}

	if err := s.store.Save(picks); err != nil {
		return stats, err
	}
	stats.Saved = true

	log.Info().
		Int("total", stats.Total).
		Int("pending", stats.Pending).
		Int("graded", stats.Graded).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("settlement run complete")
	return stats, nil
}
