// Package grading decides whether a pending pick won or lost against a final
// game result.
package grading

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/pick"
	"github.com/tensorplex-labs/picksettle/internal/sportsdata"
)

// Engine applies sport- and market-specific grading rules.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Grade settles p against res. It returns true when the pick reached a
// terminal state. An unfinished result, an already-terminal pick, or an
// unsupported (sport, bet_type) combination return false without error so the
// caller retries on a later run. A prediction string that cannot be parsed
// returns an error; the pick stays pending and the source data needs fixing.
func (e *Engine) Grade(p *pick.Pick, res sportsdata.Result) (bool, error) {
	if p.Terminal() {
		return false, nil
	}
	if !res.Finished {
		return false, nil
	}

	var won bool
	var err error
	switch {
	case p.Sport == pick.SportMLB && p.BetType == pick.BetSpread:
		won, err = gradeSpread(p.Prediction, res)
	case p.Sport == pick.SportTennis && p.BetType == pick.BetMoneyline:
		won, err = gradeMoneyline(p.Prediction, res)
	case p.Sport == pick.SportTennis && p.BetType == pick.BetSetBetting:
		won, err = gradeSetBetting(p.Prediction, res)
	default:
		log.Debug().
			Str("sport", string(p.Sport)).
			Str("bet_type", string(p.BetType)).
			Msg("no grading rule for market, leaving pick pending")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	p.Settle(won)
	return true, nil
}

// gradeSpread parses "<team> <signed spread>" and applies the handicap to the
// predicted side's score. A spread-adjusted tie is a loss: the adjusted score
// must be strictly greater.
func gradeSpread(prediction string, res sportsdata.Result) (bool, error) {
	team, spreadStr, ok := splitLastField(prediction)
	if !ok {
		return false, fmt.Errorf("spread prediction %q has no line", prediction)
	}
	spread, err := strconv.ParseFloat(spreadStr, 64)
	if err != nil {
		return false, fmt.Errorf("spread prediction %q has unparseable line %q", prediction, spreadStr)
	}

	if strings.Contains(res.HomeTeam, team) {
		return float64(res.HomeScore)+spread > float64(res.AwayScore), nil
	}
	return float64(res.AwayScore)+spread > float64(res.HomeScore), nil
}

// gradeMoneyline takes the first token of the prediction as the predicted
// winner and matches it as a substring of the declared winner's name. A
// finished match with no declared winner grades as a loss.
func gradeMoneyline(prediction string, res sportsdata.Result) (bool, error) {
	fields := strings.Fields(prediction)
	if len(fields) == 0 {
		return false, fmt.Errorf("moneyline prediction is empty")
	}
	player := fields[0]
	return res.Winner != "" && strings.Contains(res.Winner, player), nil
}

// gradeSetBetting parses "<player> <home>-<away>" and compares against the
// actual set score oriented to whichever side the player matched.
func gradeSetBetting(prediction string, res sportsdata.Result) (bool, error) {
	player, predictedScore, ok := splitLastField(prediction)
	if !ok {
		return false, fmt.Errorf("set betting prediction %q has no score", prediction)
	}
	if !strings.Contains(predictedScore, "-") {
		return false, fmt.Errorf("set betting prediction %q has malformed score %q", prediction, predictedScore)
	}

	if strings.Contains(res.HomeTeam, player) {
		return fmt.Sprintf("%d-%d", res.HomeSets, res.AwaySets) == predictedScore, nil
	}
	if strings.Contains(res.AwayTeam, player) {
		return fmt.Sprintf("%d-%d", res.AwaySets, res.HomeSets) == predictedScore, nil
	}
	return false, fmt.Errorf("set betting player %q matches neither %q nor %q", player, res.HomeTeam, res.AwayTeam)
}

// splitLastField splits s at its final space, mirroring a rsplit with one
// field. ok is false when s has no space.
func splitLastField(s string) (head, tail string, ok bool) {
	i := strings.LastIndex(s, " ")
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
