// Package pick defines the wager record shared across the settlement engine.
package pick

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used in pick records and provider queries.
const DateLayout = "2006-01-02"

// Sport determines which grading rules apply to a pick.
type Sport string

const (
	SportMLB    Sport = "MLB"
	SportTennis Sport = "Tennis"
)

// BetType is the market a pick was placed on.
type BetType string

const (
	BetMoneyline  BetType = "Moneyline"
	BetSpread     BetType = "Spread"
	BetSetBetting BetType = "Set Betting"
)

// Status is the lifecycle state of a pick. Picks start pending and move to
// win or loss exactly once; terminal picks are never reverted.
type Status string

const (
	StatusPending Status = "pending"
	StatusWin     Status = "win"
	StatusLoss    Status = "loss"
)

// EventDetails identifies the sporting event a pick was placed on.
type EventDetails struct {
	Game string `json:"game"` // free text, "TeamA vs TeamB"
	Date string `json:"date"` // calendar date, DateLayout
}

// Pick is a single wagering decision.
type Pick struct {
	Sport        Sport        `json:"sport"`
	BetType      BetType      `json:"bet_type"`
	Prediction   string       `json:"prediction"`
	EventDetails EventDetails `json:"event_details"`
	Stake        float64      `json:"stake"`
	Odds         *float64     `json:"odds"`
	Status       Status       `json:"status"`
	ProfitLoss   float64      `json:"profit_loss"`
}

// Terminal reports whether the pick has been graded to a final state.
func (p *Pick) Terminal() bool {
	return p.Status == StatusWin || p.Status == StatusLoss
}

// EventDate parses the pick's event date. The returned time is midnight UTC
// so picks compare purely by calendar day.
func (p *Pick) EventDate() (time.Time, error) {
	t, err := time.Parse(DateLayout, p.EventDetails.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse event date %q: %w", p.EventDetails.Date, err)
	}
	return t, nil
}

// Settle moves a pick to its terminal state and records the profit or loss.
// A win pays stake*(odds-1), or the flat stake when no odds were recorded;
// a loss forfeits the stake.
func (p *Pick) Settle(won bool) {
	if won {
		p.Status = StatusWin
		if p.Odds != nil {
			p.ProfitLoss = p.Stake * (*p.Odds - 1)
		} else {
			p.ProfitLoss = p.Stake
		}
		return
	}
	p.Status = StatusLoss
	p.ProfitLoss = -p.Stake
}

// DateOnly truncates t to its calendar day, normalized to UTC midnight so it
// compares cleanly against EventDate values.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks the record at the store boundary. Records are rejected for
// missing required fields, non-positive stakes, unknown statuses, and
// status/profit_loss inconsistency.
func (p *Pick) Validate() error {
	if p.Sport == "" {
		return fmt.Errorf("pick is missing sport")
	}
	if p.BetType == "" {
		return fmt.Errorf("pick is missing bet_type")
	}
	if p.Prediction == "" {
		return fmt.Errorf("pick is missing prediction")
	}
	if p.EventDetails.Game == "" {
		return fmt.Errorf("pick is missing event_details.game")
	}
	if _, err := p.EventDate(); err != nil {
		return err
	}
	if p.Stake <= 0 {
		return fmt.Errorf("pick stake must be positive, got %v", p.Stake)
	}
	switch p.Status {
	case StatusPending:
		if p.ProfitLoss != 0 {
			return fmt.Errorf("pending pick has profit_loss %v", p.ProfitLoss)
		}
	case StatusWin, StatusLoss:
	default:
		return fmt.Errorf("unknown pick status %q", p.Status)
	}
	return nil
}
