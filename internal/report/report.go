// Package report computes windowed performance summaries over a pick
// collection. Aggregation is read-only; it never mutates the picks.
package report

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/tensorplex-labs/picksettle/internal/pick"
)

// Window names a reporting period.
type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
	WindowAll     Window = "all"
)

// ParseWindow validates a window name from the CLI or HTTP surface.
func ParseWindow(s string) (Window, error) {
	switch Window(strings.ToLower(s)) {
	case WindowDaily:
		return WindowDaily, nil
	case WindowWeekly:
		return WindowWeekly, nil
	case WindowMonthly:
		return WindowMonthly, nil
	case WindowAll:
		return WindowAll, nil
	}
	return "", fmt.Errorf("unknown window %q, want daily, weekly, monthly or all", s)
}

// Summary is the aggregate over picks whose event date falls inside the
// window. Stake and profit totals cover terminal picks only; pending picks
// are counted but never contribute to money totals.
type Summary struct {
	Window Window    `json:"window"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`

	Wins    int `json:"wins"`
	Losses  int `json:"losses"`
	Pending int `json:"pending"`

	TotalStaked     float64 `json:"total_staked"`
	TotalProfitLoss float64 `json:"total_profit_loss"`
	ROI             float64 `json:"roi"` // percent; 0 when nothing was staked

	MeanStake    float64 `json:"mean_stake"`
	StakeStdDev  float64 `json:"stake_std_dev"`
	ProfitStdDev float64 `json:"profit_std_dev"`
}

// farFuture bounds the "all" window; any parseable pick date falls before it.
var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// PeriodBounds computes the calendar-local inclusive [start, end] of a window
// relative to now. Weekly runs Monday through Sunday; monthly covers the
// first to the last day of the current month.
func PeriodBounds(w Window, now time.Time) (start, end time.Time) {
	today := pick.DateOnly(now)
	switch w {
	case WindowDaily:
		return today, today
	case WindowWeekly:
		offset := (int(today.Weekday()) + 6) % 7 // days since Monday
		start = today.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6)
	case WindowMonthly:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	default:
		return time.Time{}, farFuture
	}
}

// Aggregate computes the summary for picks inside the window at now. Picks
// without a parseable event date are excluded.
func Aggregate(picks []pick.Pick, w Window, now time.Time) Summary {
	start, end := PeriodBounds(w, now)
	s := Summary{Window: w, Start: start, End: end}

	var stakes, profits []float64
	for i := range picks {
		p := &picks[i]
		d, err := p.EventDate()
		if err != nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}

		switch p.Status {
		case pick.StatusWin:
			s.Wins++
		case pick.StatusLoss:
			s.Losses++
		case pick.StatusPending:
			s.Pending++
		}

		if p.Terminal() {
			s.TotalStaked += p.Stake
			s.TotalProfitLoss += p.ProfitLoss
			stakes = append(stakes, p.Stake)
			profits = append(profits, p.ProfitLoss)
		}
	}

	if s.TotalStaked > 0 {
		s.ROI = s.TotalProfitLoss / s.TotalStaked * 100
	}
	if len(stakes) > 0 {
		s.MeanStake = stat.Mean(stakes, nil)
	}
	if len(stakes) > 1 {
		s.StakeStdDev = stat.StdDev(stakes, nil)
		s.ProfitStdDev = stat.StdDev(profits, nil)
	}
	return s
}

// periodName renders the window heading the way the report reads best.
func (s Summary) periodName() string {
	const layout = pick.DateLayout
	switch s.Window {
	case WindowDaily:
		return fmt.Sprintf("Today (%s)", s.Start.Format(layout))
	case WindowWeekly:
		return fmt.Sprintf("This Week (%s to %s)", s.Start.Format(layout), s.End.Format(layout))
	case WindowMonthly:
		return fmt.Sprintf("This Month (%s to %s)", s.Start.Format(layout), s.End.Format(layout))
	default:
		return "All Time"
	}
}

// Format renders the text report printed by the report command.
func (s Summary) Format() string {
	var b strings.Builder
	rule := strings.Repeat("-", 40)
	fmt.Fprintf(&b, "--- Performance Report: %s ---\n", s.periodName())
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Record (W-L-P):       %d-%d-%d\n", s.Wins, s.Losses, s.Pending)
	fmt.Fprintf(&b, "Total Amount Staked:  $%.2f\n", s.TotalStaked)
	fmt.Fprintf(&b, "Total Profit/Loss:    $%.2f\n", s.TotalProfitLoss)
	fmt.Fprintf(&b, "Return on Investment: %.2f%%\n", s.ROI)
	fmt.Fprintf(&b, "Average Stake:        $%.2f\n", s.MeanStake)
	b.WriteString(rule)
	return b.String()
}
