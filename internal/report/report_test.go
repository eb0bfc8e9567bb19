package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorplex-labs/picksettle/internal/pick"
)

// Wednesday in the middle of a week and a month.
var wednesday = time.Date(2026, 8, 26, 15, 4, 5, 0, time.UTC)

func graded(date string, stake, profitLoss float64, status pick.Status) pick.Pick {
	return pick.Pick{
		Sport:        pick.SportMLB,
		BetType:      pick.BetSpread,
		Prediction:   "Yankees -1.5",
		EventDetails: pick.EventDetails{Game: "Yankees vs Red Sox", Date: date},
		Stake:        stake,
		Status:       status,
		ProfitLoss:   profitLoss,
	}
}

func TestParseWindow(t *testing.T) {
	for _, name := range []string{"daily", "weekly", "monthly", "all", "Weekly"} {
		_, err := ParseWindow(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseWindow("yearly")
	assert.Error(t, err)
}

func TestPeriodBounds(t *testing.T) {
	start, end := PeriodBounds(WindowWeekly, wednesday)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start, "week starts Monday")
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), end, "week ends Sunday")

	start, end = PeriodBounds(WindowMonthly, wednesday)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), end)

	start, end = PeriodBounds(WindowDaily, wednesday)
	assert.Equal(t, start, end)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), start)
}

func TestPeriodBounds_MondayItself(t *testing.T) {
	monday := time.Date(2026, 8, 24, 1, 0, 0, 0, time.UTC)
	start, _ := PeriodBounds(WindowWeekly, monday)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), start)
}

func TestAggregate_WeeklyMondayInclusive(t *testing.T) {
	picks := []pick.Pick{
		graded("2026-08-24", 10, 9, pick.StatusWin), // Monday of this week
	}

	s := Aggregate(picks, WindowWeekly, wednesday)
	assert.Equal(t, 1, s.Wins)

	// One week later the same pick falls outside the window.
	s = Aggregate(picks, WindowWeekly, wednesday.AddDate(0, 0, 7))
	assert.Equal(t, 0, s.Wins)
	assert.Zero(t, s.TotalStaked)
}

func TestAggregate_PendingExcludedFromTotals(t *testing.T) {
	pending := graded("2026-08-25", 50, 0, pick.StatusPending)
	picks := []pick.Pick{
		graded("2026-08-24", 10, 9, pick.StatusWin),
		graded("2026-08-25", 10, -10, pick.StatusLoss),
		pending,
	}

	s := Aggregate(picks, WindowWeekly, wednesday)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Pending)
	assert.InDelta(t, 20.0, s.TotalStaked, 1e-9)
	assert.InDelta(t, -1.0, s.TotalProfitLoss, 1e-9)
	assert.InDelta(t, -5.0, s.ROI, 1e-9)
	assert.InDelta(t, 10.0, s.MeanStake, 1e-9)
}

func TestAggregate_ROIZeroWhenNothingStaked(t *testing.T) {
	picks := []pick.Pick{
		graded("2026-08-25", 50, 0, pick.StatusPending),
	}

	s := Aggregate(picks, WindowWeekly, wednesday)
	assert.Zero(t, s.ROI)
	assert.Zero(t, s.TotalStaked)
}

func TestAggregate_UnparseableDateExcluded(t *testing.T) {
	p := graded("not-a-date", 10, 9, pick.StatusWin)

	s := Aggregate([]pick.Pick{p}, WindowAll, wednesday)
	assert.Zero(t, s.Wins)
	assert.Zero(t, s.TotalStaked)
}

func TestAggregate_AllWindowUnbounded(t *testing.T) {
	picks := []pick.Pick{
		graded("1999-01-01", 10, 10, pick.StatusWin),
		graded("2026-08-26", 10, -10, pick.StatusLoss),
	}

	s := Aggregate(picks, WindowAll, wednesday)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 20.0, s.TotalStaked, 1e-9)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	picks := []pick.Pick{graded("2026-08-26", 10, 9, pick.StatusWin)}
	before := picks[0]

	_ = Aggregate(picks, WindowAll, wednesday)
	require.Equal(t, before, picks[0])
}

func TestFormat(t *testing.T) {
	picks := []pick.Pick{
		graded("2026-08-24", 10, 9, pick.StatusWin),
		graded("2026-08-25", 10, -10, pick.StatusLoss),
	}

	out := Aggregate(picks, WindowWeekly, wednesday).Format()
	assert.Contains(t, out, "This Week (2026-08-24 to 2026-08-30)")
	assert.Contains(t, out, "Record (W-L-P):       1-1-0")
	assert.Contains(t, out, "Total Amount Staked:  $20.00")
	assert.Contains(t, out, "Return on Investment: -5.00%")
}
