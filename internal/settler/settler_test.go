package settler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorplex-labs/picksettle/internal/grading"
	"github.com/tensorplex-labs/picksettle/internal/pick"
	"github.com/tensorplex-labs/picksettle/internal/sportsdata"
)

var testNow = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

type memStore struct {
	picks []pick.Pick
	saves int
}

func (m *memStore) Load() ([]pick.Pick, error) {
	out := make([]pick.Pick, len(m.picks))
	copy(out, m.picks)
	return out, nil
}

func (m *memStore) Save(picks []pick.Pick) error {
	m.picks = make([]pick.Pick, len(picks))
	copy(m.picks, picks)
	m.saves++
	return nil
}

type fakeResolver struct {
	ids         map[string]int64            // team -> game id
	results     map[int64]sportsdata.Result // game id -> result
	idCalls     int
	resultCalls int
}

func (f *fakeResolver) FindGameID(_ context.Context, _ pick.Sport, team, _ string) (int64, bool) {
	f.idCalls++
	id, ok := f.ids[team]
	return id, ok
}

func (f *fakeResolver) FetchResult(_ context.Context, _ pick.Sport, id int64) (sportsdata.Result, bool) {
	f.resultCalls++
	res, ok := f.results[id]
	return res, ok
}

func newTestSettler(store *memStore, resolver sportsdata.Resolver) *Settler {
	s := New(store, resolver, grading.NewEngine())
	s.now = func() time.Time { return testNow }
	return s
}

func spreadPick(game, date, prediction string) pick.Pick {
	return pick.Pick{
		Sport:        pick.SportMLB,
		BetType:      pick.BetSpread,
		Prediction:   prediction,
		EventDetails: pick.EventDetails{Game: game, Date: date},
		Stake:        10,
		Status:       pick.StatusPending,
	}
}

func TestRun_GradesDuePick(t *testing.T) {
	store := &memStore{picks: []pick.Pick{
		spreadPick("Yankees vs Red Sox", "2026-08-25", "Yankees -1.5"),
	}}
	resolver := &fakeResolver{
		ids: map[string]int64{"Yankees": 42},
		results: map[int64]sportsdata.Result{
			42: {HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", HomeScore: 5, AwayScore: 2, Finished: true},
		},
	}

	stats, err := newTestSettler(store, resolver).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Graded)
	assert.True(t, stats.Saved)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, pick.StatusWin, store.picks[0].Status)
	assert.InDelta(t, 10.0, store.picks[0].ProfitLoss, 1e-9)
}

func TestRun_FutureGameNeverResolved(t *testing.T) {
	store := &memStore{picks: []pick.Pick{
		spreadPick("Yankees vs Red Sox", "2026-08-27", "Yankees -1.5"),
	}}
	resolver := &fakeResolver{}

	stats, err := newTestSettler(store, resolver).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resolver.idCalls, "resolver must not be called for future games")
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, pick.StatusPending, store.picks[0].Status)
}

func TestRun_UnresolvedGameLeftPending(t *testing.T) {
	store := &memStore{picks: []pick.Pick{
		spreadPick("Yankees vs Red Sox", "2026-08-25", "Yankees -1.5"),
	}}
	resolver := &fakeResolver{} // resolves nothing

	stats, err := newTestSettler(store, resolver).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, pick.StatusPending, store.picks[0].Status)
	assert.True(t, stats.Saved)
}

func TestRun_UnfinishedGameLeftPending(t *testing.T) {
	store := &memStore{picks: []pick.Pick{
		spreadPick("Yankees vs Red Sox", "2026-08-25", "Yankees -1.5"),
	}}
	resolver := &fakeResolver{
		ids: map[string]int64{"Yankees": 42},
		results: map[int64]sportsdata.Result{
			42: {HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", HomeScore: 3, AwayScore: 2, Finished: false},
		},
	}

	stats, err := newTestSettler(store, resolver).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, pick.StatusPending, store.picks[0].Status)
}

func TestRun_MalformedPredictionCountedAsFailed(t *testing.T) {
	store := &memStore{picks: []pick.Pick{
		spreadPick("Yankees vs Red Sox", "2026-08-25", "Yankees"),
	}}
	resolver := &fakeResolver{
		ids: map[string]int64{"Yankees": 42},
		results: map[int64]sportsdata.Result{
			42: {HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", HomeScore: 5, AwayScore: 2, Finished: true},
		},
	}

	stats, err := newTestSettler(store, resolver).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, pick.StatusPending, store.picks[0].Status)
}

func TestRun_Idempotent(t *testing.T) {
	store := &memStore{picks: []pick.Pick{
		spreadPick("Yankees vs Red Sox", "2026-08-25", "Yankees -1.5"),
		spreadPick("Mets vs Braves", "2026-08-25", "Mets -1.0"),
	}}
	resolver := &fakeResolver{
		ids: map[string]int64{"Yankees": 42, "Mets": 43},
		results: map[int64]sportsdata.Result{
			42: {HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", HomeScore: 5, AwayScore: 2, Finished: true},
			43: {HomeTeam: "New York Mets", AwayTeam: "Atlanta Braves", HomeScore: 1, AwayScore: 4, Finished: true},
		},
	}

	s := newTestSettler(store, resolver)
	_, err := s.Run(context.Background())
	require.NoError(t, err)
	afterFirst := make([]pick.Pick, len(store.picks))
	copy(afterFirst, store.picks)

	stats, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Graded, "second run must not regrade")
	assert.Equal(t, 2, resolver.idCalls, "terminal picks must not hit the resolver again")
	assert.Equal(t, 2, resolver.resultCalls)
	assert.Equal(t, afterFirst, store.picks)
}

func TestRun_EmptyStoreNeverSaves(t *testing.T) {
	store := &memStore{}

	stats, err := newTestSettler(store, &fakeResolver{}).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, stats.Saved)
	assert.Zero(t, store.saves)
}

func TestRun_ProcessesAllPicksDespiteFailures(t *testing.T) {
	store := &memStore{picks: []pick.Pick{
		spreadPick("Unknowns vs Nobodies", "2026-08-25", "Unknowns -1.5"), // unresolvable
		spreadPick("Yankees vs Red Sox", "2026-08-25", "Yankees -1.5"),   // gradable
	}}
	resolver := &fakeResolver{
		ids: map[string]int64{"Yankees": 42},
		results: map[int64]sportsdata.Result{
			42: {HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox", HomeScore: 5, AwayScore: 2, Finished: true},
		},
	}

	stats, err := newTestSettler(store, resolver).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Graded)
	assert.Equal(t, pick.StatusPending, store.picks[0].Status)
	assert.Equal(t, pick.StatusWin, store.picks[1].Status)
}
