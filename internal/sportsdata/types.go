package sportsdata

// Result is the final scoreline for one event, mapped from the provider
// payload. Grading must not run unless Finished is true.
type Result struct {
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`

	// Tennis only
	HomeSets int    `json:"home_sets"`
	AwaySets int    `json:"away_sets"`
	Winner   string `json:"winner"` // empty when the provider declares none

	Finished bool `json:"finished"`
}

// finishedStatus is the provider's long status for a completed game.
const finishedStatus = "Finished"

type gamesResponse struct {
	Response []gamePayload `json:"response"`
}

type gamePayload struct {
	ID     int64         `json:"id"`
	Status statusPayload `json:"status"`
	Teams  struct {
		Home teamPayload `json:"home"`
		Away teamPayload `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home scorePayload `json:"home"`
		Away scorePayload `json:"away"`
	} `json:"scores"`
	Winner *teamPayload `json:"winner"`
}

type teamPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type statusPayload struct {
	Long string `json:"long"`
}

// scorePayload fields are pointers because the provider sends null for
// games that have not started.
type scorePayload struct {
	Total *int `json:"total"`
	Sets  *int `json:"sets"`
}

func (g *gamePayload) toResult() Result {
	r := Result{
		HomeTeam: g.Teams.Home.Name,
		AwayTeam: g.Teams.Away.Name,
		Finished: g.Status.Long == finishedStatus,
	}
	if g.Scores.Home.Total != nil {
		r.HomeScore = *g.Scores.Home.Total
	}
	if g.Scores.Away.Total != nil {
		r.AwayScore = *g.Scores.Away.Total
	}
	if g.Scores.Home.Sets != nil {
		r.HomeSets = *g.Scores.Home.Sets
	}
	if g.Scores.Away.Sets != nil {
		r.AwaySets = *g.Scores.Away.Sets
	}
	if g.Winner != nil {
		r.Winner = g.Winner.Name
	}
	return r
}
