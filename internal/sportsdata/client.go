// Package sportsdata resolves final game results from the api-sports HTTP
// provider. Lookups never surface errors to the caller: network failures,
// non-2xx responses, and empty result sets all resolve to "not found" and are
// logged, so one flaky lookup cannot fail a settlement run.
package sportsdata

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/config"
	"github.com/tensorplex-labs/picksettle/internal/pick"
)

// Resolver maps (sport, team, date) to a provider game id and a game id to
// its final Result. The boolean return follows the "found" convention; false
// covers both absence and provider failure.
type Resolver interface {
	FindGameID(ctx context.Context, sport pick.Sport, team, date string) (int64, bool)
	FetchResult(ctx context.Context, sport pick.Sport, id int64) (Result, bool)
}

// Client is a per-sport resty client over the api-sports hosts.
type Client struct {
	clients map[pick.Sport]*resty.Client
}

// NewClient builds one resty client per supported sport on top of a shared
// retrying transport.
func NewClient(cfg *config.SportsAPIEnvConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	retry := retryablehttp.NewClient()
	retry.RetryMax = cfg.ClientRetryMax
	retry.HTTPClient.Timeout = cfg.ClientTimeout
	retry.RetryWaitMin = 500 * time.Millisecond
	retry.RetryWaitMax = 10 * time.Second
	retry.Logger = nil

	newRest := func(baseURL string) *resty.Client {
		return resty.NewWithClient(retry.StandardClient()).
			SetBaseURL(baseURL).
			SetJSONMarshaler(sonic.Marshal).
			SetJSONUnmarshaler(sonic.Unmarshal).
			SetTimeout(cfg.ClientTimeout).
			SetHeader("x-rapidapi-key", cfg.APIKey)
	}

	return &Client{
		clients: map[pick.Sport]*resty.Client{
			pick.SportMLB:    newRest(cfg.BaseballAPIURL),
			pick.SportTennis: newRest(cfg.TennisAPIURL),
		},
	}, nil
}

// SetBaseURL points one sport's client at a different host. Used by tests.
func (c *Client) SetBaseURL(sport pick.Sport, baseURL string) {
	if rc, ok := c.clients[sport]; ok {
		rc.SetBaseURL(baseURL)
	}
}

// FindGameID searches the provider for games involving team on date and
// returns the first whose home or away name contains team.
func (c *Client) FindGameID(ctx context.Context, sport pick.Sport, team, date string) (int64, bool) {
	rc, ok := c.clients[sport]
	if !ok {
		log.Warn().Str("sport", string(sport)).Msg("no provider configured for sport")
		return 0, false
	}

	params := map[string]string{"date": date}
	// The baseball API filters by team, the tennis API by free-text search.
	if sport == pick.SportMLB {
		params["team"] = team
	} else {
		params["search"] = team
	}

	var out gamesResponse
	resp, err := rc.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		Get("/games")
	if err != nil {
		log.Error().Err(err).Str("sport", string(sport)).Str("team", team).Str("date", date).Msg("game search request failed")
		return 0, false
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("sport", string(sport)).Str("team", team).Str("date", date).Msg("game search non-2xx")
		return 0, false
	}

	for _, game := range out.Response {
		if strings.Contains(game.Teams.Home.Name, team) || strings.Contains(game.Teams.Away.Name, team) {
			return game.ID, true
		}
	}
	log.Info().Str("sport", string(sport)).Str("team", team).Str("date", date).Msg("no matching game found")
	return 0, false
}

// FetchResult fetches the scoreline for a known game id.
func (c *Client) FetchResult(ctx context.Context, sport pick.Sport, id int64) (Result, bool) {
	rc, ok := c.clients[sport]
	if !ok {
		log.Warn().Str("sport", string(sport)).Msg("no provider configured for sport")
		return Result{}, false
	}

	var out gamesResponse
	resp, err := rc.R().
		SetContext(ctx).
		SetQueryParam("id", strconv.FormatInt(id, 10)).
		SetResult(&out).
		Get("/games")
	if err != nil {
		log.Error().Err(err).Str("sport", string(sport)).Int64("game_id", id).Msg("result request failed")
		return Result{}, false
	}
	if resp.IsError() {
		log.Error().Int("status", resp.StatusCode()).Str("sport", string(sport)).Int64("game_id", id).Msg("result non-2xx")
		return Result{}, false
	}
	if len(out.Response) == 0 {
		log.Info().Str("sport", string(sport)).Int64("game_id", id).Msg("no result for game id")
		return Result{}, false
	}

	return out.Response[0].toResult(), true
}
