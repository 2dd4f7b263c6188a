package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lolfm/internal/game"

	"github.com/google/uuid"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx reply from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func (c *Client) Clock(ctx context.Context) (game.Clock, error) {
	var out game.Clock
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/clock", nil, &out)
	return out, err
}

func (c *Client) GenerateSchedule(ctx context.Context, leagueID int64) (game.ScheduleResult, error) {
	var out game.ScheduleResult
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/leagues/%d/schedule", leagueID), nil, &out)
	return out, err
}

func (c *Client) Standings(ctx context.Context, leagueID int64, seasonYear int) ([]game.Standing, error) {
	var out struct {
		Standings []game.Standing `json:"standings"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, seasonPath(fmt.Sprintf("/v1/leagues/%d/standings", leagueID), seasonYear), nil, &out)
	return out.Standings, err
}

func (c *Client) LeagueMatches(ctx context.Context, leagueID int64, seasonYear int) ([]game.MatchView, error) {
	var out struct {
		Matches []game.MatchView `json:"matches"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, seasonPath(fmt.Sprintf("/v1/leagues/%d/matches", leagueID), seasonYear), nil, &out)
	return out.Matches, err
}

func (c *Client) SimulateMatch(ctx context.Context, matchID int64) (game.MatchResult, error) {
	var out game.MatchResult
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/matches/%d/simulate", matchID), nil, &out)
	return out, err
}

func (c *Client) CreateExhibition(ctx context.Context, homeTeamID, awayTeamID int64) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/matches/exhibition", map[string]any{
		"home_team_id": homeTeamID,
		"away_team_id": awayTeamID,
	}, &out)
	return out.ID, err
}

func (c *Client) CreateTeam(ctx context.Context, name string, leagueID *int64, ownerUserID string) (int64, error) {
	var out struct {
		ID int64 `json:"id"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/teams", map[string]any{
		"name":          name,
		"league_id":     leagueID,
		"owner_user_id": ownerUserID,
	}, &out)
	return out.ID, err
}

func (c *Client) Team(ctx context.Context, teamID int64) (game.TeamView, error) {
	var out game.TeamView
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/teams/%d", teamID), nil, &out)
	return out, err
}

func (c *Client) Roster(ctx context.Context, teamID int64) ([]game.Player, error) {
	var out struct {
		Players []game.Player `json:"players"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/teams/%d/roster", teamID), nil, &out)
	return out.Players, err
}

func (c *Client) SettleTeam(ctx context.Context, teamID int64) (game.Settlement, error) {
	var out game.Settlement
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/teams/%d/settle", teamID), nil, &out)
	return out, err
}

func (c *Client) FinancialRecords(ctx context.Context, teamID int64, limit int) ([]game.FinancialRecord, error) {
	var out struct {
		Records []game.FinancialRecord `json:"records"`
	}
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/teams/%d/records?%s", teamID, q.Encode()), nil, &out)
	return out.Records, err
}

func (c *Client) BankruptcyEvents(ctx context.Context, teamID int64) ([]game.BankruptcyEvent, error) {
	var out struct {
		Events []game.BankruptcyEvent `json:"events"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, fmt.Sprintf("/v1/teams/%d/bankruptcy-events", teamID), nil, &out)
	return out.Events, err
}

func (c *Client) FreeAgents(ctx context.Context, limit int) ([]game.Player, error) {
	var out struct {
		Players []game.Player `json:"players"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/free-agents?limit="+strconv.Itoa(limit), nil, &out)
	return out.Players, err
}

func (c *Client) SignFreeAgent(ctx context.Context, teamID, playerID, salary int64) (game.Player, error) {
	var out game.Player
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/teams/%d/players/%d/sign", teamID, playerID), map[string]any{
		"salary": salary,
	}, &out)
	return out, err
}

func (c *Client) ReleasePlayer(ctx context.Context, teamID, playerID int64) error {
	return c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/teams/%d/players/%d/release", teamID, playerID), nil, nil)
}

func (c *Client) RenewContract(ctx context.Context, teamID, playerID, salary int64) (game.Player, error) {
	var out game.Player
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/teams/%d/players/%d/renew", teamID, playerID), map[string]any{
		"salary": salary,
	}, &out)
	return out, err
}

func (c *Client) TrainPlayer(ctx context.Context, teamID, playerID int64, training string) (game.TrainingResult, error) {
	var out game.TrainingResult
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/teams/%d/players/%d/train", teamID, playerID), map[string]any{
		"training": training,
	}, &out)
	return out, err
}

func (c *Client) UpgradeFacility(ctx context.Context, teamID int64, facility string) (game.FacilityUpgradeResult, error) {
	var out game.FacilityUpgradeResult
	err := c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/teams/%d/facilities/upgrade", teamID), map[string]any{
		"facility": facility,
	}, &out)
	return out, err
}

func (c *Client) SignSponsorship(ctx context.Context, teamID int64, sponsor string, amount int64) error {
	return c.jsonRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/teams/%d/sponsorships", teamID), map[string]any{
		"sponsor":        sponsor,
		"signing_amount": amount,
	}, nil)
}

func seasonPath(path string, seasonYear int) string {
	if seasonYear <= 0 {
		return path
	}
	return path + "?season=" + strconv.Itoa(seasonYear)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(raw))
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
