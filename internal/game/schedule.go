package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type Fixture struct {
	HomeTeamID int64     `json:"home_team_id"`
	AwayTeamID int64     `json:"away_team_id"`
	Date       time.Time `json:"date"`
}

// SeasonStart is the first matchday of a season: February 1st, right after the stove league.
func SeasonStart(year int) time.Time {
	return time.Date(year, time.February, 1, 0, 0, 0, 0, time.UTC)
}

// BuildFixtures produces a double round robin. teamIDs must already be in a stable order;
// in the first round the earlier team hosts, the second round reverses every pairing.
func BuildFixtures(teamIDs []int64, start time.Time) ([]Fixture, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, ErrInsufficientTeams
	}
	out := make([]Fixture, 0, n*(n-1))
	add := func(home, away int64) {
		date := start.AddDate(0, 0, FixtureCadenceDays*len(out))
		out = append(out, Fixture{HomeTeamID: home, AwayTeamID: away, Date: date})
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			add(teamIDs[i], teamIDs[j])
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			add(teamIDs[j], teamIDs[i])
		}
	}
	return out, nil
}

func ensureLeague(ctx context.Context, q querier, leagueID int64) error {
	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM lolfm.leagues WHERE id = $1`, leagueID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w %d", ErrLeagueNotFound, leagueID)
	}
	return err
}

// GenerateSchedule replaces the league's fixtures for the current season and resets its standings.
func (s *Service) GenerateSchedule(ctx context.Context, leagueID int64) (ScheduleResult, error) {
	out := ScheduleResult{LeagueID: leagueID}
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		if err := ensureLeague(ctx, tx, leagueID); err != nil {
			return err
		}
		clock, err := loadClock(ctx, tx, false)
		if err != nil {
			return err
		}
		out.SeasonYear = clock.Year

		rows, err := tx.Query(ctx, `
			SELECT id
			FROM lolfm.teams
			WHERE league_id = $1 AND is_game_over = false
			ORDER BY id
		`, leagueID)
		if err != nil {
			return err
		}
		teamIDs, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return err
		}
		fixtures, err := BuildFixtures(teamIDs, SeasonStart(clock.Year))
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			DELETE FROM lolfm.matches
			WHERE league_id = $1 AND season_year = $2
		`, leagueID, clock.Year); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for _, f := range fixtures {
			batch.Queue(`
				INSERT INTO lolfm.matches (league_id, season_year, home_team_id, away_team_id, match_date, status)
				VALUES ($1, $2, $3, $4, $5, 'scheduled')
			`, leagueID, clock.Year, f.HomeTeamID, f.AwayTeamID, f.Date)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
		if err := initStandingsTx(ctx, tx, leagueID, clock.Year, teamIDs); err != nil {
			return err
		}

		out.Teams = len(teamIDs)
		out.Fixtures = len(fixtures)
		out.FirstDate = fixtures[0].Date
		out.LastDate = fixtures[len(fixtures)-1].Date
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("generate schedule for league %d: %w", leagueID, err)
	}
	s.log.Info("schedule generated", "league_id", leagueID, "season_year", out.SeasonYear, "fixtures", out.Fixtures)
	return out, nil
}
