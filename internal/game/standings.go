package game

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
)

type Standing struct {
	LeagueID       int64  `json:"league_id"`
	TeamID         int64  `json:"team_id"`
	TeamName       string `json:"team_name,omitempty"`
	SeasonYear     int    `json:"season_year"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	Points         int    `json:"points"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Rank           int    `json:"rank"`
}

// ApplyResult folds one series into the row. goalsFor/goalsAgainst are game wins.
func (st *Standing) ApplyResult(goalsFor, goalsAgainst int) {
	switch OutcomeFor(goalsFor, goalsAgainst) {
	case OutcomeWin:
		st.Wins++
	case OutcomeLoss:
		st.Losses++
	default:
		st.Draws++
	}
	st.GoalsFor += goalsFor
	st.GoalsAgainst += goalsAgainst
	st.GoalDifference = st.GoalsFor - st.GoalsAgainst
	st.Points = st.Wins*WinPoints + st.Draws*DrawPoints
}

// RankStandings orders rows by points, goal difference, goals for, then team id, and
// writes 1-based ranks. The order is total, so re-ranking the same rows is a no-op.
func RankStandings(rows []Standing) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

// standingsLockNamespace keys the advisory lock that serializes one (league, season) group.
const standingsLockNamespace = 0x5354414e // "STAN"

func lockStandingsGroup(ctx context.Context, tx pgx.Tx, leagueID int64, seasonYear int) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, hashtext($2))`,
		int32(standingsLockNamespace), fmt.Sprintf("%d:%d", leagueID, seasonYear))
	return err
}

func updateStandingsTx(ctx context.Context, tx pgx.Tx, leagueID int64, seasonYear int, homeID, awayID int64, homeScore, awayScore int) error {
	if err := lockStandingsGroup(ctx, tx, leagueID, seasonYear); err != nil {
		return err
	}
	for _, side := range []struct {
		teamID int64
		gf, ga int
	}{
		{homeID, homeScore, awayScore},
		{awayID, awayScore, homeScore},
	} {
		if err := upsertStandingTx(ctx, tx, leagueID, seasonYear, side.teamID, side.gf, side.ga); err != nil {
			return err
		}
	}
	return rerankTx(ctx, tx, leagueID, seasonYear)
}

func upsertStandingTx(ctx context.Context, tx pgx.Tx, leagueID int64, seasonYear int, teamID int64, gf, ga int) error {
	if _, err := tx.Exec(ctx, `
		INSERT INTO lolfm.league_standings (league_id, team_id, season_year)
		VALUES ($1, $2, $3)
		ON CONFLICT (league_id, team_id, season_year) DO NOTHING
	`, leagueID, teamID, seasonYear); err != nil {
		return err
	}
	st := Standing{LeagueID: leagueID, TeamID: teamID, SeasonYear: seasonYear}
	if err := tx.QueryRow(ctx, `
		SELECT wins, draws, losses, goals_for, goals_against
		FROM lolfm.league_standings
		WHERE league_id = $1 AND team_id = $2 AND season_year = $3
		FOR UPDATE
	`, leagueID, teamID, seasonYear).Scan(&st.Wins, &st.Draws, &st.Losses, &st.GoalsFor, &st.GoalsAgainst); err != nil {
		return err
	}
	st.ApplyResult(gf, ga)
	_, err := tx.Exec(ctx, `
		UPDATE lolfm.league_standings
		SET wins = $1, draws = $2, losses = $3, points = $4,
		    goals_for = $5, goals_against = $6, goal_difference = $7, updated_at = now()
		WHERE league_id = $8 AND team_id = $9 AND season_year = $10
	`, st.Wins, st.Draws, st.Losses, st.Points, st.GoalsFor, st.GoalsAgainst, st.GoalDifference, leagueID, teamID, seasonYear)
	return err
}

func rerankTx(ctx context.Context, tx pgx.Tx, leagueID int64, seasonYear int) error {
	rows, err := loadStandings(ctx, tx, leagueID, seasonYear)
	if err != nil {
		return err
	}
	RankStandings(rows)
	batch := &pgx.Batch{}
	for _, st := range rows {
		batch.Queue(`
			UPDATE lolfm.league_standings
			SET rank = $1
			WHERE league_id = $2 AND team_id = $3 AND season_year = $4 AND rank IS DISTINCT FROM $1
		`, st.Rank, leagueID, st.TeamID, seasonYear)
	}
	return tx.SendBatch(ctx, batch).Close()
}

// initStandingsTx clears the group and seeds every team at zero, ranked by team id.
func initStandingsTx(ctx context.Context, tx pgx.Tx, leagueID int64, seasonYear int, teamIDs []int64) error {
	if err := lockStandingsGroup(ctx, tx, leagueID, seasonYear); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM lolfm.league_standings
		WHERE league_id = $1 AND season_year = $2
	`, leagueID, seasonYear); err != nil {
		return err
	}
	for _, teamID := range teamIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO lolfm.league_standings (league_id, team_id, season_year)
			VALUES ($1, $2, $3)
		`, leagueID, teamID, seasonYear); err != nil {
			return err
		}
	}
	return rerankTx(ctx, tx, leagueID, seasonYear)
}

func loadStandings(ctx context.Context, q querier, leagueID int64, seasonYear int) ([]Standing, error) {
	rows, err := q.Query(ctx, `
		SELECT ls.team_id, t.name, ls.wins, ls.draws, ls.losses, ls.points,
		       ls.goals_for, ls.goals_against, ls.goal_difference, COALESCE(ls.rank, 0)
		FROM lolfm.league_standings ls
		JOIN lolfm.teams t ON t.id = ls.team_id
		WHERE ls.league_id = $1 AND ls.season_year = $2
		ORDER BY ls.team_id
	`, leagueID, seasonYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Standing
	for rows.Next() {
		st := Standing{LeagueID: leagueID, SeasonYear: seasonYear}
		if err := rows.Scan(&st.TeamID, &st.TeamName, &st.Wins, &st.Draws, &st.Losses, &st.Points,
			&st.GoalsFor, &st.GoalsAgainst, &st.GoalDifference, &st.Rank); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// Standings returns the table for a league season in rank order. seasonYear <= 0 means
// the season of the current game clock.
func (s *Service) Standings(ctx context.Context, leagueID int64, seasonYear int) ([]Standing, error) {
	if err := ensureLeague(ctx, s.db, leagueID); err != nil {
		return nil, err
	}
	if seasonYear <= 0 {
		clock, err := loadClock(ctx, s.db, false)
		if err != nil {
			return nil, err
		}
		seasonYear = clock.Year
	}
	rows, err := loadStandings(ctx, s.db, leagueID, seasonYear)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	return rows, nil
}
