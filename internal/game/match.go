package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lolfm/internal/notify"

	"github.com/jackc/pgx/v5"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	OutcomeLoss Outcome = "loss"
)

func OutcomeFor(scored, conceded int) Outcome {
	switch {
	case scored > conceded:
		return OutcomeWin
	case scored < conceded:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

type StatsEffect struct {
	Reputation int
	Fans       int
}

var statsEffects = map[Outcome]StatsEffect{
	OutcomeWin:  {Reputation: 3, Fans: 500},
	OutcomeDraw: {Reputation: 1, Fans: 150},
	OutcomeLoss: {Reputation: 0, Fans: -200},
}

// ApplyStatsEffect returns fans and reputation after a result. Fans never drop below zero.
func ApplyStatsEffect(fans, reputation int, o Outcome) (int, int) {
	e := statsEffects[o]
	fans += e.Fans
	if fans < 0 {
		fans = 0
	}
	return fans, reputation + e.Reputation
}

// forfeitScore settles a fixture where a side can no longer play. A frozen team loses 2-0
// to a surviving opponent; when both are frozen the fixture cannot be played at all.
func forfeitScore(home, away Team) (homeScore, awayScore int, forfeit bool, err error) {
	switch {
	case home.IsGameOver && away.IsGameOver:
		return 0, 0, false, ErrTeamGameOver
	case home.IsGameOver:
		return 0, SeriesWinsRequired, true, nil
	case away.IsGameOver:
		return SeriesWinsRequired, 0, true, nil
	}
	return 0, 0, false, nil
}

// HomeWinChance is the home side's chance of taking a single game, home power boosted by
// HomeAdvantage.
func HomeWinChance(homePower, awayPower float64) float64 {
	adjusted := homePower * HomeAdvantage
	total := adjusted + awayPower
	if total <= 0 {
		return 0.5
	}
	return adjusted / total
}

// ResolveSeries plays games until one side has SeriesWinsRequired wins. A roll below
// homeWinChance goes to the home side.
func ResolveSeries(homeWinChance float64, roll func() float64) (home, away int) {
	for home < SeriesWinsRequired && away < SeriesWinsRequired {
		if roll() < homeWinChance {
			home++
		} else {
			away++
		}
	}
	return home, away
}

func (s *Service) SimulateMatch(ctx context.Context, matchID int64) (MatchResult, error) {
	var out MatchResult
	var events []notify.Event
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		out = MatchResult{MatchID: matchID}
		events = nil

		var m MatchView
		var status string
		err := tx.QueryRow(ctx, `
			SELECT league_id, season_year, home_team_id, away_team_id, status, home_score, away_score, forfeit
			FROM lolfm.matches
			WHERE id = $1
			FOR UPDATE
		`, matchID).Scan(&m.LeagueID, &m.SeasonYear, &m.HomeTeamID, &m.AwayTeamID, &status, &m.HomeScore, &m.AwayScore, &m.Forfeit)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w %d", ErrMatchNotFound, matchID)
		}
		if err != nil {
			return err
		}
		out.HomeTeamID, out.AwayTeamID = m.HomeTeamID, m.AwayTeamID
		if MatchStatus(status) == MatchCompleted {
			out.HomeScore, out.AwayScore = m.HomeScore, m.AwayScore
			out.Forfeit = m.Forfeit
			out.AlreadyCompleted = true
			return nil
		}

		home, away, err := lockTeamPair(ctx, tx, m.HomeTeamID, m.AwayTeamID)
		if err != nil {
			return err
		}
		hs, as, forfeit, err := forfeitScore(home, away)
		if err != nil {
			return err
		}
		if forfeit {
			out.Forfeit = true
			out.HomeScore, out.AwayScore = hs, as
		} else {
			homeRoster, err := loadRoster(ctx, tx, home.ID, false)
			if err != nil {
				return err
			}
			awayRoster, err := loadRoster(ctx, tx, away.ID, false)
			if err != nil {
				return err
			}
			if out.HomePower, err = TeamPower(homeRoster); err != nil {
				return fmt.Errorf("home team %d: %w", home.ID, err)
			}
			if out.AwayPower, err = TeamPower(awayRoster); err != nil {
				return fmt.Errorf("away team %d: %w", away.ID, err)
			}
			out.HomeWinChance = HomeWinChance(out.HomePower, out.AwayPower)
			out.HomeScore, out.AwayScore = ResolveSeries(out.HomeWinChance, s.nextFloat)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE lolfm.matches
			SET status = 'completed', home_score = $1, away_score = $2, forfeit = $3, completed_at = now()
			WHERE id = $4
		`, out.HomeScore, out.AwayScore, out.Forfeit, matchID); err != nil {
			return err
		}
		if m.LeagueID != nil {
			if err := updateStandingsTx(ctx, tx, *m.LeagueID, m.SeasonYear, home.ID, away.ID, out.HomeScore, out.AwayScore); err != nil {
				return err
			}
		}
		for _, side := range []struct {
			team             Team
			scored, conceded int
		}{
			{home, out.HomeScore, out.AwayScore},
			{away, out.AwayScore, out.HomeScore},
		} {
			if side.team.IsGameOver {
				continue
			}
			outcome := OutcomeFor(side.scored, side.conceded)
			fans, rep := ApplyStatsEffect(side.team.Fans, side.team.Reputation, outcome)
			if _, err := tx.Exec(ctx, `
				UPDATE lolfm.teams
				SET fans = $1, reputation = $2, updated_at = now()
				WHERE id = $3
			`, fans, rep, side.team.ID); err != nil {
				return err
			}
			events = append(events, notify.NewEvent(notify.MatchResult, side.team.ID, side.team.OwnerUserID, map[string]any{
				"match_id": matchID,
				"outcome":  string(outcome),
				"scored":   side.scored,
				"conceded": side.conceded,
			}))
		}
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("simulate match %d: %w", matchID, err)
	}
	s.publish(ctx, events...)
	return out, nil
}

// lockTeamPair locks both teams in id order so concurrent matches cannot deadlock on them.
func lockTeamPair(ctx context.Context, tx pgx.Tx, homeID, awayID int64) (Team, Team, error) {
	first, second := homeID, awayID
	if second < first {
		first, second = second, first
	}
	a, err := loadTeam(ctx, tx, first, true)
	if err != nil {
		return Team{}, Team{}, err
	}
	b, err := loadTeam(ctx, tx, second, true)
	if err != nil {
		return Team{}, Team{}, err
	}
	if a.ID == homeID {
		return a, b, nil
	}
	return b, a, nil
}

// CreateExhibition schedules a league-less match for today. It never touches standings.
func (s *Service) CreateExhibition(ctx context.Context, homeTeamID, awayTeamID int64) (int64, error) {
	if homeTeamID == awayTeamID {
		return 0, fmt.Errorf("%w: a team cannot play itself", ErrValidation)
	}
	var matchID int64
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		home, away, err := lockTeamPair(ctx, tx, homeTeamID, awayTeamID)
		if err != nil {
			return err
		}
		if home.IsGameOver || away.IsGameOver {
			return ErrTeamGameOver
		}
		clock, err := loadClock(ctx, tx, false)
		if err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			INSERT INTO lolfm.matches (league_id, season_year, home_team_id, away_team_id, match_date, status)
			VALUES (NULL, $1, $2, $3, $4, 'scheduled')
			RETURNING id
		`, clock.Year, homeTeamID, awayTeamID, time.Now().UTC().Truncate(24*time.Hour)).Scan(&matchID)
	})
	return matchID, err
}

func (s *Service) LeagueMatches(ctx context.Context, leagueID int64, seasonYear int) ([]MatchView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, league_id, season_year, home_team_id, away_team_id, match_date, status, home_score, away_score, forfeit, completed_at
		FROM lolfm.matches
		WHERE league_id = $1 AND season_year = $2
		ORDER BY match_date, id
	`, leagueID, seasonYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MatchView
	for rows.Next() {
		var m MatchView
		var status string
		if err := rows.Scan(&m.ID, &m.LeagueID, &m.SeasonYear, &m.HomeTeamID, &m.AwayTeamID, &m.MatchDate, &status,
			&m.HomeScore, &m.AwayScore, &m.Forfeit, &m.CompletedAt); err != nil {
			return nil, err
		}
		m.Status = MatchStatus(status)
		out = append(out, m)
	}
	return out, rows.Err()
}
