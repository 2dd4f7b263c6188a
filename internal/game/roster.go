package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// lockActiveTeam loads the team for update and rejects frozen teams.
func lockActiveTeam(ctx context.Context, tx pgx.Tx, teamID int64) (Team, error) {
	team, err := loadTeam(ctx, tx, teamID, true)
	if err != nil {
		return team, err
	}
	if team.IsGameOver {
		return team, ErrTeamGameOver
	}
	return team, nil
}

func loadTeamPlayer(ctx context.Context, tx pgx.Tx, teamID, playerID int64) (Player, error) {
	p, err := scanPlayer(tx.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM lolfm.players
		WHERE id = $1 AND team_id = $2
		FOR UPDATE
	`, playerID, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return p, fmt.Errorf("%w %d on team %d", ErrPlayerNotFound, playerID, teamID)
	}
	return p, err
}

func insertLedgerEntry(ctx context.Context, tx pgx.Tx, teamID int64, recordType string, amount int64, description string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO lolfm.financial_records (team_id, entry_group, record_type, amount, description, breakdown)
		VALUES ($1, $2, $3, $4, $5, '{}'::jsonb)
	`, teamID, uuid.New(), recordType, amount, description)
	return err
}

// ReleasePlayer turns a rostered player into a free agent.
func (s *Service) ReleasePlayer(ctx context.Context, teamID, playerID int64) error {
	return s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		if _, err := lockActiveTeam(ctx, tx, teamID); err != nil {
			return err
		}
		if _, err := loadTeamPlayer(ctx, tx, teamID, playerID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE lolfm.players
			SET team_id = NULL, salary = 0, updated_at = now()
			WHERE id = $1
		`, playerID)
		return err
	})
}

// checkSigning decides whether a player can join a roster of rosterSize players.
func checkSigning(p Player, rosterSize int) error {
	if p.TeamID != nil {
		return ErrNotFreeAgent
	}
	if rosterSize >= MaxRosterSize {
		return ErrRosterFull
	}
	return nil
}

func validateSalary(salary int64) error {
	if salary <= 0 || salary > MaxSalary {
		return fmt.Errorf("%w: salary must be between 1 and %d", ErrValidation, MaxSalary)
	}
	return nil
}

// FreeAgents lists unattached players, best overall first.
func (s *Service) FreeAgents(ctx context.Context, limit int) ([]Player, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+playerColumns+`
		FROM lolfm.players
		WHERE team_id IS NULL
		ORDER BY overall DESC, id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SignFreeAgent puts a released player under contract. Signing costs nothing up front: the
// salary is charged from the next settlement on, so a team that just restructured with no
// money can still rebuild its roster.
func (s *Service) SignFreeAgent(ctx context.Context, teamID, playerID, salary int64) (Player, error) {
	if err := validateSalary(salary); err != nil {
		return Player{}, err
	}
	var out Player
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		if _, err := lockActiveTeam(ctx, tx, teamID); err != nil {
			return err
		}
		p, err := scanPlayer(tx.QueryRow(ctx, `
			SELECT `+playerColumns+`
			FROM lolfm.players
			WHERE id = $1
			FOR UPDATE
		`, playerID))
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w %d", ErrPlayerNotFound, playerID)
		}
		if err != nil {
			return err
		}
		var rosterSize int
		if err := tx.QueryRow(ctx, `SELECT COUNT(1) FROM lolfm.players WHERE team_id = $1`, teamID).Scan(&rosterSize); err != nil {
			return err
		}
		if err := checkSigning(p, rosterSize); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE lolfm.players
			SET team_id = $1, salary = $2, updated_at = now()
			WHERE id = $3
		`, teamID, salary, playerID); err != nil {
			return err
		}
		if err := insertLedgerEntry(ctx, tx, teamID, "SIGNING", 0,
			fmt.Sprintf("signed %s at %d per month", p.Name, salary)); err != nil {
			return err
		}
		p.TeamID = &teamID
		p.Salary = salary
		out = p
		return nil
	})
	return out, err
}

// RenewContract sets a new salary. Contracts only move during the stove league.
func (s *Service) RenewContract(ctx context.Context, teamID, playerID, salary int64) (Player, error) {
	if err := validateSalary(salary); err != nil {
		return Player{}, err
	}
	var out Player
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		clock, err := loadClock(ctx, tx, false)
		if err != nil {
			return err
		}
		if !clock.IsStoveLeague {
			return ErrStoveLeagueClosed
		}
		if _, err := lockActiveTeam(ctx, tx, teamID); err != nil {
			return err
		}
		p, err := loadTeamPlayer(ctx, tx, teamID, playerID)
		if err != nil {
			return err
		}
		p.Salary = salary
		if _, err := tx.Exec(ctx, `
			UPDATE lolfm.players
			SET salary = $1, updated_at = now()
			WHERE id = $2
		`, salary, playerID); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// TrainPlayer runs one paid session. The gain scales with the training center level and the
// player loses condition; overall is recomputed from the new stats.
func (s *Service) TrainPlayer(ctx context.Context, teamID, playerID int64, training Training) (TrainingResult, error) {
	var out TrainingResult
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		team, err := lockActiveTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		if team.Money < TrainingCost {
			return ErrInsufficientFunds
		}
		p, err := loadTeamPlayer(ctx, tx, teamID, playerID)
		if err != nil {
			return err
		}
		facilities, err := loadFacilities(ctx, tx, teamID)
		if err != nil {
			return err
		}

		stats := training.Apply(p.Stats, TrainingGain(facilities[FacilityTrainingCenter]))
		overall := Overall(p.Position, stats)
		condition := clampInt(p.Condition-TrainingWear, 0, 100)
		if _, err := tx.Exec(ctx, `
			UPDATE lolfm.players
			SET mechanics = $1, laning = $2, teamfight = $3, vision = $4, decision = $5,
			    overall = $6, condition = $7, updated_at = now()
			WHERE id = $8
		`, stats.Mechanics, stats.Laning, stats.Teamfight, stats.Vision, stats.Decision, overall, condition, playerID); err != nil {
			return err
		}
		balance := team.Money - TrainingCost
		if _, err := tx.Exec(ctx, `UPDATE lolfm.teams SET money = $1, updated_at = now() WHERE id = $2`, balance, teamID); err != nil {
			return err
		}
		if err := insertLedgerEntry(ctx, tx, teamID, "TRAINING", TrainingCost,
			fmt.Sprintf("%s training for %s", strings.ToLower(string(training)), p.Name)); err != nil {
			return err
		}
		out = TrainingResult{PlayerID: playerID, Stats: stats, Overall: overall, Condition: condition, Balance: balance}
		return nil
	})
	return out, err
}

// UpgradeFacility raises one facility a level, paying the level's one-off cost.
func (s *Service) UpgradeFacility(ctx context.Context, teamID int64, facility FacilityType) (FacilityUpgradeResult, error) {
	var out FacilityUpgradeResult
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		team, err := lockActiveTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		facilities, err := loadFacilities(ctx, tx, teamID)
		if err != nil {
			return err
		}
		next := facilities[facility] + 1
		if next > MaxFacilityLevel {
			return ErrFacilityMaxed
		}
		cost := FacilityUpgradeCost(facility, next)
		if team.Money < cost {
			return ErrInsufficientFunds
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO lolfm.facilities (team_id, facility_type, level)
			VALUES ($1, $2, $3)
			ON CONFLICT (team_id, facility_type)
			DO UPDATE SET level = EXCLUDED.level, updated_at = now()
		`, teamID, string(facility), next); err != nil {
			return err
		}
		balance := team.Money - cost
		if _, err := tx.Exec(ctx, `UPDATE lolfm.teams SET money = $1, updated_at = now() WHERE id = $2`, balance, teamID); err != nil {
			return err
		}
		if err := insertLedgerEntry(ctx, tx, teamID, "FACILITY_UPGRADE", cost,
			fmt.Sprintf("%s upgraded to level %d", strings.ToLower(string(facility)), next)); err != nil {
			return err
		}
		out = FacilityUpgradeResult{Facility: facility, Level: next, Cost: cost, Balance: balance}
		return nil
	})
	return out, err
}

// SignSponsorship attaches a sponsor to the team. A deal pays its amount once, on signing;
// settlement never credits it again. The active deal only blocks a second signing until
// restructuring or game over cancels it.
func (s *Service) SignSponsorship(ctx context.Context, teamID int64, sponsor string, amount int64) error {
	sponsor = strings.TrimSpace(sponsor)
	if err := validateEntityName(sponsor); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: signing amount must be positive", ErrValidation)
	}
	return s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		team, err := lockActiveTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		var active bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM lolfm.sponsorships WHERE team_id = $1 AND status = 'active')
		`, teamID).Scan(&active); err != nil {
			return err
		}
		if active {
			return ErrSponsorshipActive
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO lolfm.sponsorships (team_id, sponsor_name, signing_amount, status)
			VALUES ($1, $2, $3, 'active')
		`, teamID, sponsor, amount); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE lolfm.teams SET money = $1, updated_at = now() WHERE id = $2`, team.Money+amount, teamID); err != nil {
			return err
		}
		return insertLedgerEntry(ctx, tx, teamID, "SPONSORSHIP", amount, "signing payment from "+sponsor)
	})
}
