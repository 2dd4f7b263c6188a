package game

import (
	"context"
	"encoding/json"
	"fmt"

	"lolfm/internal/notify"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Maintenance struct {
	Facilities map[FacilityType]int64 `json:"facilities"`
	Salaries   int64                  `json:"salaries"`
	Total      int64                  `json:"total"`
}

// ComputeMaintenance prices one month of upkeep. A facility the team does not own costs nothing.
func ComputeMaintenance(levels map[FacilityType]int, salaries []int64) Maintenance {
	m := Maintenance{Facilities: make(map[FacilityType]int64, len(FacilityTypes))}
	for _, ft := range FacilityTypes {
		cost := FacilityMaintenance(ft, levels[ft])
		m.Facilities[ft] = cost
		m.Total += cost
	}
	for _, salary := range salaries {
		m.Salaries += salary
	}
	m.Total += m.Salaries
	return m
}

type Settlement struct {
	TeamID         int64           `json:"team_id"`
	Period         int             `json:"period"`
	BalanceBefore  int64           `json:"balance_before"`
	Balance        int64           `json:"balance"`
	Maintenance    Maintenance     `json:"maintenance"`
	Skipped        bool            `json:"skipped,omitempty"`
	AlreadySettled bool            `json:"already_settled,omitempty"`
	Insolvency     *InsolvencyPlan `json:"insolvency,omitempty"`
}

func salariesOf(roster []Player) []int64 {
	out := make([]int64, 0, len(roster))
	for _, p := range roster {
		out = append(out, p.Salary)
	}
	return out
}

// settleGuard reports whether a settlement for period must leave the team alone: frozen
// teams are skipped, and a team already charged for period is not charged twice.
func settleGuard(team Team, period int) (skipped, alreadySettled bool) {
	if team.IsGameOver {
		return true, false
	}
	return false, team.LastSettledPeriod >= period
}

// settleBalance deducts one month of maintenance. A negative result is insolvent; a
// non-negative result that could not cover another month draws a warning.
func settleBalance(money int64, m Maintenance) (balance int64, insolvent, warn bool) {
	balance = money - m.Total
	return balance, balance < 0, balance >= 0 && balance < m.Total
}

// SettleTeam charges one month of maintenance for the current clock period. Deduction,
// ledger entry and any insolvency cascade commit together. A game-over team is skipped and
// a team already charged for this period is left alone.
func (s *Service) SettleTeam(ctx context.Context, teamID int64) (Settlement, error) {
	var out Settlement
	var events []notify.Event
	err := s.withTx(ctx, pgx.Serializable, func(tx pgx.Tx) error {
		out = Settlement{TeamID: teamID}
		events = nil

		clock, err := loadClock(ctx, tx, false)
		if err != nil {
			return err
		}
		out.Period = clock.Period()
		team, err := loadTeam(ctx, tx, teamID, true)
		if err != nil {
			return err
		}
		out.BalanceBefore, out.Balance = team.Money, team.Money
		if out.Skipped, out.AlreadySettled = settleGuard(team, out.Period); out.Skipped || out.AlreadySettled {
			return nil
		}

		facilities, err := loadFacilities(ctx, tx, teamID)
		if err != nil {
			return err
		}
		roster, err := loadRoster(ctx, tx, teamID, true)
		if err != nil {
			return err
		}
		out.Maintenance = ComputeMaintenance(facilities, salariesOf(roster))
		balance, insolvent, warn := settleBalance(team.Money, out.Maintenance)

		if _, err := tx.Exec(ctx, `
			UPDATE lolfm.teams
			SET money = $1, last_settled_period = $2, updated_at = now()
			WHERE id = $3
		`, balance, out.Period, teamID); err != nil {
			return err
		}
		if out.Maintenance.Total != 0 {
			if err := insertMaintenanceRecord(ctx, tx, teamID, clock, out.Maintenance); err != nil {
				return err
			}
		}
		out.Balance = balance

		switch {
		case insolvent:
			team.Money = balance
			plan := PlanInsolvency(team, roster, facilities)
			if err := applyInsolvencyTx(ctx, tx, teamID, plan); err != nil {
				return fmt.Errorf("insolvency: %w", err)
			}
			out.Insolvency = &plan
			out.Balance = plan.Money
			evType := notify.Restructuring
			if plan.Action == ActionGameOver {
				evType = notify.GameOver
			}
			events = append(events, notify.NewEvent(evType, teamID, team.OwnerUserID, map[string]any{
				"period":              out.Period,
				"deficit":             -balance,
				"released_players":    len(plan.Released),
				"salary_saved":        plan.SalarySaved,
				"restructuring_count": plan.RestructuringCount,
			}))
		case warn:
			events = append(events, notify.NewEvent(notify.FinancialWarning, teamID, team.OwnerUserID, map[string]any{
				"period":      out.Period,
				"balance":     balance,
				"maintenance": out.Maintenance.Total,
			}))
		}
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("settle team %d: %w", teamID, err)
	}
	s.publish(ctx, events...)
	return out, nil
}

func insertMaintenanceRecord(ctx context.Context, tx pgx.Tx, teamID int64, clock Clock, m Maintenance) error {
	breakdown, err := json.Marshal(map[string]any{
		"month":      clock.Month,
		"year":       clock.Year,
		"facilities": m.Facilities,
		"salaries":   m.Salaries,
		"total":      m.Total,
	})
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO lolfm.financial_records (team_id, entry_group, record_type, amount, description, breakdown)
		VALUES ($1, $2, 'MAINTENANCE', $3, $4, $5::jsonb)
	`, teamID, uuid.New(), m.Total, fmt.Sprintf("Monthly maintenance %04d-%02d", clock.Year, clock.Month), string(breakdown))
	return err
}
