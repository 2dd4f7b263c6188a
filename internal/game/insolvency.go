package game

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/jackc/pgx/v5"
)

type InsolvencyAction string

const (
	ActionRestructure InsolvencyAction = "RESTRUCTURING"
	ActionGameOver    InsolvencyAction = "GAME_OVER"
)

// restructureReleases is how many of the best-paid players a restructuring lets go.
const restructureReleases = 2

// restructureFacilities lose one level on restructuring, never below level 1.
var restructureFacilities = []FacilityType{FacilityStadium, FacilityDormitory}

type ReleasedPlayer struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Salary int64  `json:"salary"`
}

// InsolvencyPlan is everything an insolvent team loses, decided before anything is written.
type InsolvencyPlan struct {
	Action             InsolvencyAction     `json:"action"`
	Released           []ReleasedPlayer     `json:"released"`
	SalarySaved        int64                `json:"salary_saved"`
	DebtForgiven       int64                `json:"debt_forgiven"`
	FacilityLevels     map[FacilityType]int `json:"facility_levels,omitempty"`
	Fans               int                  `json:"fans"`
	Money              int64                `json:"money"`
	RestructuringCount int                  `json:"restructuring_count"`
}

// PlanInsolvency decides between restructuring and game over for a team whose balance went
// negative. A team may restructure while it has fewer than MaxRestructurings behind it and
// is not mid-restructuring; otherwise the team is finished.
func PlanInsolvency(team Team, roster []Player, facilities map[FacilityType]int) InsolvencyPlan {
	byPay := make([]Player, len(roster))
	copy(byPay, roster)
	sort.SliceStable(byPay, func(i, j int) bool {
		if byPay[i].Salary != byPay[j].Salary {
			return byPay[i].Salary > byPay[j].Salary
		}
		return byPay[i].ID < byPay[j].ID
	})

	if team.RestructuringCount >= MaxRestructurings || team.IsRestructuring {
		plan := InsolvencyPlan{
			Action:             ActionGameOver,
			Fans:               team.Fans,
			Money:              team.Money,
			RestructuringCount: team.RestructuringCount,
		}
		for _, p := range byPay {
			plan.Released = append(plan.Released, ReleasedPlayer{ID: p.ID, Name: p.Name, Salary: p.Salary})
			plan.SalarySaved += p.Salary
		}
		return plan
	}

	plan := InsolvencyPlan{
		Action:             ActionRestructure,
		Fans:               team.Fans / 2,
		Money:              0,
		RestructuringCount: team.RestructuringCount + 1,
		FacilityLevels:     make(map[FacilityType]int),
	}
	if team.Money < 0 {
		plan.DebtForgiven = -team.Money
	}
	for i, p := range byPay {
		if i == restructureReleases {
			break
		}
		plan.Released = append(plan.Released, ReleasedPlayer{ID: p.ID, Name: p.Name, Salary: p.Salary})
		plan.SalarySaved += p.Salary
	}
	for _, ft := range restructureFacilities {
		if level, ok := facilities[ft]; ok && level > 1 {
			plan.FacilityLevels[ft] = level - 1
		}
	}
	return plan
}

func (p InsolvencyPlan) releasedIDs() []int64 {
	ids := make([]int64, 0, len(p.Released))
	for _, r := range p.Released {
		ids = append(ids, r.ID)
	}
	return ids
}

// applyInsolvencyTx writes the plan inside the caller's settlement transaction.
func applyInsolvencyTx(ctx context.Context, tx pgx.Tx, teamID int64, plan InsolvencyPlan) error {
	if plan.Action == ActionRestructure {
		if _, err := tx.Exec(ctx, `
			UPDATE lolfm.teams
			SET is_restructuring = true, restructuring_count = $1, updated_at = now()
			WHERE id = $2
		`, plan.RestructuringCount, teamID); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
			UPDATE lolfm.teams
			SET is_game_over = true, updated_at = now()
			WHERE id = $1
		`, teamID); err != nil {
			return err
		}
	}

	if len(plan.Released) > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE lolfm.players
			SET team_id = NULL, salary = 0, updated_at = now()
			WHERE team_id = $1 AND id = ANY($2)
		`, teamID, plan.releasedIDs()); err != nil {
			return err
		}
	}
	for ft, level := range plan.FacilityLevels {
		if _, err := tx.Exec(ctx, `
			UPDATE lolfm.facilities
			SET level = $1, updated_at = now()
			WHERE team_id = $2 AND facility_type = $3
		`, level, teamID, string(ft)); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `
		UPDATE lolfm.sponsorships
		SET status = 'cancelled', cancelled_at = now()
		WHERE team_id = $1 AND status = 'active'
	`, teamID); err != nil {
		return err
	}

	released, err := json.Marshal(plan.Released)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO lolfm.bankruptcy_events (team_id, event_type, released_players, salary_saved, debt_forgiven, restructuring_count)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6)
	`, teamID, string(plan.Action), string(released), plan.SalarySaved, plan.DebtForgiven, plan.RestructuringCount); err != nil {
		return err
	}

	if plan.Action == ActionRestructure {
		_, err = tx.Exec(ctx, `
			UPDATE lolfm.teams
			SET fans = $1, money = $2, is_restructuring = false, updated_at = now()
			WHERE id = $3
		`, plan.Fans, plan.Money, teamID)
	}
	return err
}
