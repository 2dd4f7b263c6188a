package game

import "testing"

func insolventRoster() []Player {
	return []Player{
		{ID: 1, Name: "A", Salary: 4_000_000},
		{ID: 2, Name: "B", Salary: 9_000_000},
		{ID: 3, Name: "C", Salary: 6_000_000},
		{ID: 4, Name: "D", Salary: 6_000_000},
		{ID: 5, Name: "E", Salary: 2_000_000},
	}
}

func TestPlanInsolvencyRestructures(t *testing.T) {
	team := Team{ID: 1, Money: -5_000_000, Fans: 1001, RestructuringCount: 0}
	facilities := map[FacilityType]int{FacilityStadium: 3, FacilityDormitory: 1, FacilityTrainingCenter: 4}

	plan := PlanInsolvency(team, insolventRoster(), facilities)
	if plan.Action != ActionRestructure {
		t.Fatalf("action=%s want restructuring", plan.Action)
	}
	if plan.Money != 0 || plan.DebtForgiven != 5_000_000 {
		t.Fatalf("money=%d forgiven=%d", plan.Money, plan.DebtForgiven)
	}
	if plan.RestructuringCount != 1 {
		t.Fatalf("count=%d want 1", plan.RestructuringCount)
	}
	if plan.Fans != 500 {
		t.Fatalf("fans=%d want 500", plan.Fans)
	}
	// 9M, then the 6M tie goes to the lower id
	if len(plan.Released) != 2 || plan.Released[0].ID != 2 || plan.Released[1].ID != 3 {
		t.Fatalf("released %+v want players 2 and 3", plan.Released)
	}
	if plan.SalarySaved != 15_000_000 {
		t.Fatalf("salary saved=%d", plan.SalarySaved)
	}
	if plan.FacilityLevels[FacilityStadium] != 2 {
		t.Fatalf("stadium=%d want 2", plan.FacilityLevels[FacilityStadium])
	}
	if _, ok := plan.FacilityLevels[FacilityDormitory]; ok {
		t.Fatalf("dormitory at level 1 must not drop")
	}
	if _, ok := plan.FacilityLevels[FacilityTrainingCenter]; ok {
		t.Fatalf("training center is not part of restructuring")
	}
}

func TestPlanInsolvencyExhausted(t *testing.T) {
	team := Team{ID: 1, Money: -5_000_000, Fans: 800, RestructuringCount: MaxRestructurings}
	plan := PlanInsolvency(team, insolventRoster(), nil)
	if plan.Action != ActionGameOver {
		t.Fatalf("action=%s want game over", plan.Action)
	}
	if len(plan.Released) != 5 {
		t.Fatalf("released %d players want all 5", len(plan.Released))
	}
	if plan.Money != -5_000_000 || plan.DebtForgiven != 0 {
		t.Fatalf("game over must not forgive debt: money=%d forgiven=%d", plan.Money, plan.DebtForgiven)
	}
	if plan.RestructuringCount != MaxRestructurings || plan.Fans != 800 {
		t.Fatalf("count=%d fans=%d", plan.RestructuringCount, plan.Fans)
	}
}

func TestPlanInsolvencyWhileRestructuring(t *testing.T) {
	team := Team{ID: 1, Money: -1, RestructuringCount: 1, IsRestructuring: true}
	if plan := PlanInsolvency(team, insolventRoster(), nil); plan.Action != ActionGameOver {
		t.Fatalf("action=%s want game over", plan.Action)
	}
}

func TestPlanInsolvencySmallRoster(t *testing.T) {
	team := Team{ID: 1, Money: -10, RestructuringCount: 2}
	plan := PlanInsolvency(team, []Player{{ID: 7, Salary: 1}}, nil)
	if plan.Action != ActionRestructure || len(plan.Released) != 1 {
		t.Fatalf("plan=%+v", plan)
	}
	if plan.RestructuringCount != 3 {
		t.Fatalf("count=%d want 3", plan.RestructuringCount)
	}
}
