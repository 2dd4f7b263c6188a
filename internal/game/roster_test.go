package game

import (
	"errors"
	"testing"
)

func withIDs(players []Player, first int64) []Player {
	for i := range players {
		players[i].ID = first + int64(i)
	}
	return players
}

func TestCheckSigning(t *testing.T) {
	other := int64(9)
	tests := []struct {
		name       string
		player     Player
		rosterSize int
		want       error
	}{
		{"free agent into short roster", Player{ID: 1}, 4, nil},
		{"free agent into last slot", Player{ID: 1}, MaxRosterSize - 1, nil},
		{"roster full", Player{ID: 1}, MaxRosterSize, ErrRosterFull},
		{"under contract", Player{ID: 1, TeamID: &other}, 3, ErrNotFreeAgent},
	}
	for _, tc := range tests {
		err := checkSigning(tc.player, tc.rosterSize)
		if !errors.Is(err, tc.want) || (tc.want == nil && err != nil) {
			t.Fatalf("%s: got %v want %v", tc.name, err, tc.want)
		}
		if err != nil && !errors.Is(err, ErrPrecondition) {
			t.Fatalf("%s: signing errors must be preconditions, got %v", tc.name, err)
		}
	}
}

func TestValidateSalary(t *testing.T) {
	for _, salary := range []int64{0, -1, MaxSalary + 1} {
		if err := validateSalary(salary); !errors.Is(err, ErrValidation) {
			t.Fatalf("salary %d: expected validation error, got %v", salary, err)
		}
	}
	if err := validateSalary(MaxSalary); err != nil {
		t.Fatalf("max salary rejected: %v", err)
	}
}

func TestRestructuredTeamCanRebuildThroughFreeAgency(t *testing.T) {
	roster := withIDs(generateRoster(0), 1)
	plan := PlanInsolvency(Team{ID: 1, Money: -1}, roster, nil)
	if plan.Action != ActionRestructure {
		t.Fatalf("action=%s want restructuring", plan.Action)
	}
	released := make(map[int64]bool)
	for _, r := range plan.Released {
		released[r.ID] = true
	}
	var kept []Player
	for _, p := range roster {
		if !released[p.ID] {
			kept = append(kept, p)
		}
	}
	if _, err := TeamPower(kept); !errors.Is(err, ErrInsufficientRoster) {
		t.Fatalf("expected the restructured roster to be short, got %v", err)
	}

	for _, agent := range withIDs(generateRoster(5), 100) {
		if len(kept) >= RosterSize {
			break
		}
		if err := checkSigning(agent, len(kept)); err != nil {
			t.Fatalf("sign %d: %v", agent.ID, err)
		}
		kept = append(kept, agent)
	}
	if _, err := TeamPower(kept); err != nil {
		t.Fatalf("rebuilt roster still cannot play: %v", err)
	}
}
