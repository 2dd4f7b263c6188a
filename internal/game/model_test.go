package game

import (
	"errors"
	"testing"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want Position
	}{
		{"top", PositionTop},
		{" Jungle ", PositionJungle},
		{"MID", PositionMid},
		{"bot", PositionADC},
		{"support", PositionSupport},
	}
	for _, tc := range tests {
		got, err := ParsePosition(tc.in)
		if err != nil {
			t.Fatalf("ParsePosition(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePosition(%q) = %s want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParsePosition("coach"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseFacilityAndTraining(t *testing.T) {
	if ft, err := ParseFacilityType("training_center"); err != nil || ft != FacilityTrainingCenter {
		t.Fatalf("got %q, %v", ft, err)
	}
	if _, err := ParseFacilityType("casino"); !errors.Is(err, ErrUnknownFacility) {
		t.Fatalf("expected ErrUnknownFacility, got %v", err)
	}
	if tr, err := ParseTraining("Vision"); err != nil || tr != TrainingVision {
		t.Fatalf("got %q, %v", tr, err)
	}
	if _, err := ParseTraining("cardio"); !errors.Is(err, ErrUnknownTraining) {
		t.Fatalf("expected ErrUnknownTraining, got %v", err)
	}
}

func TestTrainingApplyClampsAtMax(t *testing.T) {
	s := Stats{Mechanics: 99, Laning: 50, Teamfight: 50, Vision: 50, Decision: 50}
	got := TrainingMechanics.Apply(s, TrainingGain(5))
	if got.Mechanics != StatMax {
		t.Fatalf("mechanics=%d want %d", got.Mechanics, StatMax)
	}
	if got.Laning != 50 {
		t.Fatalf("training must touch one stat only, laning=%d", got.Laning)
	}
}

func TestTrainingGain(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 2}, {5, 3},
	}
	for _, tc := range tests {
		if got := TrainingGain(tc.level); got != tc.want {
			t.Fatalf("level=%d got=%d want=%d", tc.level, got, tc.want)
		}
	}
}

func TestFacilityMaintenanceBounds(t *testing.T) {
	if got := FacilityMaintenance(FacilityStadium, 0); got != 0 {
		t.Fatalf("level 0 got %d want 0", got)
	}
	if got := FacilityMaintenance(FacilityType("ARCADE"), 3); got != 0 {
		t.Fatalf("unknown facility got %d want 0", got)
	}
	if got, want := FacilityMaintenance(FacilityStadium, 9), FacilityMaintenance(FacilityStadium, MaxFacilityLevel); got != want {
		t.Fatalf("over max got %d want %d", got, want)
	}
	if got := FacilityUpgradeCost(FacilityDormitory, 2); got != 20_000_000 {
		t.Fatalf("upgrade cost got %d want 20000000", got)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrInsufficientRoster, ErrPrecondition},
		{ErrInsufficientTeams, ErrPrecondition},
		{ErrStoveLeagueClosed, ErrPrecondition},
		{ErrTeamNotFound, ErrNotFound},
		{ErrUnknownPosition, ErrValidation},
		{ErrTeamGameOver, ErrTerminalState},
		{ErrTxConflict, ErrConflict},
		{ErrClockLeaseHeld, ErrConflict},
	}
	for _, tc := range tests {
		if !errors.Is(tc.err, tc.kind) {
			t.Fatalf("%v does not wrap %v", tc.err, tc.kind)
		}
	}
}

func TestValidateEntityName(t *testing.T) {
	if err := validateEntityName("Azure Drakes"); err != nil {
		t.Fatalf("expected valid name: %v", err)
	}
	if err := validateEntityName("   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected blank name to fail, got %v", err)
	}
}

func TestGenerateRosterIsPlayable(t *testing.T) {
	roster := generateRoster(14)
	if len(roster) != RosterSize+1 {
		t.Fatalf("roster size %d want %d", len(roster), RosterSize+1)
	}
	for _, p := range roster {
		if p.Overall != Overall(p.Position, p.Stats) {
			t.Fatalf("%s overall %d not derived from stats", p.Name, p.Overall)
		}
		if p.Salary <= 0 || p.Condition != 100 {
			t.Fatalf("%s has salary %d condition %d", p.Name, p.Salary, p.Condition)
		}
	}
	if _, err := TeamPower(roster); err != nil {
		t.Fatalf("generated roster cannot play: %v", err)
	}
}
