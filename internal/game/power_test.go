package game

import (
	"errors"
	"math"
	"testing"
)

func uniformPlayer(id int64, pos Position, stat, condition int) Player {
	s := Stats{Mechanics: stat, Laning: stat, Teamfight: stat, Vision: stat, Decision: stat}
	return Player{ID: id, Position: pos, Stats: s, Overall: Overall(pos, s), Condition: condition}
}

func fullRoster(stat, condition int) []Player {
	out := make([]Player, 0, len(Positions))
	for i, pos := range Positions {
		out = append(out, uniformPlayer(int64(i+1), pos, stat, condition))
	}
	return out
}

func TestPositionSharesSumToOne(t *testing.T) {
	var sum float64
	for _, pos := range Positions {
		sum += positionShare[pos]
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("shares sum to %f", sum)
	}
}

func TestTeamPowerUniformRoster(t *testing.T) {
	got, err := TeamPower(fullRoster(80, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-80) > 1e-9 {
		t.Fatalf("got %f want 80", got)
	}
}

func TestTeamPowerScalesWithCondition(t *testing.T) {
	fresh, _ := TeamPower(fullRoster(80, 100))
	tired, _ := TeamPower(fullRoster(80, 50))
	if math.Abs(tired-fresh/2) > 1e-9 {
		t.Fatalf("tired=%f want %f", tired, fresh/2)
	}
}

func TestTeamPowerInsufficientRoster(t *testing.T) {
	_, err := TeamPower(fullRoster(70, 100)[:4])
	if !errors.Is(err, ErrInsufficientRoster) {
		t.Fatalf("expected ErrInsufficientRoster, got %v", err)
	}
}

func TestStartingLineupPicksBestAtPosition(t *testing.T) {
	roster := fullRoster(60, 100)
	roster = append(roster, uniformPlayer(10, PositionMid, 90, 100))
	lineup, err := StartingLineup(roster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lineup[PositionMid].ID != 10 {
		t.Fatalf("mid starter=%d want 10", lineup[PositionMid].ID)
	}
}

func TestStartingLineupFillsVacancyByFit(t *testing.T) {
	// no support on the roster; two bench mids compete for the slot
	visionMid := Player{ID: 20, Position: PositionMid, Stats: Stats{Mechanics: 40, Laning: 40, Teamfight: 60, Vision: 95, Decision: 60}, Condition: 100}
	visionMid.Overall = Overall(visionMid.Position, visionMid.Stats)
	mechMid := Player{ID: 21, Position: PositionMid, Stats: Stats{Mechanics: 95, Laning: 90, Teamfight: 50, Vision: 30, Decision: 40}, Condition: 100}
	mechMid.Overall = Overall(mechMid.Position, mechMid.Stats)

	roster := []Player{
		uniformPlayer(1, PositionTop, 60, 100),
		uniformPlayer(2, PositionJungle, 60, 100),
		uniformPlayer(3, PositionMid, 99, 100),
		uniformPlayer(4, PositionADC, 60, 100),
		visionMid,
		mechMid,
	}
	lineup, err := StartingLineup(roster)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lineup[PositionSupport].ID != visionMid.ID {
		t.Fatalf("support slot=%d want %d", lineup[PositionSupport].ID, visionMid.ID)
	}
}
