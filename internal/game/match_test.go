package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestHomeWinChance(t *testing.T) {
	got := HomeWinChance(100, 50)
	if math.Abs(got-0.6875) > 1e-12 {
		t.Fatalf("got %f want 0.6875", got)
	}
	if got := HomeWinChance(0, 0); got != 0.5 {
		t.Fatalf("zero powers got %f want 0.5", got)
	}
}

func scripted(rolls ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := rolls[i]
		i++
		return v
	}
}

func TestResolveSeriesScripted(t *testing.T) {
	tests := []struct {
		name       string
		rolls      []float64
		home, away int
	}{
		{"home sweep", []float64{0.1, 0.2}, 2, 0},
		{"away sweep", []float64{0.9, 0.8}, 0, 2},
		{"home in three", []float64{0.1, 0.9, 0.3}, 2, 1},
		{"away in three", []float64{0.9, 0.1, 0.7}, 1, 2},
	}
	for _, tc := range tests {
		home, away := ResolveSeries(0.5, scripted(tc.rolls...))
		if home != tc.home || away != tc.away {
			t.Fatalf("%s: got %d:%d want %d:%d", tc.name, home, away, tc.home, tc.away)
		}
	}
}

func TestResolveSeriesAlwaysTerminates(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10_000; i++ {
		chance := rng.Float64()
		home, away := ResolveSeries(chance, rng.Float64)
		games := home + away
		if games < 2 || games > 3 {
			t.Fatalf("series played %d games", games)
		}
		if max(home, away) != SeriesWinsRequired {
			t.Fatalf("series ended %d:%d", home, away)
		}
	}
}

func TestApplyStatsEffect(t *testing.T) {
	tests := []struct {
		name           string
		fans, rep      int
		outcome        Outcome
		wantFans, wRep int
	}{
		{"win", 1000, 10, OutcomeWin, 1500, 13},
		{"draw", 1000, 10, OutcomeDraw, 1150, 11},
		{"loss", 1000, 10, OutcomeLoss, 800, 10},
		{"loss floors fans", 120, 10, OutcomeLoss, 0, 10},
	}
	for _, tc := range tests {
		fans, rep := ApplyStatsEffect(tc.fans, tc.rep, tc.outcome)
		if fans != tc.wantFans || rep != tc.wRep {
			t.Fatalf("%s: got fans=%d rep=%d want fans=%d rep=%d", tc.name, fans, rep, tc.wantFans, tc.wRep)
		}
	}
}

func TestOutcomeFor(t *testing.T) {
	if OutcomeFor(2, 1) != OutcomeWin || OutcomeFor(0, 2) != OutcomeLoss || OutcomeFor(1, 1) != OutcomeDraw {
		t.Fatalf("unexpected outcome mapping")
	}
}

func TestForfeitScore(t *testing.T) {
	alive, frozen := Team{ID: 1}, Team{ID: 2, IsGameOver: true}
	tests := []struct {
		name        string
		home, away  Team
		hs, as      int
		wantForfeit bool
		wantErr     bool
	}{
		{"both playing", alive, Team{ID: 3}, 0, 0, false, false},
		{"home frozen", frozen, alive, 0, 2, true, false},
		{"away frozen", alive, frozen, 2, 0, true, false},
		{"both frozen", frozen, Team{ID: 4, IsGameOver: true}, 0, 0, false, true},
	}
	for _, tc := range tests {
		hs, as, forfeit, err := forfeitScore(tc.home, tc.away)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: unexpected err %v", tc.name, err)
		}
		if err != nil && !errors.Is(err, ErrTeamGameOver) {
			t.Fatalf("%s: expected ErrTeamGameOver, got %v", tc.name, err)
		}
		if hs != tc.hs || as != tc.as || forfeit != tc.wantForfeit {
			t.Fatalf("%s: got %d:%d forfeit=%v", tc.name, hs, as, forfeit)
		}
	}
}
