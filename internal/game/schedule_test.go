package game

import (
	"errors"
	"testing"
	"time"
)

func TestBuildFixturesFourTeams(t *testing.T) {
	teams := []int64{11, 12, 13, 14}
	start := SeasonStart(2026)
	fixtures, err := BuildFixtures(teams, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fixtures) != 12 {
		t.Fatalf("got %d fixtures want 12", len(fixtures))
	}

	type pair struct{ home, away int64 }
	seen := make(map[pair]int)
	for _, f := range fixtures {
		if f.HomeTeamID == f.AwayTeamID {
			t.Fatalf("team %d plays itself", f.HomeTeamID)
		}
		seen[pair{f.HomeTeamID, f.AwayTeamID}]++
	}
	for i, a := range teams {
		for _, b := range teams[i+1:] {
			if seen[pair{a, b}] != 1 || seen[pair{b, a}] != 1 {
				t.Fatalf("pair %d/%d: home=%d away=%d", a, b, seen[pair{a, b}], seen[pair{b, a}])
			}
		}
	}
}

func TestBuildFixturesRoundsAndCadence(t *testing.T) {
	start := SeasonStart(2027)
	if start != time.Date(2027, time.February, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("season start %s", start)
	}
	fixtures, err := BuildFixtures([]int64{1, 2, 3}, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	half := len(fixtures) / 2
	for i, f := range fixtures {
		if i < half && f.HomeTeamID > f.AwayTeamID {
			t.Fatalf("round one fixture %d hosted by the later team", i)
		}
		if i >= half && f.HomeTeamID < f.AwayTeamID {
			t.Fatalf("round two fixture %d not reversed", i)
		}
		want := start.AddDate(0, 0, FixtureCadenceDays*i)
		if !f.Date.Equal(want) {
			t.Fatalf("fixture %d on %s want %s", i, f.Date, want)
		}
	}
}

func TestBuildFixturesNeedsTwoTeams(t *testing.T) {
	if _, err := BuildFixtures([]int64{1}, SeasonStart(2026)); !errors.Is(err, ErrInsufficientTeams) {
		t.Fatalf("expected ErrInsufficientTeams, got %v", err)
	}
	if _, err := BuildFixtures(nil, SeasonStart(2026)); !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}
