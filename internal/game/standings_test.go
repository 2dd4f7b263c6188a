package game

import "testing"

func TestApplyResultKeepsPointsInvariant(t *testing.T) {
	var st Standing
	st.ApplyResult(2, 0)
	st.ApplyResult(1, 2)
	st.ApplyResult(1, 1)
	if st.Wins != 1 || st.Losses != 1 || st.Draws != 1 {
		t.Fatalf("got w=%d l=%d d=%d", st.Wins, st.Losses, st.Draws)
	}
	if st.Points != st.Wins*3+st.Draws {
		t.Fatalf("points=%d", st.Points)
	}
	if st.GoalsFor != 4 || st.GoalsAgainst != 3 || st.GoalDifference != 1 {
		t.Fatalf("gf=%d ga=%d gd=%d", st.GoalsFor, st.GoalsAgainst, st.GoalDifference)
	}
}

func TestRankStandingsOrder(t *testing.T) {
	rows := []Standing{
		{TeamID: 5, Points: 6, GoalDifference: 2, GoalsFor: 6},
		{TeamID: 2, Points: 9, GoalDifference: 1, GoalsFor: 6},
		{TeamID: 3, Points: 6, GoalDifference: 2, GoalsFor: 7},
		{TeamID: 1, Points: 6, GoalDifference: 3, GoalsFor: 5},
		{TeamID: 4, Points: 6, GoalDifference: 2, GoalsFor: 6},
	}
	RankStandings(rows)
	want := []int64{2, 1, 3, 4, 5}
	for i, id := range want {
		if rows[i].TeamID != id || rows[i].Rank != i+1 {
			t.Fatalf("position %d: team %d rank %d, want team %d rank %d", i, rows[i].TeamID, rows[i].Rank, id, i+1)
		}
	}
}

func TestRankStandingsIdempotent(t *testing.T) {
	rows := []Standing{
		{TeamID: 3, Points: 3, GoalDifference: 0, GoalsFor: 2},
		{TeamID: 1, Points: 3, GoalDifference: 0, GoalsFor: 2},
		{TeamID: 2, Points: 0, GoalDifference: -2, GoalsFor: 1},
	}
	RankStandings(rows)
	first := make(map[int64]int, len(rows))
	for _, r := range rows {
		first[r.TeamID] = r.Rank
	}
	RankStandings(rows)
	for _, r := range rows {
		if first[r.TeamID] != r.Rank {
			t.Fatalf("team %d rank changed %d -> %d", r.TeamID, first[r.TeamID], r.Rank)
		}
	}
	if first[1] != 1 || first[3] != 2 {
		t.Fatalf("full tie must break on team id, got %v", first)
	}
}
