package game

import "testing"

func TestClockAdvance(t *testing.T) {
	tests := []struct {
		from Clock
		want Clock
	}{
		{Clock{Month: 1, Year: 2026}, Clock{Month: 2, Year: 2026, IsStoveLeague: false}},
		{Clock{Month: 11, Year: 2026}, Clock{Month: 12, Year: 2026, IsStoveLeague: true}},
		{Clock{Month: 12, Year: 2026}, Clock{Month: 1, Year: 2027, IsStoveLeague: true}},
	}
	for _, tc := range tests {
		if got := tc.from.Advance(); got != tc.want {
			t.Fatalf("advance %+v got %+v want %+v", tc.from, got, tc.want)
		}
	}
}

func TestClockPeriodIsMonotonic(t *testing.T) {
	c := Clock{Month: 1, Year: 2026}
	prev := c.Period()
	for i := 0; i < 30; i++ {
		c = c.Advance()
		if c.Period() != prev+1 {
			t.Fatalf("period jumped from %d to %d at %+v", prev, c.Period(), c)
		}
		prev = c.Period()
	}
	if (Clock{Month: 1, Year: 0}).Period() <= NoSettledMonth {
		t.Fatalf("no period may collide with the unsettled marker")
	}
}

func TestIsStoveLeagueMonth(t *testing.T) {
	for m := 1; m <= 12; m++ {
		want := m == 12 || m == 1
		if IsStoveLeagueMonth(m) != want {
			t.Fatalf("month %d stove=%v", m, !want)
		}
	}
}
