package game

import "testing"

func TestComputeMaintenance(t *testing.T) {
	levels := map[FacilityType]int{
		FacilityStadium:        2,
		FacilityDormitory:      1,
		FacilityTrainingCenter: 3,
		// no medical center
	}
	m := ComputeMaintenance(levels, []int64{4_000_000, 5_000_000, 1_000_000})

	if m.Facilities[FacilityMedicalCenter] != 0 {
		t.Fatalf("missing facility costs %d", m.Facilities[FacilityMedicalCenter])
	}
	if m.Salaries != 10_000_000 {
		t.Fatalf("salaries=%d want 10000000", m.Salaries)
	}
	wantFacilities := int64(4_000_000 + 1_000_000 + 5_000_000)
	if m.Total != wantFacilities+m.Salaries {
		t.Fatalf("total=%d want %d", m.Total, wantFacilities+m.Salaries)
	}
}

func TestComputeMaintenanceEmpty(t *testing.T) {
	m := ComputeMaintenance(nil, nil)
	if m.Total != 0 {
		t.Fatalf("total=%d want 0", m.Total)
	}
}

func TestSalariesOf(t *testing.T) {
	got := salariesOf([]Player{{Salary: 3}, {Salary: 4}})
	if len(got) != 2 || got[0]+got[1] != 7 {
		t.Fatalf("got %v", got)
	}
}

func TestSettleGuard(t *testing.T) {
	tests := []struct {
		name          string
		team          Team
		period        int
		wantSkipped   bool
		wantDuplicate bool
	}{
		{"never settled", Team{LastSettledPeriod: NoSettledMonth}, 24300, false, false},
		{"previous month settled", Team{LastSettledPeriod: 24299}, 24300, false, false},
		{"same month settled", Team{LastSettledPeriod: 24300}, 24300, false, true},
		{"game over", Team{IsGameOver: true, LastSettledPeriod: NoSettledMonth}, 24300, true, false},
		{"game over and settled", Team{IsGameOver: true, LastSettledPeriod: 24300}, 24300, true, false},
	}
	for _, tc := range tests {
		skipped, dup := settleGuard(tc.team, tc.period)
		if skipped != tc.wantSkipped || dup != tc.wantDuplicate {
			t.Fatalf("%s: got skipped=%v already=%v want %v/%v", tc.name, skipped, dup, tc.wantSkipped, tc.wantDuplicate)
		}
	}
}

func TestSettleBalance(t *testing.T) {
	tests := []struct {
		name          string
		money, total  int64
		wantBalance   int64
		wantInsolvent bool
		wantWarn      bool
	}{
		{"comfortable", 100, 10, 90, false, false},
		{"covers one more month exactly", 20, 10, 10, false, false},
		{"cannot cover next month", 15, 10, 5, false, true},
		{"lands on zero", 10, 10, 0, false, true},
		{"goes negative", 5, 10, -5, true, false},
		{"no upkeep", 0, 0, 0, false, false},
	}
	for _, tc := range tests {
		balance, insolvent, warn := settleBalance(tc.money, Maintenance{Total: tc.total})
		if balance != tc.money-tc.total {
			t.Fatalf("%s: balance %d is not money minus total", tc.name, balance)
		}
		if balance != tc.wantBalance || insolvent != tc.wantInsolvent || warn != tc.wantWarn {
			t.Fatalf("%s: got %d insolvent=%v warn=%v", tc.name, balance, insolvent, warn)
		}
	}
}
