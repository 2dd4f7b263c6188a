package cli

import "testing"

func TestProfileRoundTripAndClear(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := LoadProfile()
	if err != nil {
		t.Fatalf("load empty profile: %v", err)
	}
	if p != (Profile{}) {
		t.Fatalf("expected empty profile, got %+v", p)
	}

	if err := SaveProfile(Profile{APIBaseURL: " http://game.local:8080/ ", TeamID: 7}); err != nil {
		t.Fatalf("save: %v", err)
	}
	p, err = LoadProfile()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.APIBaseURL != "http://game.local:8080" || p.TeamID != 7 {
		t.Fatalf("unexpected profile %+v", p)
	}

	if err := ClearProfile(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := ClearProfile(); err != nil {
		t.Fatalf("clearing twice must not fail: %v", err)
	}
	if p, _ := LoadProfile(); p != (Profile{}) {
		t.Fatalf("profile survived clear: %+v", p)
	}
}
