package main

import "testing"

func TestComma(t *testing.T) {
	cases := map[int64]string{
		0:            "0",
		999:          "999",
		1000:         "1,000",
		-5_000_000:   "-5,000,000",
		300_000_000:  "300,000,000",
		-123_456_789: "-123,456,789",
	}
	for in, want := range cases {
		if got := comma(in); got != want {
			t.Fatalf("comma(%d) = %q want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Rift Challengers League", 10); got != "Rift Ch..." {
		t.Fatalf("got %q", got)
	}
	if got := truncate("  short ", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
}
