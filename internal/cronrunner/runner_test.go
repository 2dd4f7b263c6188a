package cronrunner

import (
	"context"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	for _, spec := range []string{"@every 10m", "0 0 * * *", "*/30 * * * * *", "@hourly"} {
		if err := Validate(spec); err != nil {
			t.Fatalf("Validate(%q): %v", spec, err)
		}
	}
	for _, spec := range []string{"", "every ten minutes", "61 * * * *"} {
		if err := Validate(spec); err == nil {
			t.Fatalf("Validate(%q) should fail", spec)
		}
	}
}

type ctxKey struct{}

func TestJobsReceiveBaseContext(t *testing.T) {
	base := context.WithValue(context.Background(), ctxKey{}, "worker")
	r := New(nil, base)
	got := make(chan any, 1)
	if _, err := r.Add("@every 1s", func(ctx context.Context) {
		select {
		case got <- ctx.Value(ctxKey{}):
		default:
		}
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	r.Start()
	defer r.Stop()

	select {
	case v := <-got:
		if v != "worker" {
			t.Fatalf("got ctx value %v want worker", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("job never ran")
	}
}
