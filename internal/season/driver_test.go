package season

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"lolfm/internal/game"
)

type fakeRunner struct {
	mu        sync.Mutex
	clock     game.Clock
	teams     []int64
	fail      map[int64]error
	panicOn   int64
	block     chan struct{}
	entered   chan struct{}
	settled   []int64
	advances  int
	leaseHeld bool
	released  int
}

func (f *fakeRunner) AcquireClockLease(context.Context) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.leaseHeld {
		return nil, game.ErrClockLeaseHeld
	}
	return func() {
		f.mu.Lock()
		f.released++
		f.mu.Unlock()
	}, nil
}

func (f *fakeRunner) AdvanceClock(context.Context) (game.Clock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advances++
	f.clock = f.clock.Advance()
	return f.clock, nil
}

func (f *fakeRunner) ActiveTeamIDs(context.Context) ([]int64, error) {
	return f.teams, nil
}

func (f *fakeRunner) SettleTeam(ctx context.Context, teamID int64) (game.Settlement, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if teamID == f.panicOn {
		panic("boom")
	}
	if err := f.fail[teamID]; err != nil {
		return game.Settlement{}, err
	}
	f.mu.Lock()
	f.settled = append(f.settled, teamID)
	f.mu.Unlock()
	st := game.Settlement{TeamID: teamID}
	if teamID == 4 {
		st.Insolvency = &game.InsolvencyPlan{Action: game.ActionRestructure}
	}
	return st, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTickIsolatesTeamFailures(t *testing.T) {
	f := &fakeRunner{
		clock:   game.Clock{Month: 11, Year: 2026},
		teams:   []int64{1, 2, 3, 4, 5},
		fail:    map[int64]error{2: errors.New("deadlock")},
		panicOn: 3,
	}
	d := NewDriver(f, quietLogger(), Options{Concurrency: 2})

	report, err := d.Tick(context.Background())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if report.Failed != 2 {
		t.Fatalf("failed=%d want 2", report.Failed)
	}
	if report.Settled != 3 {
		t.Fatalf("settled=%d want 3", report.Settled)
	}
	if report.Restructured != 1 {
		t.Fatalf("restructured=%d want 1", report.Restructured)
	}
	if report.Clock.Month != 12 || !report.Clock.IsStoveLeague {
		t.Fatalf("clock=%+v want month 12 in stove league", report.Clock)
	}
	if f.released != 1 {
		t.Fatalf("lease released %d times want 1", f.released)
	}
}

func TestTickRejectsOverlap(t *testing.T) {
	f := &fakeRunner{
		clock:   game.Clock{Month: 3, Year: 2026},
		teams:   []int64{1},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	d := NewDriver(f, quietLogger(), Options{})

	done := make(chan error, 1)
	go func() {
		_, err := d.Tick(context.Background())
		done <- err
	}()

	select {
	case <-f.entered:
	case <-time.After(2 * time.Second):
		t.Fatalf("first tick never reached settlement")
	}
	if _, err := d.Tick(context.Background()); !errors.Is(err, ErrTickInFlight) {
		t.Fatalf("second tick err=%v want ErrTickInFlight", err)
	}
	close(f.block)
	if err := <-done; err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if f.advances != 1 {
		t.Fatalf("clock advanced %d times want 1", f.advances)
	}
}

func TestTickStopsWhenLeaseHeldElsewhere(t *testing.T) {
	f := &fakeRunner{clock: game.Clock{Month: 5, Year: 2026}, teams: []int64{1}, leaseHeld: true}
	d := NewDriver(f, quietLogger(), Options{})

	if _, err := d.Tick(context.Background()); !errors.Is(err, game.ErrClockLeaseHeld) {
		t.Fatalf("err=%v want ErrClockLeaseHeld", err)
	}
	if f.advances != 0 {
		t.Fatalf("clock must not advance without the lease")
	}
}
