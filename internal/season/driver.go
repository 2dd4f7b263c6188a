// Package season drives the shared game calendar: one tick advances the clock a month and
// settles every active team.
package season

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lolfm/internal/game"

	"golang.org/x/sync/errgroup"
)

var ErrTickInFlight = errors.New("season tick already in flight")

// Runner is the slice of game.Service the driver needs.
type Runner interface {
	AcquireClockLease(ctx context.Context) (func(), error)
	AdvanceClock(ctx context.Context) (game.Clock, error)
	ActiveTeamIDs(ctx context.Context) ([]int64, error)
	SettleTeam(ctx context.Context, teamID int64) (game.Settlement, error)
}

type Options struct {
	SettleTimeout time.Duration
	Concurrency   int
}

type Driver struct {
	svc  Runner
	log  *slog.Logger
	opts Options
	mu   sync.Mutex
}

type TickReport struct {
	Clock          game.Clock    `json:"clock"`
	Teams          int           `json:"teams"`
	Settled        int           `json:"settled"`
	AlreadySettled int           `json:"already_settled"`
	Skipped        int           `json:"skipped"`
	Restructured   int           `json:"restructured"`
	GameOver       int           `json:"game_over"`
	Failed         int           `json:"failed"`
	Duration       time.Duration `json:"duration"`
}

func NewDriver(svc Runner, logger *slog.Logger, opts Options) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = 30 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Driver{svc: svc, log: logger, opts: opts}
}

// Tick advances the clock one month and settles every active team. Only one tick runs at a
// time per process, and the clock lease keeps other processes out. A team that fails to
// settle is logged and counted; it never stops the others.
func (d *Driver) Tick(ctx context.Context) (TickReport, error) {
	if !d.mu.TryLock() {
		return TickReport{}, ErrTickInFlight
	}
	defer d.mu.Unlock()

	started := time.Now()
	release, err := d.svc.AcquireClockLease(ctx)
	if err != nil {
		return TickReport{}, fmt.Errorf("acquire clock lease: %w", err)
	}
	defer release()

	var report TickReport
	report.Clock, err = d.svc.AdvanceClock(ctx)
	if err != nil {
		return report, err
	}
	teamIDs, err := d.svc.ActiveTeamIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("list active teams: %w", err)
	}
	report.Teams = len(teamIDs)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(d.opts.Concurrency)
	for _, teamID := range teamIDs {
		teamID := teamID
		g.Go(func() error {
			st, err := d.settleOne(ctx, teamID)
			mu.Lock()
			defer mu.Unlock()
			report.record(st, err)
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(started)
	d.log.Info("season tick complete",
		"month", report.Clock.Month,
		"year", report.Clock.Year,
		"stove_league", report.Clock.IsStoveLeague,
		"teams", report.Teams,
		"settled", report.Settled,
		"restructured", report.Restructured,
		"game_over", report.GameOver,
		"failed", report.Failed,
		"duration", report.Duration.String(),
	)
	return report, nil
}

func (d *Driver) settleOne(ctx context.Context, teamID int64) (st game.Settlement, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic settling team %d: %v", teamID, r)
		}
		if err != nil {
			d.log.Error("team settlement failed", "team_id", teamID, "err", err)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, d.opts.SettleTimeout)
	defer cancel()
	return d.svc.SettleTeam(ctx, teamID)
}

func (r *TickReport) record(st game.Settlement, err error) {
	switch {
	case err != nil:
		r.Failed++
	case st.Skipped:
		r.Skipped++
	case st.AlreadySettled:
		r.AlreadySettled++
	default:
		r.Settled++
		if st.Insolvency != nil {
			if st.Insolvency.Action == game.ActionGameOver {
				r.GameOver++
			} else {
				r.Restructured++
			}
		}
	}
}
