package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Clock is the shared in-game calendar. There is exactly one row.
type Clock struct {
	Month         int  `json:"month"`
	Year          int  `json:"year"`
	IsStoveLeague bool `json:"is_stove_league"`
}

func IsStoveLeagueMonth(month int) bool {
	return month == 12 || month == 1
}

// Advance moves the calendar forward one month, rolling December into January of the next year.
func (c Clock) Advance() Clock {
	next := Clock{Month: c.Month + 1, Year: c.Year}
	if next.Month > 12 {
		next.Month = 1
		next.Year++
	}
	next.IsStoveLeague = IsStoveLeagueMonth(next.Month)
	return next
}

// Period numbers months monotonically so a settlement can be matched to the month it paid for.
func (c Clock) Period() int {
	return c.Year*12 + c.Month - 1
}

func loadClock(ctx context.Context, q querier, forUpdate bool) (Clock, error) {
	query := `SELECT current_month, current_year, is_stove_league FROM lolfm.game_clock WHERE id = 1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var c Clock
	err := q.QueryRow(ctx, query).Scan(&c.Month, &c.Year, &c.IsStoveLeague)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, fmt.Errorf("%w: game clock row missing", ErrNotFound)
	}
	return c, err
}

func (s *Service) Clock(ctx context.Context) (Clock, error) {
	return loadClock(ctx, s.db, false)
}

// AdvanceClock is called only by the season driver while it holds the clock lease.
func (s *Service) AdvanceClock(ctx context.Context) (Clock, error) {
	var next Clock
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		cur, err := loadClock(ctx, tx, true)
		if err != nil {
			return err
		}
		next = cur.Advance()
		_, err = tx.Exec(ctx, `
			UPDATE lolfm.game_clock
			SET current_month = $1, current_year = $2, is_stove_league = $3, updated_at = now()
			WHERE id = 1
		`, next.Month, next.Year, next.IsStoveLeague)
		return err
	})
	if err != nil {
		return Clock{}, fmt.Errorf("advance clock: %w", err)
	}
	return next, nil
}

// ActiveTeamIDs lists every team that still takes part in settlement.
func (s *Service) ActiveTeamIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id
		FROM lolfm.teams
		WHERE is_game_over = false
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const clockLeaseKey = int64(0x4c4f4c464d434c4b) // "LOLFMCLK"

// AcquireClockLease takes a session advisory lock on a dedicated connection so that only
// one worker process drives the clock. The returned func releases the lock and the conn.
func (s *Service) AcquireClockLease(ctx context.Context) (func(), error) {
	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	var ok bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, clockLeaseKey).Scan(&ok); err != nil {
		conn.Release()
		return nil, err
	}
	if !ok {
		conn.Release()
		return nil, ErrClockLeaseHeld
	}
	return func() {
		if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, clockLeaseKey); err != nil {
			s.log.Warn("release clock lease failed", "err", err)
			// a session lock survives Release, so drop the connection instead of pooling it
			_ = conn.Conn().Close(context.Background())
		}
		conn.Release()
	}, nil
}
