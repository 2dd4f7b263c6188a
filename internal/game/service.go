package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"lolfm/internal/notify"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Service struct {
	db     *pgxpool.Pool
	log    *slog.Logger
	events notify.Notifier
	mu     sync.Mutex
	rand   *mathrand.Rand
}

func NewService(db *pgxpool.Pool, logger *slog.Logger, events notify.Notifier) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if events == nil {
		events = notify.NewLog(logger)
	}
	return &Service{
		db:     db,
		log:    logger,
		events: events,
		rand:   mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const maxTxAttempts = 8

// withTx runs fn in a transaction that is committed when fn returns nil and rolled back
// on every other exit path. Serialization failures and deadlocks are retried with backoff.
// fn may run more than once, so it must not leak state between attempts.
func (s *Service) withTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(pgx.Tx) error) error {
	retryDelay := 75 * time.Millisecond
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.runTx(ctx, iso, fn)
		if err == nil {
			return nil
		}
		if !isRetryableTxError(err) {
			return err
		}
		if attempt == maxTxAttempts-1 {
			break
		}
		s.log.Debug("retrying transaction", "attempt", attempt+1, "err", err)
		if err := sleepWithContext(ctx, retryDelay); err != nil {
			return err
		}
		if retryDelay < 1200*time.Millisecond {
			retryDelay *= 2
		}
	}
	return ErrTxConflict
}

func (s *Service) runTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: iso})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) nextFloat() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}

func (s *Service) publish(ctx context.Context, events ...notify.Event) {
	for _, ev := range events {
		if err := s.events.Publish(ctx, ev); err != nil {
			s.log.Warn("publish event failed", "event_type", ev.Type, "team_id", ev.TeamID, "err", err)
		}
	}
}

const teamColumns = `id, COALESCE(owner_user_id, ''), league_id, name, money, fans, reputation, awareness,
	restructuring_count, is_restructuring, is_game_over, last_settled_period`

func scanTeam(row pgx.Row) (Team, error) {
	var t Team
	err := row.Scan(&t.ID, &t.OwnerUserID, &t.LeagueID, &t.Name, &t.Money, &t.Fans, &t.Reputation, &t.Awareness,
		&t.RestructuringCount, &t.IsRestructuring, &t.IsGameOver, &t.LastSettledPeriod)
	return t, err
}

func loadTeam(ctx context.Context, q querier, teamID int64, forUpdate bool) (Team, error) {
	query := `SELECT ` + teamColumns + ` FROM lolfm.teams WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	t, err := scanTeam(q.QueryRow(ctx, query, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return t, fmt.Errorf("%w %d", ErrTeamNotFound, teamID)
	}
	return t, err
}

const playerColumns = `id, team_id, name, position, mechanics, laning, teamfight, vision, decision, overall, condition, salary`

func scanPlayer(row pgx.Row) (Player, error) {
	var p Player
	var pos string
	err := row.Scan(&p.ID, &p.TeamID, &p.Name, &pos, &p.Stats.Mechanics, &p.Stats.Laning, &p.Stats.Teamfight,
		&p.Stats.Vision, &p.Stats.Decision, &p.Overall, &p.Condition, &p.Salary)
	p.Position = Position(pos)
	return p, err
}

func loadRoster(ctx context.Context, q querier, teamID int64, forUpdate bool) ([]Player, error) {
	query := `SELECT ` + playerColumns + ` FROM lolfm.players WHERE team_id = $1 ORDER BY id`
	if forUpdate {
		query += " FOR UPDATE"
	}
	rows, err := q.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func loadFacilities(ctx context.Context, q querier, teamID int64) (map[FacilityType]int, error) {
	rows, err := q.Query(ctx, `
		SELECT facility_type, level
		FROM lolfm.facilities
		WHERE team_id = $1
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[FacilityType]int)
	for rows.Next() {
		var ft string
		var level int
		if err := rows.Scan(&ft, &level); err != nil {
			return nil, err
		}
		out[FacilityType(ft)] = level
	}
	return out, rows.Err()
}

func (s *Service) Team(ctx context.Context, teamID int64) (TeamView, error) {
	var out TeamView
	t, err := loadTeam(ctx, s.db, teamID, false)
	if err != nil {
		return out, err
	}
	out.Team = t
	if out.Facilities, err = loadFacilities(ctx, s.db, teamID); err != nil {
		return out, err
	}
	err = s.db.QueryRow(ctx, `
		SELECT COUNT(1), COALESCE(SUM(salary), 0)
		FROM lolfm.players
		WHERE team_id = $1
	`, teamID).Scan(&out.RosterSize, &out.Payroll)
	if err != nil {
		return out, err
	}
	err = s.db.QueryRow(ctx, `
		SELECT sponsor_name, signing_amount
		FROM lolfm.sponsorships
		WHERE team_id = $1 AND status = 'active'
	`, teamID).Scan(&out.Sponsor, &out.SponsorSigningAmount)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return out, err
	}
	return out, nil
}

func (s *Service) Roster(ctx context.Context, teamID int64) ([]Player, error) {
	if _, err := loadTeam(ctx, s.db, teamID, false); err != nil {
		return nil, err
	}
	return loadRoster(ctx, s.db, teamID, false)
}

func (s *Service) FinancialRecords(ctx context.Context, teamID int64, limit int) ([]FinancialRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, team_id, entry_group::text, record_type, amount, description, breakdown, created_at
		FROM lolfm.financial_records
		WHERE team_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, teamID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FinancialRecord
	for rows.Next() {
		var r FinancialRecord
		if err := rows.Scan(&r.ID, &r.TeamID, &r.EntryGroup, &r.RecordType, &r.Amount, &r.Description, &r.Breakdown, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Service) BankruptcyEvents(ctx context.Context, teamID int64) ([]BankruptcyEvent, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, team_id, event_type, released_players, salary_saved, debt_forgiven, restructuring_count, created_at
		FROM lolfm.bankruptcy_events
		WHERE team_id = $1
		ORDER BY id
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BankruptcyEvent
	for rows.Next() {
		var e BankruptcyEvent
		if err := rows.Scan(&e.ID, &e.TeamID, &e.EventType, &e.ReleasedPlayers, &e.SalarySaved, &e.DebtForgiven, &e.RestructuringCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type CreateTeamInput struct {
	OwnerUserID string
	LeagueID    *int64
	Name        string
}

// CreateTeam registers a team with level-1 facilities, starting money and a generated roster.
func (s *Service) CreateTeam(ctx context.Context, in CreateTeamInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateEntityName(in.Name); err != nil {
		return 0, err
	}
	var teamID int64
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		if in.LeagueID != nil {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM lolfm.leagues WHERE id = $1)`, *in.LeagueID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%w %d", ErrLeagueNotFound, *in.LeagueID)
			}
		}
		id, err := insertTeamTx(ctx, tx, in.OwnerUserID, in.LeagueID, in.Name, 0)
		teamID = id
		return err
	})
	return teamID, err
}

// SeedDemoLeague populates an empty database with one AI league and its schedule.
func (s *Service) SeedDemoLeague(ctx context.Context) error {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(1) FROM lolfm.leagues`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	teams := []string{"Azure Drakes", "Iron Wolves", "Crimson Owls", "Nova Esports", "Tidal Kings", "Ember Gaming"}
	var leagueID int64
	err := s.withTx(ctx, pgx.ReadCommitted, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO lolfm.leagues (name, region)
			VALUES ($1, $2)
			RETURNING id
		`, "Rift Challengers League", "KR").Scan(&leagueID); err != nil {
			return err
		}
		for i, name := range teams {
			if _, err := insertTeamTx(ctx, tx, "", &leagueID, name, i*7); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if _, err := s.GenerateSchedule(ctx, leagueID); err != nil {
		return fmt.Errorf("seed schedule: %w", err)
	}
	s.log.Info("seeded demo league", "league_id", leagueID, "teams", len(teams))
	return nil
}

func insertTeamTx(ctx context.Context, tx pgx.Tx, ownerUserID string, leagueID *int64, name string, seed int) (int64, error) {
	var owner any
	if ownerUserID != "" {
		owner = ownerUserID
	}
	var teamID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO lolfm.teams (owner_user_id, league_id, name, money, fans, reputation, awareness)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, owner, leagueID, name, StarterMoney, 1_000, 10, 10).Scan(&teamID); err != nil {
		return 0, err
	}
	for _, ft := range FacilityTypes {
		if _, err := tx.Exec(ctx, `
			INSERT INTO lolfm.facilities (team_id, facility_type, level)
			VALUES ($1, $2, 1)
		`, teamID, string(ft)); err != nil {
			return 0, err
		}
	}
	for _, p := range generateRoster(seed) {
		if _, err := tx.Exec(ctx, `
			INSERT INTO lolfm.players
			    (team_id, name, position, mechanics, laning, teamfight, vision, decision, overall, condition, salary)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, teamID, p.Name, string(p.Position), p.Stats.Mechanics, p.Stats.Laning, p.Stats.Teamfight,
			p.Stats.Vision, p.Stats.Decision, p.Overall, p.Condition, p.Salary); err != nil {
			return 0, err
		}
	}
	return teamID, nil
}

// generateRoster returns a starting five plus one substitute. seed shifts names and stats
// so teams created together do not share identical rosters.
func generateRoster(seed int) []Player {
	first := []string{"Min", "Jae", "Hyun", "Sung", "Dong", "Woo", "Ji", "Tae", "Seo", "Kang", "Yoon", "Ha"}
	last := []string{"Kim", "Lee", "Park", "Choi", "Jung", "Han", "Oh", "Shin", "Song", "Lim", "Ryu", "Bae"}
	slots := append(append([]Position{}, Positions...), PositionMid)

	out := make([]Player, 0, len(slots))
	for i, pos := range slots {
		k := seed + i
		base := 52 + (k*11)%24
		stats := Stats{
			Mechanics: base + (k*3)%9,
			Laning:    base + (k*5)%7,
			Teamfight: base + (k*7)%8,
			Vision:    base + (k*2)%10,
			Decision:  base + (k*13)%6,
		}.Clamp()
		overall := Overall(pos, stats)
		out = append(out, Player{
			Name:      fmt.Sprintf("%s %s", first[k%len(first)], last[(k*5)%len(last)]),
			Position:  pos,
			Stats:     stats,
			Overall:   overall,
			Condition: 100,
			Salary:    int64(overall) * 80_000,
		})
	}
	return out
}

func validateEntityName(name string) error {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(clean) > 64 {
		return fmt.Errorf("%w: name too long (max 64 chars)", ErrValidation)
	}
	return nil
}
