package game

import (
	"encoding/json"
	"time"
)

type TeamView struct {
	Team
	Facilities           map[FacilityType]int `json:"facilities"`
	RosterSize           int                  `json:"roster_size"`
	Payroll              int64                `json:"payroll"`
	Sponsor              string               `json:"sponsor,omitempty"`
	SponsorSigningAmount int64                `json:"sponsor_signing_amount,omitempty"`
}

type MatchView struct {
	ID          int64       `json:"id"`
	LeagueID    *int64      `json:"league_id,omitempty"`
	SeasonYear  int         `json:"season_year"`
	HomeTeamID  int64       `json:"home_team_id"`
	AwayTeamID  int64       `json:"away_team_id"`
	MatchDate   time.Time   `json:"match_date"`
	Status      MatchStatus `json:"status"`
	HomeScore   int         `json:"home_score"`
	AwayScore   int         `json:"away_score"`
	Forfeit     bool        `json:"forfeit,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

type MatchResult struct {
	MatchID          int64   `json:"match_id"`
	HomeTeamID       int64   `json:"home_team_id"`
	AwayTeamID       int64   `json:"away_team_id"`
	HomeScore        int     `json:"home_score"`
	AwayScore        int     `json:"away_score"`
	HomePower        float64 `json:"home_power,omitempty"`
	AwayPower        float64 `json:"away_power,omitempty"`
	HomeWinChance    float64 `json:"home_win_chance,omitempty"`
	Forfeit          bool    `json:"forfeit,omitempty"`
	AlreadyCompleted bool    `json:"already_completed"`
}

type ScheduleResult struct {
	LeagueID   int64     `json:"league_id"`
	SeasonYear int       `json:"season_year"`
	Teams      int       `json:"teams"`
	Fixtures   int       `json:"fixtures"`
	FirstDate  time.Time `json:"first_date"`
	LastDate   time.Time `json:"last_date"`
}

type FinancialRecord struct {
	ID          int64           `json:"id"`
	TeamID      int64           `json:"team_id"`
	EntryGroup  string          `json:"entry_group"`
	RecordType  string          `json:"record_type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	Breakdown   json.RawMessage `json:"breakdown"`
	CreatedAt   time.Time       `json:"created_at"`
}

type BankruptcyEvent struct {
	ID                 int64           `json:"id"`
	TeamID             int64           `json:"team_id"`
	EventType          string          `json:"event_type"`
	ReleasedPlayers    json.RawMessage `json:"released_players"`
	SalarySaved        int64           `json:"salary_saved"`
	DebtForgiven       int64           `json:"debt_forgiven"`
	RestructuringCount int             `json:"restructuring_count"`
	CreatedAt          time.Time       `json:"created_at"`
}

type TrainingResult struct {
	PlayerID  int64 `json:"player_id"`
	Stats     Stats `json:"stats"`
	Overall   int   `json:"overall"`
	Condition int   `json:"condition"`
	Balance   int64 `json:"balance"`
}

type FacilityUpgradeResult struct {
	Facility FacilityType `json:"facility"`
	Level    int          `json:"level"`
	Cost     int64        `json:"cost"`
	Balance  int64        `json:"balance"`
}
