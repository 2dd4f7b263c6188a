package game

import (
	"errors"
	"fmt"
	"strings"
)

const (
	RosterSize         = 5
	MaxRosterSize      = 10
	MaxRestructurings  = 3
	MaxFacilityLevel   = 5
	HomeAdvantage      = 1.10
	SeriesWinsRequired = 2 // best of three
	FixtureCadenceDays = 3

	StarterMoney   = int64(300_000_000)
	TrainingCost   = int64(500_000)
	TrainingWear   = 10 // condition lost per session
	StatMin        = 0
	StatMax        = 100
	MaxSalary      = int64(2_000_000_000)
	WinPoints      = 3
	DrawPoints     = 1
	NoSettledMonth = -1
)

// Error kinds. Every error returned by the core wraps exactly one of these.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrPrecondition  = errors.New("precondition failed")
	ErrConflict      = errors.New("conflict")
	ErrTerminalState = errors.New("terminal state")
)

var (
	ErrInsufficientRoster = fmt.Errorf("%w: roster needs at least %d competitors", ErrPrecondition, RosterSize)
	ErrInsufficientTeams  = fmt.Errorf("%w: league needs at least 2 teams", ErrPrecondition)
	ErrInsufficientFunds  = fmt.Errorf("%w: insufficient funds", ErrPrecondition)
	ErrStoveLeagueClosed  = fmt.Errorf("%w: contracts can only change during the stove league", ErrPrecondition)
	ErrFacilityMaxed      = fmt.Errorf("%w: facility already at max level", ErrPrecondition)
	ErrSponsorshipActive  = fmt.Errorf("%w: team already has an active sponsorship", ErrPrecondition)
	ErrRosterFull         = fmt.Errorf("%w: roster already has %d players", ErrPrecondition, MaxRosterSize)
	ErrNotFreeAgent       = fmt.Errorf("%w: player is under contract with another team", ErrPrecondition)

	ErrTeamNotFound   = fmt.Errorf("%w: team", ErrNotFound)
	ErrMatchNotFound  = fmt.Errorf("%w: match", ErrNotFound)
	ErrLeagueNotFound = fmt.Errorf("%w: league", ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("%w: player", ErrNotFound)

	ErrUnknownPosition = fmt.Errorf("%w: unknown position", ErrValidation)
	ErrUnknownFacility = fmt.Errorf("%w: unknown facility type", ErrValidation)
	ErrUnknownTraining = fmt.Errorf("%w: unknown training type", ErrValidation)

	ErrTeamGameOver   = fmt.Errorf("%w: team is game over", ErrTerminalState)
	ErrTxConflict     = fmt.Errorf("%w: transaction conflict, retry later", ErrConflict)
	ErrClockLeaseHeld = fmt.Errorf("%w: season clock is held by another worker", ErrConflict)
)

type Position string

const (
	PositionTop     Position = "TOP"
	PositionJungle  Position = "JUNGLE"
	PositionMid     Position = "MID"
	PositionADC     Position = "ADC"
	PositionSupport Position = "SUPPORT"
)

// Positions is the lineup order used everywhere a roster is walked.
var Positions = []Position{PositionTop, PositionJungle, PositionMid, PositionADC, PositionSupport}

func ParsePosition(v string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(v)))
	switch p {
	case PositionTop, PositionJungle, PositionMid, PositionADC, PositionSupport:
		return p, nil
	case "BOT", "BOTTOM":
		return PositionADC, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPosition, v)
}

type FacilityType string

const (
	FacilityStadium        FacilityType = "STADIUM"
	FacilityDormitory      FacilityType = "DORMITORY"
	FacilityTrainingCenter FacilityType = "TRAINING_CENTER"
	FacilityMedicalCenter  FacilityType = "MEDICAL_CENTER"
)

var FacilityTypes = []FacilityType{FacilityStadium, FacilityDormitory, FacilityTrainingCenter, FacilityMedicalCenter}

func ParseFacilityType(v string) (FacilityType, error) {
	f := FacilityType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(v), "-", "_")))
	for _, known := range FacilityTypes {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFacility, v)
}

// maintenanceTable maps facility level to monthly upkeep.
var maintenanceTable = map[FacilityType][MaxFacilityLevel + 1]int64{
	FacilityStadium:        {0, 2_000_000, 4_000_000, 7_000_000, 11_000_000, 16_000_000},
	FacilityDormitory:      {0, 1_000_000, 2_000_000, 3_500_000, 5_500_000, 8_000_000},
	FacilityTrainingCenter: {0, 1_500_000, 3_000_000, 5_000_000, 7_500_000, 10_500_000},
	FacilityMedicalCenter:  {0, 800_000, 1_600_000, 2_800_000, 4_400_000, 6_400_000},
}

func FacilityMaintenance(f FacilityType, level int) int64 {
	table, ok := maintenanceTable[f]
	if !ok || level <= 0 {
		return 0
	}
	if level > MaxFacilityLevel {
		level = MaxFacilityLevel
	}
	return table[level]
}

// FacilityUpgradeCost is the one-off price of reaching nextLevel.
func FacilityUpgradeCost(f FacilityType, nextLevel int) int64 {
	return FacilityMaintenance(f, nextLevel) * 10
}

type Training string

const (
	TrainingMechanics Training = "MECHANICS"
	TrainingLaning    Training = "LANING"
	TrainingTeamfight Training = "TEAMFIGHT"
	TrainingVision    Training = "VISION"
	TrainingDecision  Training = "DECISION"
)

func ParseTraining(v string) (Training, error) {
	t := Training(strings.ToUpper(strings.TrimSpace(v)))
	switch t {
	case TrainingMechanics, TrainingLaning, TrainingTeamfight, TrainingVision, TrainingDecision:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTraining, v)
}

// Apply raises the stat the session targets by gain, clamped to [StatMin, StatMax].
func (t Training) Apply(s Stats, gain int) Stats {
	switch t {
	case TrainingMechanics:
		s.Mechanics += gain
	case TrainingLaning:
		s.Laning += gain
	case TrainingTeamfight:
		s.Teamfight += gain
	case TrainingVision:
		s.Vision += gain
	case TrainingDecision:
		s.Decision += gain
	}
	return s.Clamp()
}

// TrainingGain grows with the training center tier.
func TrainingGain(trainingCenterLevel int) int {
	return 1 + trainingCenterLevel/2
}

type Stats struct {
	Mechanics int `json:"mechanics"`
	Laning    int `json:"laning"`
	Teamfight int `json:"teamfight"`
	Vision    int `json:"vision"`
	Decision  int `json:"decision"`
}

func (s Stats) Clamp() Stats {
	s.Mechanics = clampInt(s.Mechanics, StatMin, StatMax)
	s.Laning = clampInt(s.Laning, StatMin, StatMax)
	s.Teamfight = clampInt(s.Teamfight, StatMin, StatMax)
	s.Vision = clampInt(s.Vision, StatMin, StatMax)
	s.Decision = clampInt(s.Decision, StatMin, StatMax)
	return s
}

type Team struct {
	ID                 int64  `json:"id"`
	OwnerUserID        string `json:"owner_user_id,omitempty"`
	LeagueID           *int64 `json:"league_id,omitempty"`
	Name               string `json:"name"`
	Money              int64  `json:"money"`
	Fans               int    `json:"fans"`
	Reputation         int    `json:"reputation"`
	Awareness          int    `json:"awareness"`
	RestructuringCount int    `json:"restructuring_count"`
	IsRestructuring    bool   `json:"is_restructuring"`
	IsGameOver         bool   `json:"is_game_over"`
	LastSettledPeriod  int    `json:"last_settled_period"`
}

type Player struct {
	ID        int64    `json:"id"`
	TeamID    *int64   `json:"team_id,omitempty"`
	Name      string   `json:"name"`
	Position  Position `json:"position"`
	Stats     Stats    `json:"stats"`
	Overall   int      `json:"overall"`
	Condition int      `json:"condition"`
	Salary    int64    `json:"salary"`
}

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchCompleted MatchStatus = "completed"
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
