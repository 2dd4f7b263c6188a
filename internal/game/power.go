package game

import (
	"math"
	"sort"
)

type statWeights struct {
	Mechanics float64
	Laning    float64
	Teamfight float64
	Vision    float64
	Decision  float64
}

var (
	laneWeights    = statWeights{Mechanics: 0.30, Laning: 0.30, Teamfight: 0.20, Vision: 0.05, Decision: 0.15}
	jungleWeights  = statWeights{Mechanics: 0.20, Laning: 0.05, Teamfight: 0.20, Vision: 0.25, Decision: 0.30}
	supportWeights = statWeights{Mechanics: 0.10, Laning: 0.15, Teamfight: 0.25, Vision: 0.30, Decision: 0.20}
)

// positionShare is each slot's share of team power; the values sum to 1.0.
var positionShare = map[Position]float64{
	PositionTop:     0.20,
	PositionJungle:  0.20,
	PositionMid:     0.22,
	PositionADC:     0.22,
	PositionSupport: 0.16,
}

func weightsFor(p Position) statWeights {
	switch p {
	case PositionJungle:
		return jungleWeights
	case PositionSupport:
		return supportWeights
	default:
		return laneWeights
	}
}

func rating(s Stats, w statWeights) float64 {
	return float64(s.Mechanics)*w.Mechanics +
		float64(s.Laning)*w.Laning +
		float64(s.Teamfight)*w.Teamfight +
		float64(s.Vision)*w.Vision +
		float64(s.Decision)*w.Decision
}

// Overall is the player's rating at their listed position. Recompute it after any stat change.
func Overall(pos Position, s Stats) int {
	return int(math.Round(rating(s.Clamp(), weightsFor(pos))))
}

// TeamPower scores a roster. The strongest player at each position starts; an empty
// slot is filled by the best remaining player, rated with that slot's weights.
func TeamPower(roster []Player) (float64, error) {
	lineup, err := StartingLineup(roster)
	if err != nil {
		return 0, err
	}
	var power float64
	for _, slot := range Positions {
		p := lineup[slot]
		condition := float64(clampInt(p.Condition, 0, 100)) / 100
		power += rating(p.Stats.Clamp(), weightsFor(slot)) * condition * positionShare[slot]
	}
	return power, nil
}

// StartingLineup picks the five starters by position, one player per slot.
func StartingLineup(roster []Player) (map[Position]Player, error) {
	if len(roster) < RosterSize {
		return nil, ErrInsufficientRoster
	}
	ranked := make([]Player, len(roster))
	copy(ranked, roster)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Overall != ranked[j].Overall {
			return ranked[i].Overall > ranked[j].Overall
		}
		return ranked[i].ID < ranked[j].ID
	})

	used := make([]bool, len(ranked))
	lineup := make(map[Position]Player, RosterSize)
	for _, slot := range Positions {
		for i, p := range ranked {
			if !used[i] && p.Position == slot {
				lineup[slot] = p
				used[i] = true
				break
			}
		}
	}
	for _, slot := range Positions {
		if _, ok := lineup[slot]; ok {
			continue
		}
		best, bestScore := -1, -1.0
		for i, p := range ranked {
			if used[i] {
				continue
			}
			if score := rating(p.Stats.Clamp(), weightsFor(slot)); score > bestScore {
				best, bestScore = i, score
			}
		}
		lineup[slot] = ranked[best]
		used[best] = true
	}
	return lineup, nil
}
