package engine

import (
	"math"

	"nutriguide/internal/catalog"
)

// tournamentStrategies are the retrieval methods that compete per request.
// Lexical stays out: its calorie error against a text query measures nothing.
var tournamentStrategies = []Strategy{StrategyKNN, StrategyCosine}

// StrategyScore is one strategy's result and its tournament score.
type StrategyScore struct {
	Strategy     Strategy
	Rows         []int
	CalorieError float64
	Diversity    int
}

// RunTournament runs every competing strategy against the same filtered
// subset and target, scores each candidate list by calorie fit and diversity,
// and returns the winner plus all scores. Selection is deterministic: lowest
// calorie error wins, ties go to higher diversity, then declaration order.
func RunTournament(cat *catalog.Catalog, t Targets, p Profile, rows []int) (StrategyScore, []StrategyScore) {
	scores := make([]StrategyScore, 0, len(tournamentStrategies))
	for _, strategy := range tournamentStrategies {
		ranked, err := Retrieve(cat, strategy, t, p, rows)
		if err != nil {
			continue
		}
		scores = append(scores, scoreCandidates(cat, strategy, t, ranked))
	}

	if len(scores) == 0 {
		return StrategyScore{Strategy: StrategyKNN}, nil
	}

	winner := scores[0]
	for _, s := range scores[1:] {
		if s.CalorieError < winner.CalorieError ||
			(s.CalorieError == winner.CalorieError && s.Diversity > winner.Diversity) {
			winner = s
		}
	}
	return winner, scores
}

func scoreCandidates(cat *catalog.Catalog, strategy Strategy, t Targets, rows []int) StrategyScore {
	var totalCalories float64
	distinct := map[int64]struct{}{}
	for _, row := range rows {
		rec := cat.Record(row)
		totalCalories += rec.Calories
		distinct[rec.ID] = struct{}{}
	}
	return StrategyScore{
		Strategy:     strategy,
		Rows:         rows,
		CalorieError: math.Abs(totalCalories - t.Calories),
		Diversity:    len(distinct),
	}
}

// Confidence grades the winner's calorie fit: "High" when the mean
// per-candidate error is within 15% of the per-meal calorie share.
func (s StrategyScore) Confidence(t Targets) string {
	if len(s.Rows) == 0 || t.Calories <= 0 {
		return "Low"
	}
	meanErr := s.CalorieError / float64(len(s.Rows))
	if meanErr <= 0.15*t.Calories/mealsPerDay {
		return "High"
	}
	return "Medium"
}
