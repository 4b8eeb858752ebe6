package engine

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"nutriguide/internal/catalog"
)

// WeekPlanner is the external planning collaborator. It may omit days, return
// unknown ids or fail outright; the engine tolerates all three.
type WeekPlanner interface {
	PlanWeek(ctx context.Context, p Profile, t Targets, candidates []catalog.MealRecord) (*WeeklySelection, error)
}

// InsightGenerator produces the two short pieces of generated text attached
// to a plan. Failures are substituted with static fallbacks, never surfaced.
type InsightGenerator interface {
	Insight(ctx context.Context, p Profile) (string, error)
	Tip(ctx context.Context, p Profile) (string, error)
}

// PlanStore persists generated week plans. Optional; persistence failures are
// logged, not returned.
type PlanStore interface {
	Save(ctx context.Context, userID string, planJSON []byte) error
}

// Static texts used when the insight collaborator is absent or fails.
const (
	fallbackInsight = "Welcome to your personalized plan! We've selected meals that align with your goals."
	fallbackTip     = "Consistency is key. Try to stick to your meal times!"
)

const searchLimit = 20

// Engine is the recommendation core. It holds only read-only state after
// construction and is safe for concurrent requests.
type Engine struct {
	cat            *catalog.Catalog
	assembler      *Assembler
	planner        WeekPlanner
	insights       InsightGenerator
	plans          PlanStore
	plannerTimeout time.Duration
	log            zerolog.Logger
}

// New wires an Engine. planner, insights and plans may each be nil; every
// path has a local fallback.
func New(cat *catalog.Catalog, planner WeekPlanner, insights InsightGenerator, plans PlanStore, plannerTimeout time.Duration, log zerolog.Logger) *Engine {
	if plannerTimeout <= 0 {
		plannerTimeout = 25 * time.Second
	}
	return &Engine{
		cat:            cat,
		assembler:      NewAssembler(cat, log),
		planner:        planner,
		insights:       insights,
		plans:          plans,
		plannerTimeout: plannerTimeout,
		log:            log,
	}
}

// Recommendation is the full response of a recommendation call.
type Recommendation struct {
	TargetCalories  int        `json:"target_calories"`
	BMR             int        `json:"bmr"`
	TDEE            int        `json:"tdee"`
	WeekPlan        WeekPlan   `json:"week_plan"`
	Meals           []MealView `json:"meals"`
	AIReasoning     string     `json:"ai_reasoning"`
	AIInsight       string     `json:"ai_insight"`
	StrategyTip     string     `json:"strategy_tip"`
	ModelUsed       string     `json:"model_used"`
	ModelConfidence string     `json:"model_confidence"`
}

// Recommend runs the full pipeline: profile -> targets -> filter ->
// strategy tournament -> assembly -> enrichment. The only user-visible error
// class is profile validation; an unloaded catalog returns ErrEmptyCatalog
// and everything else degrades to a best-effort result.
func (e *Engine) Recommend(ctx context.Context, profileJSON []byte) (*Recommendation, error) {
	if e.cat.Empty() {
		return nil, ErrEmptyCatalog
	}

	profile, err := ParseProfile(profileJSON)
	if err != nil {
		return nil, err
	}

	targets := TargetsFor(profile)
	filtered := FilterCandidates(e.cat, profile, e.log)
	winner, scores := RunTournament(e.cat, targets, profile, filtered)

	e.log.Debug().
		Str("winner", string(winner.Strategy)).
		Int("strategies", len(scores)).
		Float64("calorie_error", winner.CalorieError).
		Int("diversity", winner.Diversity).
		Msg("strategy tournament complete")

	selection := e.planWeek(ctx, profile, targets, winner.Rows)
	weekPlan, meals := e.assembler.Assemble(winner.Rows, selection)

	rec := &Recommendation{
		TargetCalories:  int(targets.Calories),
		BMR:             int(targets.BMR),
		TDEE:            int(targets.TDEE),
		WeekPlan:        weekPlan,
		Meals:           meals,
		ModelUsed:       string(winner.Strategy),
		ModelConfidence: winner.Confidence(targets),
	}
	if selection != nil {
		rec.AIReasoning = selection.Reasoning
	}

	rec.AIInsight, rec.StrategyTip = e.generateInsights(ctx, profile)
	e.savePlan(ctx, profile.UserID, rec)
	return rec, nil
}

// planWeek invokes the external planner under a bounded timeout. Any failure
// returns nil, which sends assembly down the heuristic path.
func (e *Engine) planWeek(ctx context.Context, p Profile, t Targets, rows []int) *WeeklySelection {
	if e.planner == nil || len(rows) == 0 {
		return nil
	}

	candidates := make([]catalog.MealRecord, len(rows))
	for i, row := range rows {
		candidates[i] = e.cat.Record(row)
	}

	ctx, cancel := context.WithTimeout(ctx, e.plannerTimeout)
	defer cancel()

	selection, err := e.planner.PlanWeek(ctx, p, t, candidates)
	if err != nil {
		e.log.Warn().Err(err).Msg("planning collaborator failed, using heuristic assembly")
		return nil
	}
	return selection
}

// generateInsights runs the two enrichment generations in parallel. Each
// branch substitutes its static fallback on failure; one branch failing never
// aborts the other, and the join is bounded by the generators' own timeouts.
func (e *Engine) generateInsights(ctx context.Context, p Profile) (insight, tip string) {
	insight, tip = fallbackInsight, fallbackTip
	if e.insights == nil {
		return insight, tip
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if s, err := e.insights.Insight(gctx, p); err == nil && s != "" {
			insight = s
		} else if err != nil {
			e.log.Warn().Err(err).Msg("insight generation failed, using fallback")
		}
		return nil
	})
	g.Go(func() error {
		if s, err := e.insights.Tip(gctx, p); err == nil && s != "" {
			tip = s
		} else if err != nil {
			e.log.Warn().Err(err).Msg("tip generation failed, using fallback")
		}
		return nil
	})
	_ = g.Wait()
	return insight, tip
}

func (e *Engine) savePlan(ctx context.Context, userID string, rec *Recommendation) {
	if e.plans == nil {
		return
	}
	data, err := json.Marshal(rec.WeekPlan)
	if err != nil {
		e.log.Warn().Err(err).Msg("failed to marshal week plan for persistence")
		return
	}
	if err := e.plans.Save(ctx, userID, data); err != nil {
		e.log.Warn().Err(err).Str("user_id", userID).Msg("failed to persist week plan")
	}
}

// CatalogSize reports the number of loaded meals.
func (e *Engine) CatalogSize() int {
	return e.cat.Len()
}

// Search looks up meals directly on the catalog, independent of targeting.
// An empty query returns a deterministic spread of the tag-filtered rows; a
// non-empty query ranks by lexical similarity.
func (e *Engine) Search(query, tag string) []MealView {
	if e.cat.Empty() {
		return []MealView{}
	}

	tag = strings.ToLower(strings.TrimSpace(tag))
	tagged := make([]int, 0, e.cat.Len())
	for row := 0; row < e.cat.Len(); row++ {
		if tag != "" && tag != "all" && !tagMatches(e.cat.Record(row), tag) {
			continue
		}
		tagged = append(tagged, row)
	}
	if len(tagged) == 0 {
		return []MealView{}
	}

	var rows []int
	if strings.TrimSpace(query) == "" {
		rows = sampleRows(tagged, searchLimit)
	} else {
		allowed := make(map[int]struct{}, len(tagged))
		for _, row := range tagged {
			allowed[row] = struct{}{}
		}
		hits := e.cat.Text().Query(query, searchLimit, func(doc int) bool {
			_, ok := allowed[doc]
			return ok
		})
		for _, h := range hits {
			rows = append(rows, h.Doc)
		}
	}

	out := make([]MealView, 0, len(rows))
	for _, row := range rows {
		out = append(out, FormatMeal(e.cat.Record(row)))
	}
	return out
}

// tagMatches does a case-insensitive partial match across a record's tags.
func tagMatches(rec catalog.MealRecord, tag string) bool {
	for _, t := range rec.Tags {
		if strings.Contains(t, tag) {
			return true
		}
	}
	return false
}

// sampleRows takes an evenly-strided spread of up to limit rows. Index-based
// so repeated calls over the same catalog return the same selection.
func sampleRows(rows []int, limit int) []int {
	if len(rows) <= limit {
		return rows
	}
	step := len(rows) / limit
	out := make([]int, 0, limit)
	for i := 0; i < len(rows) && len(out) < limit; i += step {
		out = append(out, rows[i])
	}
	return out
}
