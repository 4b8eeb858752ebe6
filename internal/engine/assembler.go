package engine

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"nutriguide/internal/catalog"
)

// WeekDays are the fixed day names of a week plan, in order.
var WeekDays = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Slot is one meal position within a day.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
)

var slots = [3]Slot{SlotBreakfast, SlotLunch, SlotDinner}

// Keyword heuristics for slot assignment when the dataset's own tags don't
// say. Anything matching neither list defaults to dinner.
var (
	breakfastKeywords = []string{"oats", "eggs", "pancake", "waffle", "smoothie", "cereal", "toast"}
	lunchKeywords     = []string{"sandwich", "wrap", "soup", "salad", "burger"}
)

// DaySelection is the external planner's choice for one day.
type DaySelection struct {
	BreakfastID string `json:"breakfast_id"`
	LunchID     string `json:"lunch_id"`
	DinnerID    string `json:"dinner_id"`
}

// WeeklySelection is the validated output of the external planning
// collaborator. Days may be missing and ids may be unknown; the assembler
// tolerates both.
type WeeklySelection struct {
	Days      map[string]DaySelection
	Reasoning string
}

// DayMeals is one day of the week plan. A nil slot means no meal assigned.
type DayMeals struct {
	Breakfast *MealView `json:"breakfast"`
	Lunch     *MealView `json:"lunch"`
	Dinner    *MealView `json:"dinner"`
}

// WeekPlan maps day names to their meals.
type WeekPlan map[string]*DayMeals

// Assembler fills a week plan from a candidate set. It never fails: every
// degraded input falls through to the next heuristic, bottoming out at "one
// meal per slot from the unfiltered catalog".
type Assembler struct {
	cat *catalog.Catalog
	log zerolog.Logger
}

// NewAssembler creates an Assembler over the loaded catalog.
func NewAssembler(cat *catalog.Catalog, log zerolog.Logger) *Assembler {
	return &Assembler{cat: cat, log: log}
}

// Assemble builds the 7-day plan plus the deduplicated preview list of every
// distinct meal used. When sel is nil or resolves to nothing usable, the
// heuristic path takes over.
func (a *Assembler) Assemble(candidates []int, sel *WeeklySelection) (WeekPlan, []MealView) {
	candidates = a.ensureCandidates(candidates)
	if len(candidates) == 0 {
		// Catalog is empty; nothing to assemble.
		return WeekPlan{}, []MealView{}
	}

	plan := WeekPlan{}
	if sel != nil {
		plan = a.assembleFromSelection(candidates, sel)
	}
	if len(plan) == 0 {
		a.log.Debug().Msg("no usable planner selection, assembling heuristically")
		plan = a.assembleHeuristic(candidates)
	}

	return plan, previews(plan)
}

// ensureCandidates guarantees a non-empty working set for a non-empty
// catalog. The absolute floor is a prefix of the unfiltered catalog.
func (a *Assembler) ensureCandidates(candidates []int) []int {
	if len(candidates) > 0 {
		return candidates
	}
	n := a.cat.Len()
	if n > scarcityFallbackSize {
		n = scarcityFallbackSize
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// assembleFromSelection resolves the external planner's (day, slot, id)
// tuples against the candidate set. Unresolvable ids degrade to a tag
// heuristic pick, then to the first candidate unused that day.
func (a *Assembler) assembleFromSelection(candidates []int, sel *WeeklySelection) WeekPlan {
	plan := WeekPlan{}
	for _, day := range WeekDays {
		choice, ok := sel.Days[day]
		if !ok {
			continue
		}
		usedToday := map[int64]struct{}{}
		dayMeals := &DayMeals{}
		for _, slot := range slots {
			row := a.resolveSlot(candidates, choice.slotID(slot), slot, usedToday)
			if row < 0 {
				continue
			}
			rec := a.cat.Record(row)
			usedToday[rec.ID] = struct{}{}
			view := FormatMeal(rec)
			dayMeals.set(slot, &view)
		}
		if dayMeals.Breakfast != nil || dayMeals.Lunch != nil || dayMeals.Dinner != nil {
			plan[day] = dayMeals
		}
	}
	return plan
}

func (d DaySelection) slotID(slot Slot) string {
	switch slot {
	case SlotBreakfast:
		return d.BreakfastID
	case SlotLunch:
		return d.LunchID
	default:
		return d.DinnerID
	}
}

func (m *DayMeals) set(slot Slot, view *MealView) {
	switch slot {
	case SlotBreakfast:
		m.Breakfast = view
	case SlotLunch:
		m.Lunch = view
	default:
		m.Dinner = view
	}
}

// resolveSlot finds the candidate row for a planner-chosen id, or a fallback.
// Returns -1 only when every candidate is already used today.
func (a *Assembler) resolveSlot(candidates []int, id string, slot Slot, usedToday map[int64]struct{}) int {
	if target, ok := parseMealID(id); ok {
		for _, row := range candidates {
			rec := a.cat.Record(row)
			if rec.ID != target {
				continue
			}
			if _, used := usedToday[rec.ID]; used {
				break
			}
			return row
		}
	}

	// Tag heuristic: first unused candidate that looks like this slot.
	for _, row := range candidates {
		rec := a.cat.Record(row)
		if _, used := usedToday[rec.ID]; used {
			continue
		}
		if slotFor(rec) == slot {
			return row
		}
	}
	// Last resort: first unused candidate of any kind.
	for _, row := range candidates {
		rec := a.cat.Record(row)
		if _, used := usedToday[rec.ID]; !used {
			return row
		}
	}
	return -1
}

// parseMealID parses a planner-returned id. Collaborators have been seen
// returning "123", "123.0" and numbers, so parse through float.
func parseMealID(id string) (int64, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(id, 64)
	if err != nil {
		return 0, false
	}
	return int64(f), true
}

// slotFor buckets a record into the slot its tags and name suggest.
func slotFor(rec catalog.MealRecord) Slot {
	name := strings.ToLower(rec.Name)
	if rec.HasTag(string(SlotBreakfast)) || containsAny(name, breakfastKeywords) {
		return SlotBreakfast
	}
	if rec.HasTag(string(SlotLunch)) || containsAny(name, lunchKeywords) {
		return SlotLunch
	}
	return SlotDinner
}

// assembleHeuristic partitions candidates into slot buckets and fills all 7
// days, deduplicating by meal id within each day.
func (a *Assembler) assembleHeuristic(candidates []int) WeekPlan {
	buckets := map[Slot][]int{}
	for _, row := range candidates {
		slot := slotFor(a.cat.Record(row))
		buckets[slot] = append(buckets[slot], row)
	}

	// Backfill underfilled buckets from the remaining pool, keeping catalog
	// order so the fallback stays deterministic.
	for _, slot := range slots {
		have := map[int64]struct{}{}
		for _, row := range buckets[slot] {
			have[a.cat.Record(row).ID] = struct{}{}
		}
		for _, row := range candidates {
			if len(buckets[slot]) >= len(WeekDays) {
				break
			}
			id := a.cat.Record(row).ID
			if _, dup := have[id]; dup {
				continue
			}
			have[id] = struct{}{}
			buckets[slot] = append(buckets[slot], row)
		}
	}

	plan := WeekPlan{}
	for i, day := range WeekDays {
		usedToday := map[int64]struct{}{}
		dayMeals := &DayMeals{}
		for _, slot := range slots {
			row := pickRotating(a.cat, buckets[slot], i, usedToday)
			if row < 0 {
				// Bucket exhausted for today; borrow from any other slot's
				// bucket rather than leaving the slot empty.
				row = pickRotating(a.cat, candidates, i, usedToday)
			}
			if row < 0 {
				continue
			}
			rec := a.cat.Record(row)
			usedToday[rec.ID] = struct{}{}
			view := FormatMeal(rec)
			dayMeals.set(slot, &view)
		}
		plan[day] = dayMeals
	}
	return plan
}

// pickRotating selects bucket[day mod len], advancing past meals already used
// today. Returns -1 when every entry is used.
func pickRotating(cat *catalog.Catalog, bucket []int, day int, usedToday map[int64]struct{}) int {
	if len(bucket) == 0 {
		return -1
	}
	start := day % len(bucket)
	for off := 0; off < len(bucket); off++ {
		row := bucket[(start+off)%len(bucket)]
		if _, used := usedToday[cat.Record(row).ID]; !used {
			return row
		}
	}
	return -1
}

// previews collects every distinct meal actually used, in day order.
func previews(plan WeekPlan) []MealView {
	seen := map[string]struct{}{}
	out := []MealView{}
	for _, day := range WeekDays {
		dayMeals, ok := plan[day]
		if !ok {
			continue
		}
		for _, view := range []*MealView{dayMeals.Breakfast, dayMeals.Lunch, dayMeals.Dinner} {
			if view == nil {
				continue
			}
			if _, dup := seen[view.ID]; dup {
				continue
			}
			seen[view.ID] = struct{}{}
			out = append(out, *view)
		}
	}
	return out
}
