package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"nutriguide/internal/catalog"
	"nutriguide/internal/engine"
	"nutriguide/internal/llm"
	"nutriguide/internal/shared"
)

//go:embed week_prompt.md
var weekPrompt string

// maxPromptCandidates bounds how many meals are listed in the planning
// prompt, keeping it inside the model's useful context.
const maxPromptCandidates = 80

// Recorder receives operational metadata for each collaborator execution.
type Recorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// Planner is the generative planning collaborator. It proposes day-by-day
// meal ids from a candidate set; the engine treats any failure here as
// recoverable.
type Planner struct {
	textGen  llm.TextGenerator
	recorder Recorder
}

// NewPlanner creates a Planner. recorder may be nil.
func NewPlanner(textGen llm.TextGenerator, recorder Recorder) *Planner {
	return &Planner{textGen: textGen, recorder: recorder}
}

type weekPromptData struct {
	Goal           string
	DietType       string
	TargetCalories int
	Candidates     []promptCandidate
}

type promptCandidate struct {
	ID   int64
	Name string
	Tags string
}

// PlanWeek asks the model for a 7-day selection over the candidate set and
// validates its output against a strict schema. A schema mismatch is an
// error, never a guess.
func (p *Planner) PlanWeek(ctx context.Context, profile engine.Profile, targets engine.Targets, candidates []catalog.MealRecord) (*engine.WeeklySelection, error) {
	if len(candidates) > maxPromptCandidates {
		candidates = candidates[:maxPromptCandidates]
	}

	data := weekPromptData{
		Goal:           profile.Goal,
		DietType:       profile.DietType,
		TargetCalories: int(targets.Calories),
	}
	for _, rec := range candidates {
		tags := rec.Tags
		if len(tags) > 3 {
			tags = tags[:3]
		}
		data.Candidates = append(data.Candidates, promptCandidate{
			ID:   rec.ID,
			Name: rec.Name,
			Tags: strings.Join(tags, ", "),
		})
	}

	prompt, err := renderPrompt("week", weekPrompt, data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, prompt)
	p.record("WeekPlanner", resp.Usage, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("week plan generation failed: %w", err)
	}

	selection, err := parseWeeklySelection(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("week plan response rejected: %w", err)
	}
	return selection, nil
}

// parseWeeklySelection validates the model output. Days may be omitted, but a
// present day must be an object of string-or-number slot ids; anything else
// fails the whole response.
func parseWeeklySelection(content string) (*engine.WeeklySelection, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}

	sel := &engine.WeeklySelection{Days: map[string]engine.DaySelection{}}

	if reasoning, ok := raw["reasoning"]; ok {
		if err := json.Unmarshal(reasoning, &sel.Reasoning); err != nil {
			return nil, fmt.Errorf("reasoning is not a string: %w", err)
		}
	}

	for _, day := range engine.WeekDays {
		rawDay, ok := raw[day]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(rawDay, &fields); err != nil {
			return nil, fmt.Errorf("day %s is not an object: %w", day, err)
		}
		var choice engine.DaySelection
		for key, dst := range map[string]*string{
			"breakfast_id": &choice.BreakfastID,
			"lunch_id":     &choice.LunchID,
			"dinner_id":    &choice.DinnerID,
		} {
			rawID, ok := fields[key]
			if !ok {
				continue
			}
			id, err := coerceID(rawID)
			if err != nil {
				return nil, fmt.Errorf("day %s field %s: %w", day, key, err)
			}
			*dst = id
		}
		sel.Days[day] = choice
	}

	if len(sel.Days) == 0 {
		return nil, fmt.Errorf("no recognizable days in response")
	}
	return sel, nil
}

// coerceID accepts a string or numeric JSON token as a meal id.
func coerceID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("id is neither string nor number")
}

func renderPrompt(name, tmplText string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s prompt: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}

func (p *Planner) record(agent string, usage shared.TokenUsage, latency time.Duration) {
	if p.recorder == nil {
		return
	}
	_ = p.recorder.RecordMeta(shared.AgentMeta{
		AgentName: agent,
		Usage:     usage,
		Latency:   latency,
	})
}
