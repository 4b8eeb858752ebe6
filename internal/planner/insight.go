package planner

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nutriguide/internal/engine"
)

//go:embed insight_prompt.md
var insightPrompt string

//go:embed tip_prompt.md
var tipPrompt string

type insightPromptData struct {
	Goal          string
	DietType      string
	ActivityLevel string
}

// Insight generates the short greeting text attached to a new plan.
func (p *Planner) Insight(ctx context.Context, profile engine.Profile) (string, error) {
	return p.generateText(ctx, "Insight", insightPrompt, profile)
}

// Tip generates the one-line strategy tip.
func (p *Planner) Tip(ctx context.Context, profile engine.Profile) (string, error) {
	return p.generateText(ctx, "Tip", tipPrompt, profile)
}

// generateText runs one short generation and unwraps the {"text": ...}
// envelope the prompts request.
func (p *Planner) generateText(ctx context.Context, agent, tmplText string, profile engine.Profile) (string, error) {
	prompt, err := renderPrompt(agent, tmplText, insightPromptData{
		Goal:          profile.Goal,
		DietType:      profile.DietType,
		ActivityLevel: profile.ActivityLevel,
	})
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, prompt)
	p.record(agent, resp.Usage, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("%s generation failed: %w", strings.ToLower(agent), err)
	}

	var envelope struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &envelope); err != nil {
		return "", fmt.Errorf("%s response rejected: %w", strings.ToLower(agent), err)
	}
	if strings.TrimSpace(envelope.Text) == "" {
		return "", fmt.Errorf("%s response empty", strings.ToLower(agent))
	}
	return strings.TrimSpace(envelope.Text), nil
}
