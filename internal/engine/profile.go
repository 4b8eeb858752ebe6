package engine

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Profile describes the user for a single recommendation call. It is
// transient; nothing retains it across requests.
type Profile struct {
	Age           int
	WeightKg      float64
	HeightCm      float64
	Gender        string
	Goal          string
	ActivityLevel string
	DietType      string
	Allergies     []string
	UserID        string
}

// ParseProfile decodes a profile from the request JSON. Clients send numerics
// inconsistently (numbers or strings), so fields are coerced rather than
// strictly typed; a field that cannot be coerced is a ValidationError naming
// that field, never a silent zero.
func ParseProfile(data []byte) (Profile, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	raw := map[string]any{}
	if err := dec.Decode(&raw); err != nil {
		return Profile{}, &ValidationError{Field: "profile", Reason: "body is not a JSON object"}
	}

	age, ok := asInt(raw["age"])
	if !ok || age <= 0 {
		return Profile{}, &ValidationError{Field: "age", Reason: "must be a positive integer"}
	}
	weight, ok := asFloat(raw["weight"])
	if !ok || weight <= 0 {
		return Profile{}, &ValidationError{Field: "weight", Reason: "must be a positive number"}
	}
	height, ok := asFloat(raw["height"])
	if !ok || height <= 0 {
		return Profile{}, &ValidationError{Field: "height", Reason: "must be a positive number"}
	}

	p := Profile{
		Age:           age,
		WeightKg:      weight,
		HeightCm:      height,
		Gender:        stringOr(raw["gender"], "male"),
		Goal:          stringOr(raw["goal"], "maintenance"),
		ActivityLevel: stringOr(raw["activity_level"], "sedentary"),
		DietType:      strings.ToLower(stringOr(raw["diet_type"], "any")),
		Allergies:     asStrings(raw["allergies"]),
		UserID:        stringOr(raw["user_id"], "anonymous"),
	}
	return p, nil
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return fallback
}

func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
