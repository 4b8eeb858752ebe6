package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseProfileDefaults(t *testing.T) {
	p, err := ParseProfile([]byte(`{"age": 30, "weight": 80, "height": 180}`))
	if err != nil {
		t.Fatalf("ParseProfile failed: %v", err)
	}
	if p.Gender != "male" {
		t.Errorf("default gender = %q, want male", p.Gender)
	}
	if p.Goal != "maintenance" {
		t.Errorf("default goal = %q, want maintenance", p.Goal)
	}
	if p.ActivityLevel != "sedentary" {
		t.Errorf("default activity = %q, want sedentary", p.ActivityLevel)
	}
	if p.DietType != "any" {
		t.Errorf("default diet = %q, want any", p.DietType)
	}
	if p.UserID != "anonymous" {
		t.Errorf("default user_id = %q, want anonymous", p.UserID)
	}
}

func TestParseProfileCoercesStrings(t *testing.T) {
	p, err := ParseProfile([]byte(`{"age": "45", "weight": "72.5", "height": "168", "diet_type": "Vegan"}`))
	if err != nil {
		t.Fatalf("ParseProfile failed: %v", err)
	}
	if p.Age != 45 || p.WeightKg != 72.5 || p.HeightCm != 168 {
		t.Errorf("coerced values = %d/%v/%v", p.Age, p.WeightKg, p.HeightCm)
	}
	if p.DietType != "vegan" {
		t.Errorf("diet type not lowercased: %q", p.DietType)
	}
}

func TestParseProfileAllergies(t *testing.T) {
	p, err := ParseProfile([]byte(`{"age": 30, "weight": 80, "height": 180, "allergies": ["Peanut", " shellfish ", "", 42]}`))
	if err != nil {
		t.Fatalf("ParseProfile failed: %v", err)
	}
	if want := []string{"Peanut", "shellfish"}; !reflect.DeepEqual(p.Allergies, want) {
		t.Errorf("allergies = %v, want %v", p.Allergies, want)
	}
}

func TestParseProfileValidation(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"not json", `not json`, "profile"},
		{"json array", `[1, 2]`, "profile"},
		{"missing age", `{"weight": 80, "height": 180}`, "age"},
		{"zero age", `{"age": 0, "weight": 80, "height": 180}`, "age"},
		{"negative weight", `{"age": 30, "weight": -5, "height": 180}`, "weight"},
		{"string garbage height", `{"age": 30, "weight": 80, "height": "tall"}`, "height"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tc.body))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !IsValidation(err) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if ve.Field != tc.field {
				t.Errorf("error field = %q, want %q", ve.Field, tc.field)
			}
		})
	}
}
