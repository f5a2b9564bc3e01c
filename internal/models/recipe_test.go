package models

import (
	"testing"
)

func TestInstructionsValidate(t *testing.T) {
	cases := []struct {
		name    string
		steps   Instructions
		wantErr bool
	}{
		{"empty", Instructions{}, false},
		{"sequential", Instructions{{Number: 1}, {Number: 2}, {Number: 3}}, false},
		{"gaps allowed", Instructions{{Number: 1}, {Number: 3}, {Number: 7}}, false},
		{"starts at zero", Instructions{{Number: 0}, {Number: 1}}, true},
		{"starts past one", Instructions{{Number: 2}, {Number: 3}}, true},
		{"repeated number", Instructions{{Number: 1}, {Number: 1}}, true},
		{"decreasing", Instructions{{Number: 1}, {Number: 3}, {Number: 2}}, true},
	}
	for _, tc := range cases {
		err := tc.steps.Validate()
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestIngredientsScanValue(t *testing.T) {
	original := Ingredients{
		{OriginalText: "200g spaghetti", Name: "spaghetti", Amount: 200, Unit: "g"},
		{OriginalText: "1 egg"},
	}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}

	var restored Ingredients
	if err := restored.Scan(value); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("restored %d ingredients, want 2", len(restored))
	}
	if restored[0] != original[0] {
		t.Errorf("restored[0] = %+v, want %+v", restored[0], original[0])
	}
}

func TestIngredientsScanRejectsNonBytes(t *testing.T) {
	var ingredients Ingredients
	if err := ingredients.Scan(42); err == nil {
		t.Error("Scan should reject non-byte values")
	}
}

func TestRefreshIngredientText(t *testing.T) {
	r := Recipe{
		Ingredients: Ingredients{
			{OriginalText: "200g Spaghetti", Name: "spaghetti"},
			{Name: "Garlic"},
		},
	}
	r.RefreshIngredientText()

	if len(r.IngredientText) != 2 {
		t.Fatalf("ingredient text lines = %d, want 2", len(r.IngredientText))
	}
	if r.IngredientText[0] != "200g spaghetti" {
		t.Errorf("line 0 = %q, want lowercased original text", r.IngredientText[0])
	}
	// Falls back to the name when there is no original line.
	if r.IngredientText[1] != "garlic" {
		t.Errorf("line 1 = %q, want %q", r.IngredientText[1], "garlic")
	}
}
