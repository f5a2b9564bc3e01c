package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// RecipeSource identifies the namespace a recipe's ID belongs to. Provider
// recipes use the upstream numeric ID prefixed with "sp-"; user-authored
// recipes use a generated UUID, so the two namespaces can never collide.
type RecipeSource string

// RecipeSource enum values.
const (
	SourceProvider RecipeSource = "provider"
	SourceUser     RecipeSource = "user"
)

// Recipe is the unit of exchange between the remote provider, the local
// store, and the API surface.
type Recipe struct {
	ID             string       `gorm:"primaryKey" json:"id"`
	Title          string       `gorm:"not null" json:"title"`
	ImageURL       string       `json:"imageUrl,omitempty"`
	ReadyInMinutes int          `json:"readyInMinutes,omitempty"`
	Servings       int          `json:"servings,omitempty"`
	Ingredients    Ingredients  `gorm:"type:jsonb" json:"ingredients"`
	Instructions   Instructions `gorm:"type:jsonb" json:"instructions"`
	// IngredientText holds the lowercased original line of every ingredient.
	// It backs the ingredient fallback query in the repository.
	IngredientText pq.StringArray `gorm:"type:text[]" json:"-"`
	Vegetarian     bool           `gorm:"default:false" json:"vegetarian"`
	Vegan          bool           `gorm:"default:false" json:"vegan"`
	GlutenFree     bool           `gorm:"default:false" json:"glutenFree"`
	DairyFree      bool           `gorm:"default:false" json:"dairyFree"`
	SourceURL      string         `json:"sourceUrl,omitempty"`
	Source         RecipeSource   `gorm:"type:text;index" json:"source"`
	OwnerID        *uint          `gorm:"index" json:"-"`
	CachedAt       time.Time      `gorm:"index" json:"-"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// RefreshIngredientText rebuilds the IngredientText column from the
// Ingredients slice. Must be called before persisting a recipe whose
// ingredients changed.
func (r *Recipe) RefreshIngredientText() {
	text := make(pq.StringArray, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		line := ing.OriginalText
		if line == "" {
			line = ing.Name
		}
		text = append(text, strings.ToLower(line))
	}
	r.IngredientText = text
}

// Ingredient is a single ingredient descriptor. OriginalText is the free-text
// line as it appeared at the source; the structured fields are optional.
type Ingredient struct {
	OriginalText string  `json:"original_text"`
	Name         string  `json:"name,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
	Unit         string  `json:"unit,omitempty"`
}

// Ingredients is a slice of Ingredient.
// This is a workaround for GORM to embed a slice of structs into a JSONB field.
type Ingredients []Ingredient

// Scan is a GORM hook that scans jsonb into Ingredients.
func (j *Ingredients) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := Ingredients{}
	err := json.Unmarshal(bytes, &result)
	*j = result

	return err
}

// Value is a GORM hook that returns the json value of Ingredients.
func (j Ingredients) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// InstructionStep is a single numbered step in a recipe's instructions.
type InstructionStep struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Instructions is a slice of InstructionStep stored as JSONB.
type Instructions []InstructionStep

// Scan is a GORM hook that scans jsonb into Instructions.
func (j *Instructions) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := Instructions{}
	err := json.Unmarshal(bytes, &result)
	*j = result

	return err
}

// Value is a GORM hook that returns the json value of Instructions.
func (j Instructions) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Validate checks the step-numbering invariant: numbers start at 1 and are
// strictly increasing in sequence order. Gaps are allowed.
func (j Instructions) Validate() error {
	if len(j) == 0 {
		return nil
	}
	if j[0].Number != 1 {
		return fmt.Errorf("instruction steps must start at 1, got %d", j[0].Number)
	}
	for i := 1; i < len(j); i++ {
		if j[i].Number <= j[i-1].Number {
			return fmt.Errorf("instruction step %d out of order after %d", j[i].Number, j[i-1].Number)
		}
	}
	return nil
}
