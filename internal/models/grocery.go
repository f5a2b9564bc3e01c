package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// GroceryList is the model for a user's grocery list.
type GroceryList struct {
	gorm.Model
	Name    string       `gorm:"not null"`
	OwnerID uint         `gorm:"index"`
	Items   GroceryItems `gorm:"type:jsonb"`
}

// GroceryItem is a single entry on a grocery list. RecipeID is set when the
// item was added from a recipe's ingredients.
type GroceryItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	RecipeID string `json:"recipe_id,omitempty"`
	Checked  bool   `json:"checked"`
}

// GroceryItems is a slice of GroceryItem stored as JSONB.
type GroceryItems []GroceryItem

// Scan is a GORM hook that scans jsonb into GroceryItems.
func (j *GroceryItems) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := GroceryItems{}
	err := json.Unmarshal(bytes, &result)
	*j = result

	return err
}

// Value is a GORM hook that returns the json value of GroceryItems.
func (j GroceryItems) Value() (driver.Value, error) {
	return json.Marshal(j)
}
