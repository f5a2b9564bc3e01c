package models

import "gorm.io/gorm"

// Collection is the model for a named recipe collection.
type Collection struct {
	gorm.Model
	Name    string    `gorm:"not null"`
	OwnerID uint      `gorm:"index"`
	Recipes []*Recipe `gorm:"many2many:collection_recipes;"`
}
