package models

import (
	"errors"

	"gorm.io/gorm"
)

// User is the model for a user.
type User struct {
	gorm.Model
	Username  string `gorm:"unique;index"`
	FirstName string `gorm:"default:null"`
	Email     string `gorm:"unique;default:null"`

	Auth         *UserAuth      `gorm:"foreignKey:UserID"`
	GroceryLists []*GroceryList `gorm:"foreignKey:OwnerID"`
	Collections  []*Collection  `gorm:"foreignKey:OwnerID"`
}

// UserAuth is the model for a user's authentication information.
type UserAuth struct {
	gorm.Model
	UserID         uint `gorm:"unique;index"`
	HashedPassword string
	AuthType       UserAuthType `gorm:"type:text"`
}

// UserAuthType is the type for the UserAuthType enum.
type UserAuthType string

// UserAuthType enum values.
const (
	Standard UserAuthType = "standard"
)

// IsValidAuthType checks if the AuthType is valid.
func (ua *UserAuth) IsValidAuthType() bool {
	switch ua.AuthType {
	case Standard:
		return true
	default:
		return false
	}
}

// BeforeCreate is a GORM hook that runs before creating a new UserAuth.
func (ua *UserAuth) BeforeCreate(tx *gorm.DB) (err error) {
	if !ua.IsValidAuthType() {
		return errors.New("invalid AuthType provided")
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a UserAuth.
func (ua *UserAuth) BeforeUpdate(tx *gorm.DB) (err error) {
	if !ua.IsValidAuthType() {
		return errors.New("invalid AuthType provided")
	}
	return nil
}
