package repository

import (
	"errors"
	"log"

	"github.com/crumbapp/crumb-api/internal/models"
	"gorm.io/gorm"
)

// UserRepository is a repository for interacting with users.
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser creates a new user with its auth record.
func (r *UserRepository) CreateUser(user *models.User) (*models.User, error) {
	err := r.DB.Create(user).Error
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User

	err := r.DB.First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "User not found"}
		}
		return nil, err
	}

	return &user, nil
}

// GetUserAuthByUsername retrieves a user with their auth record preloaded.
func (r *UserRepository) GetUserAuthByUsername(username string) (*models.User, error) {
	var user models.User

	err := r.DB.Preload("Auth").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "User not found"}
		}
		return nil, err
	}

	return &user, nil
}

// UsernameExists reports whether a username is already taken.
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
