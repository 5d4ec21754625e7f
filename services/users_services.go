package services

import (
	"errors"
	"fmt"

	"api/database"
	"api/models"
	"api/utils"

	"gorm.io/gorm"
)

// GetUserByID fetches a live user by id
func GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := database.DB.Scopes(models.Live).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("用户不存在: " + id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// GetUserByUsername fetches a live user by username
func GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := database.DB.Scopes(models.Live).First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("用户不存在: " + username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// RegisterUser creates a new non-admin user with a hashed password
func RegisterUser(username, password string) (*models.User, error) {
	var count int64
	database.DB.Model(&models.User{}).Where("username = ? AND deleted_at IS NULL", username).Count(&count)
	if count > 0 {
		return nil, InvalidArgument("用户名已存在: " + username)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{Username: username, Password: hashed}
	if err := database.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}
