package db

import (
	"errors"
	"fmt"

	"github.com/rafacas/dorkhub/internal/models"
	"github.com/rafacas/dorkhub/internal/password"
	"gorm.io/gorm"
)

// EnsureAdmin makes sure the configured bootstrap account exists as an
// active admin. An existing user with that username is promoted and
// reactivated, keeping its password; otherwise a new admin is created.
// Idempotent, safe to run on every start. No-op when either value is empty.
func EnsureAdmin(db *gorm.DB, username, plainPassword string) error {
	if username == "" || plainPassword == "" {
		return nil
	}

	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	switch {
	case err == nil:
		return db.Model(&user).Updates(map[string]any{
			"is_admin":  true,
			"is_active": true,
		}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := password.Hash(plainPassword)
		if err != nil {
			return fmt.Errorf("hashing bootstrap password: %w", err)
		}
		return db.Create(&models.User{
			Username:     username,
			PasswordHash: hash,
			IsAdmin:      true,
			IsActive:     true,
		}).Error
	default:
		return fmt.Errorf("looking up bootstrap user: %w", err)
	}
}
