// Package role provides persistence operations for the role registry.
package role

import (
	"errors"

	"gorm.io/gorm"

	"github.com/userservice/userservice/internal/db/models"
)

const nameQueryPattern = "name = ?"

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when a lookup or save has an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// FindByName retrieves a role and its permissions by the role name.
func FindByName(db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var role models.Role

	result := db.Preload("Permissions").Where(nameQueryPattern, name).First(&role)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, result.Error
	}

	return &role, nil
}

// ExistsByName reports whether a role with the given name is stored.
func ExistsByName(db *gorm.DB, name string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64
	if err := db.Model(&models.Role{}).Where(nameQueryPattern, name).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// FindAll retrieves all roles with their permissions, ordered by name.
func FindAll(db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var roles []models.Role
	if err := db.Preload("Permissions").Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

// Save inserts the role together with its permission links, or updates an existing one.
// The permissions must already be stored.
func Save(db *gorm.DB, role *models.Role) error {
	if db == nil {
		return ErrDBNil
	}

	if role.Name == "" {
		return ErrRoleNameEmpty
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Save(role).Error; err != nil {
			return err
		}

		return tx.Model(role).Association("Permissions").Replace(role.Permissions)
	})
}

// Count returns the number of stored roles.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	err := db.Model(&models.Role{}).Count(&count).Error

	return count, err
}
