// Package permission provides persistence operations for the permission catalog.
package permission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/userservice/userservice/internal/db/models"
)

const nameQueryPattern = "name = ?"

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrPermissionNameEmpty is returned when a lookup or save has an empty name.
	ErrPermissionNameEmpty = errors.New("permission name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// FindByName retrieves a permission by its name.
func FindByName(db *gorm.DB, name string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrPermissionNameEmpty
	}

	var permission models.Permission

	result := db.Where(nameQueryPattern, name).First(&permission)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}

		return nil, result.Error
	}

	return &permission, nil
}

// ExistsByName reports whether a permission with the given name is stored.
func ExistsByName(db *gorm.DB, name string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64
	if err := db.Model(&models.Permission{}).Where(nameQueryPattern, name).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// FindAll retrieves all permissions ordered by name.
func FindAll(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var permissions []models.Permission
	if err := db.Order("name").Find(&permissions).Error; err != nil {
		return nil, err
	}

	return permissions, nil
}

// Save inserts the permission or updates it when it already has an ID.
func Save(db *gorm.DB, permission *models.Permission) error {
	if db == nil {
		return ErrDBNil
	}

	if permission.Name == "" {
		return ErrPermissionNameEmpty
	}

	return db.Save(permission).Error
}

// Count returns the number of stored permissions.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	err := db.Model(&models.Permission{}).Count(&count).Error

	return count, err
}
