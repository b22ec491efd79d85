// Package user provides persistence operations for principals and their role links.
package user

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/userservice/userservice/internal/db/models"
)

const (
	usernameQueryPattern = "username = ?"
	emailQueryPattern    = "email = ?"
	rolesPreload         = "Roles.Permissions"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// FindByID retrieves a user with roles and permissions by its ID.
func FindByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return first(db.Preload(rolesPreload), "id = ?", id)
}

// FindByUsername retrieves a user with roles and permissions by username.
func FindByUsername(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return first(db.Preload(rolesPreload), usernameQueryPattern, username)
}

// FindByEmail retrieves a user with roles and permissions by email.
func FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return first(db.Preload(rolesPreload), emailQueryPattern, email)
}

// LockByID loads the bare user row for update.
// Call it inside a transaction so the lock is held until commit.
func LockByID(tx *gorm.DB, id uint64) (*models.User, error) {
	if tx == nil {
		return nil, ErrDBNil
	}

	return first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func first(db *gorm.DB, query string, arg any) (*models.User, error) {
	var user models.User

	result := db.Where(query, arg).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &user, nil
}

// ExistsByUsername reports whether the username is taken.
func ExistsByUsername(db *gorm.DB, username string) (bool, error) {
	return exists(db, usernameQueryPattern, username)
}

// ExistsByEmail reports whether the email is in use.
func ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	return exists(db, emailQueryPattern, email)
}

func exists(db *gorm.DB, query string, arg any) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64
	if err := db.Model(&models.User{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// Save inserts the user or updates its columns when it already has an ID.
// Role links are not touched, use AddRole and RemoveRoles for those.
func Save(db *gorm.DB, user *models.User) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Omit(clause.Associations).Save(user).Error
}

// DeleteByID removes the user and its role links. Roles and permissions stay.
func DeleteByID(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}

// FindAll retrieves all users with roles and permissions ordered by ID.
func FindAll(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	if err := db.Preload(rolesPreload).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Count returns the number of stored users.
func Count(db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	err := db.Model(&models.User{}).Count(&count).Error

	return count, err
}

// AddRole links the role to the user. An existing link is left as is.
func AddRole(db *gorm.DB, userID uint64, roleID uint) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, RoleID: roleID}).Error
}

// RemoveRoles unlinks the given roles from the user. Missing links are ignored.
func RemoveRoles(db *gorm.DB, userID uint64, roleIDs ...uint) error {
	if db == nil {
		return ErrDBNil
	}

	if len(roleIDs) == 0 {
		return nil
	}

	return db.Where("user_id = ? AND role_id IN ?", userID, roleIDs).Delete(&models.UserRole{}).Error
}
