package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	rolectl "github.com/userservice/userservice/internal/db/controller/role"
	userctl "github.com/userservice/userservice/internal/db/controller/user"
	"github.com/userservice/userservice/internal/db/models"
)

// AssignRole grants the role to the user. Granting a held role is a no-op.
// The user row stays locked for the whole read-modify-write.
func (s *Service) AssignRole(ctx context.Context, userID uint64, roleName string) (*UserView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := userctl.LockByID(tx, userID); err != nil {
			return mapUserError(err)
		}

		role, err := findRole(tx, roleName)
		if err != nil {
			return err
		}

		return userctl.AddRole(tx, userID, role.ID)
	})
	if err != nil {
		return nil, mapUserError(err)
	}

	return s.GetUser(ctx, userID)
}

// RemoveRole revokes the role from the user. Revoking a role that is not held is a no-op,
// and the user may end up without any role.
func (s *Service) RemoveRole(ctx context.Context, userID uint64, roleName string) (*UserView, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := userctl.LockByID(tx, userID); err != nil {
			return mapUserError(err)
		}

		role, err := findRole(tx, roleName)
		if errors.Is(err, ErrRoleNotFound) {
			return nil
		}

		if err != nil {
			return err
		}

		return userctl.RemoveRoles(tx, userID, role.ID)
	})
	if err != nil {
		return nil, mapUserError(err)
	}

	return s.GetUser(ctx, userID)
}

// findRole parses the name against the closed registry before touching storage.
func findRole(db *gorm.DB, roleName string) (*models.Role, error) {
	name, err := ParseRoleName(roleName)
	if err != nil {
		return nil, err
	}

	role, err := rolectl.FindByName(db, string(name))
	if errors.Is(err, rolectl.ErrRoleNotFound) {
		return nil, ErrRoleNotFound
	}

	return role, err
}
