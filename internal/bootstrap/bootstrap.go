// Package bootstrap populates the reference data and demo accounts of a fresh database.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/userservice/userservice/internal/auth"
	"github.com/userservice/userservice/internal/config"
	permissionctl "github.com/userservice/userservice/internal/db/controller/permission"
	rolectl "github.com/userservice/userservice/internal/db/controller/role"
	userctl "github.com/userservice/userservice/internal/db/controller/user"
	"github.com/userservice/userservice/internal/db/models"
)

// Initialize seeds permissions, roles and the configured users. Every table is only
// populated while it is empty, so running it again is a no-op.
func Initialize(ctx context.Context, db *gorm.DB, hasher auth.Hasher, seed config.Seed) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedPermissions(tx); err != nil {
			return err
		}

		if err := seedRoles(tx); err != nil {
			return err
		}

		if !seed.Enabled {
			return nil
		}

		return seedUsers(tx, hasher, seed.Users)
	})
}

func seedPermissions(tx *gorm.DB) error {
	count, err := permissionctl.Count(tx)
	if err != nil {
		return fmt.Errorf("failed to count permissions: %w", err)
	}

	if count > 0 {
		log.Debug().Int64("count", count).Msg("permissions already populated")
		return nil
	}

	for _, name := range auth.AllPermissionNames() {
		p := &models.Permission{Name: string(name), Description: name.Description()}
		if err := permissionctl.Save(tx, p); err != nil {
			return fmt.Errorf("failed to create permission %s: %w", name, err)
		}
	}

	log.Info().Int("count", len(auth.AllPermissionNames())).Msg("permissions initialized")

	return nil
}

func seedRoles(tx *gorm.DB) error {
	count, err := rolectl.Count(tx)
	if err != nil {
		return fmt.Errorf("failed to count roles: %w", err)
	}

	if count > 0 {
		log.Debug().Int64("count", count).Msg("roles already populated")
		return nil
	}

	graph := auth.DefaultRolePermissions()

	for _, name := range auth.AllRoleNames() {
		role := &models.Role{Name: string(name), Description: name.Description()}

		for _, permName := range graph[name] {
			p, err := permissionctl.FindByName(tx, string(permName))
			if err != nil {
				return fmt.Errorf("role %s needs permission %s: %w", name, permName, err)
			}

			role.Permissions = append(role.Permissions, *p)
		}

		if err := rolectl.Save(tx, role); err != nil {
			return fmt.Errorf("failed to create role %s: %w", name, err)
		}
	}

	log.Info().Int("count", len(graph)).Msg("roles initialized")

	return nil
}

func seedUsers(tx *gorm.DB, hasher auth.Hasher, users []config.SeedUser) error {
	count, err := userctl.Count(tx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	if count > 0 {
		log.Debug().Int64("count", count).Msg("users already populated")
		return nil
	}

	for _, su := range users {
		roleName := su.Role
		if roleName == "" {
			roleName = string(auth.DefaultRole)
		}

		name, err := auth.ParseRoleName(roleName)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.Username, err)
		}

		role, err := rolectl.FindByName(tx, string(name))
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.Username, err)
		}

		hash, err := hasher.Hash(su.Password)
		if err != nil {
			return err
		}

		u := &models.User{
			Username:  su.Username,
			Email:     su.Email,
			Password:  hash,
			FirstName: su.FirstName,
			LastName:  su.LastName,
			Status:    models.UserStatusActive,
			Enabled:   true,
		}

		if err := userctl.Save(tx, u); err != nil {
			return fmt.Errorf("failed to create user %s: %w", su.Username, err)
		}

		if err := userctl.AddRole(tx, u.ID, role.ID); err != nil {
			return fmt.Errorf("failed to assign %s to %s: %w", name, su.Username, err)
		}

		log.Info().Str("username", su.Username).Str("role", string(name)).Msg("seed user created")
	}

	return nil
}
