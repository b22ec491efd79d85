package models

import "time"

// Role represents a named bundle of permissions in the role-based access control system.
// Users hold any number of roles and inherit the union of their permissions.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "ROLE_ADMIN").
	Name string `gorm:"unique;size:50;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// Permissions granted by this role, stored in the role_permissions join table.
	Permissions []Permission `gorm:"many2many:role_permissions;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
