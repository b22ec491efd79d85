package models

import "time"

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	// UserStatusActive is the state of an account that may log in.
	UserStatusActive UserStatus = "ACTIVE"
	// UserStatusInactive is the state of a disabled account.
	UserStatusInactive UserStatus = "INACTIVE"
	// UserStatusSuspended is the state of an account locked by an administrator.
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User represents an account in the system (the principal).
// Effective authorities are derived from Roles and never stored on the user.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Username is the unique login name.
	Username string `gorm:"unique;size:50;not null"`
	// Email is the user's unique email address.
	Email string `gorm:"unique;size:100;not null"`
	// Password is the one-way credential hash. It is never serialized.
	Password string `gorm:"size:255;not null" json:"-"`
	// FirstName is the user's first or given name.
	FirstName string `gorm:"size:100"`
	// LastName is the user's last or family name.
	LastName string `gorm:"size:100"`
	// Name is the free-form display name given at registration.
	Name string `gorm:"size:100"`
	// NID is the national identification number.
	NID string `gorm:"column:nid;size:50"`
	// Phone is the contact phone number.
	Phone string `gorm:"size:50"`
	// Status is the account lifecycle state.
	Status UserStatus `gorm:"type:varchar(20);not null"`
	// Enabled indicates whether the account may authenticate.
	Enabled bool `gorm:"not null"`
	// Roles held by this user, stored in the user_roles join table.
	Roles []Role `gorm:"many2many:user_roles"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}
