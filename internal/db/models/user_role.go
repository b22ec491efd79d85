package models

// UserRole represents the many-to-many relationship between users and roles.
// Role mutations write this table directly so a single row insert or delete
// is the whole change.
type UserRole struct {
	// UserID is the ID of the user holding the role.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// RoleID is the ID of the held role.
	RoleID uint `gorm:"primaryKey;column:role_id"`
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}
