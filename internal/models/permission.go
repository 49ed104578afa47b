package models

import "time"

// Permission codes provisioned by cmd/seed. Admin routes are gated on these
// rather than on the role alone.
const (
	PermManageUsers     = "users.manage"
	PermManagePerms     = "permissions.manage"
	PermViewAuditLog    = "audit.view"
	PermViewSecurityLog = "security.view"
	PermManageQuotes    = "quotations.manage"
	PermManageCV        = "cv.manage"
)

// Permission is one entry of the fixed permission catalog.
type Permission struct {
	ID          uint   `gorm:"primaryKey"`
	Code        string `gorm:"size:64;uniqueIndex;not null"`
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
}

// UserPermission grants a permission to a user.
type UserPermission struct {
	ID           uint `gorm:"primaryKey"`
	UserID       uint `gorm:"index:idx_user_perm,unique;not null"`
	PermissionID uint `gorm:"index:idx_user_perm,unique;not null"`
	CreatedAt    time.Time

	User       User       `gorm:"constraint:OnDelete:CASCADE"`
	Permission Permission `gorm:"constraint:OnDelete:CASCADE"`
}
