package models

import "time"

// User roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an application user. The email address is never stored in
// plaintext: EmailHash is a deterministic keyed hash used for login lookup,
// EmailEnc an AES-256-GCM ciphertext decrypted only for display.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:64"`
	EmailHash    string `gorm:"size:128;uniqueIndex;not null"`
	EmailEnc     string `gorm:"size:512;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:16;index;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	FailedLoginAttempts int        `gorm:"default:0"`
	LockedUntil         *time.Time `gorm:"index"`
	LastLoginAt         *time.Time
	LastLoginIP         string `gorm:"size:64"`

	// non-nil once the account has been closed
	DeletedAt *time.Time `gorm:"index"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
