package models

import "time"

// AuditLog records mutating operations of authenticated users. Append-only.
type AuditLog struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    *uint  `gorm:"index"`
	Method    string `gorm:"size:16"`
	Path      string `gorm:"size:255"`
	Action    string `gorm:"size:2048"`
	Status    int
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time
}

// Security event kinds.
const (
	SecRateLimit        = "rate_limit"
	SecSuspiciousUpload = "suspicious_upload"
	SecInjectionPattern = "injection_pattern"
	SecLoginLockout     = "login_lockout"
)

// SecurityEvent records security-relevant rejections (suspicious uploads,
// rate-limit breaches, injection-pattern matches), separate from the
// application error path. Append-only.
type SecurityEvent struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    *uint  `gorm:"index"`
	Kind      string `gorm:"size:32;index;not null"`
	Detail    string `gorm:"size:1024"`
	IP        string `gorm:"size:64"`
	CreatedAt time.Time
}
