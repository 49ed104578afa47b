package models

import (
	"strings"
	"time"
)

// Category represents an income/expense category. UserID nil means the
// category is global (seeded); user-owned categories shadow nothing, both
// sets are searched by the suggester.
type Category struct {
	ID     uint   `gorm:"primaryKey"`
	UserID *uint  `gorm:"index"`
	Name   string `gorm:"size:64;not null"`
	Type   string `gorm:"size:16;index;not null"` // income / expense
	// comma-separated lowercase keywords used by auto-suggestion
	Keywords  string `gorm:"size:512"`
	Icon      string `gorm:"size:32"`
	Color     string `gorm:"size:16"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// KeywordList splits the stored keyword string, dropping empties.
func (c *Category) KeywordList() []string {
	if c.Keywords == "" {
		return nil
	}
	parts := strings.Split(c.Keywords, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Rule match fields.
const (
	RuleFieldMerchant    = "merchant"
	RuleFieldDescription = "description"
	RuleFieldAny         = "any"
)

// CategoryRule is a user-defined categorization rule. Rules are evaluated
// before keyword matching, in ascending Priority order; the first substring
// match wins with a fixed confidence of 0.95.
type CategoryRule struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index;not null"`
	Pattern    string `gorm:"size:128;not null"`
	MatchField string `gorm:"size:16;not null;default:any"`
	CategoryID uint   `gorm:"not null"`
	Priority   int    `gorm:"index;not null;default:100"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category Category `gorm:"constraint:OnDelete:CASCADE"`
}
