package models

import "time"

// Quotation statuses.
const (
	QuoteNew      = "new"
	QuoteRead     = "read"
	QuoteReplied  = "replied"
	QuoteArchived = "archived"
)

// Quotation is a contact/quote request submitted from the public site.
// Reference is the identifier shown back to the visitor.
type Quotation struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"size:36;uniqueIndex;not null"` // UUID
	Name      string `gorm:"size:64;not null"`
	Email     string `gorm:"size:128;not null"`
	Subject   string `gorm:"size:128"`
	Message   string `gorm:"type:text;not null"`
	Status    string `gorm:"size:16;index;not null;default:new"`
	IP        string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
