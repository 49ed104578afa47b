package models

import "time"

// CVSection is one block of the public CV, stored as Markdown and rendered
// to HTML on read. Hidden sections stay editable in the admin panel.
type CVSection struct {
	ID        uint   `gorm:"primaryKey"`
	Slug      string `gorm:"size:64;uniqueIndex;not null"`
	Title     string `gorm:"size:128;not null"`
	Body      string `gorm:"type:text"` // markdown
	SortOrder int    `gorm:"index;not null;default:0"`
	Visible   bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
