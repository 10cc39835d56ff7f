package entities

import (
	"github.com/google/uuid"
)

// Tag is shared reference data. Name, color and slug are each unique;
// the color is a hex value like #49B64E or #fff.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"uniqueIndex;not null" json:"name"`
	Color string    `gorm:"uniqueIndex;not null" json:"color"`
	Slug  string    `gorm:"uniqueIndex;not null" json:"slug"`

	Timestamp
}
