package entities

import (
	"github.com/google/uuid"
)

// Ingredient is shared reference data; recipes reference it but never
// own it, so deleting a recipe leaves its ingredients in place.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"index;not null" json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`

	Timestamp
}
