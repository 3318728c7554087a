package models

import "time"

// UserProfile is the body profile the health advice is computed from.
// Edits replace the whole record.
type UserProfile struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Name      string    `json:"name,omitempty"`
	WeightKg  float64   `gorm:"not null" json:"weight_kg"`
	HeightCm  float64   `gorm:"not null" json:"height_cm"`
	UpdatedAt time.Time `json:"updated_at"`
}
