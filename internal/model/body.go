package model

import (
	"fmt"
	"time"
)

// WeightLog is one body-weight measurement.
type WeightLog struct {
	ID        string    `json:"id"`
	Weight    float64   `json:"weight"`
	Date      Date      `json:"date"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WeightLogInput is the body for logging body weight.
type WeightLogInput struct {
	Weight float64 `json:"weight"`
	Date   Date    `json:"date"`
	Notes  *string `json:"notes,omitempty"`
}

// Validate checks the weight range.
func (in WeightLogInput) Validate() error {
	if in.Weight <= 0 || in.Weight > 1000 {
		return fmt.Errorf("weight must be greater than 0 and at most 1000")
	}
	if in.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

// UserProfile is the signed-in user's profile.
type UserProfile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	HeightCm    *float64  `json:"height_cm,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProfilePatch is a partial profile update.
type ProfilePatch struct {
	DisplayName *string  `json:"display_name,omitempty"`
	HeightCm    *float64 `json:"height_cm,omitempty"`
}

// Validate checks the height range when set.
func (p ProfilePatch) Validate() error {
	if p.HeightCm != nil && (*p.HeightCm <= 0 || *p.HeightCm > 300) {
		return fmt.Errorf("height must be greater than 0 and at most 300 cm")
	}
	return nil
}
