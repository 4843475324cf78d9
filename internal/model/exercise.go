package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MuscleGroup tags the primary muscle group an exercise trains.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleCore       MuscleGroup = "core"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleFullBody   MuscleGroup = "full_body"
)

// MuscleGroups lists every muscle group in display order.
var MuscleGroups = []MuscleGroup{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps, MuscleForearms,
	MuscleCore, MuscleQuads, MuscleHamstrings, MuscleGlutes, MuscleCalves, MuscleFullBody,
}

// ParseMuscleGroup validates a muscle group name.
func ParseMuscleGroup(s string) (MuscleGroup, error) {
	v := MuscleGroup(strings.ToLower(strings.TrimSpace(s)))
	for _, g := range MuscleGroups {
		if g == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown muscle group %q", s)
}

// Category classifies an exercise.
type Category string

const (
	CategoryCompound    Category = "compound"
	CategoryIsolation   Category = "isolation"
	CategoryCardio      Category = "cardio"
	CategoryFlexibility Category = "flexibility"
)

// Categories lists every exercise category.
var Categories = []Category{CategoryCompound, CategoryIsolation, CategoryCardio, CategoryFlexibility}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	v := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories {
		if c == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Exercise is a user-defined exercise in the catalog.
type Exercise struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	MuscleGroup MuscleGroup `json:"muscle_group"`
	Category    Category    `json:"category"`
	Notes       *string     `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ExerciseInput is the body for creating an exercise.
type ExerciseInput struct {
	Name        string      `json:"name"`
	MuscleGroup MuscleGroup `json:"muscle_group"`
	Category    Category    `json:"category,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
}

// Validate checks the input against the limits the API enforces.
func (in ExerciseInput) Validate() error {
	if err := ValidateName(in.Name); err != nil {
		return err
	}
	if _, err := ParseMuscleGroup(string(in.MuscleGroup)); err != nil {
		return err
	}
	if in.Category != "" {
		if _, err := ParseCategory(string(in.Category)); err != nil {
			return err
		}
	}
	return nil
}

// ExercisePatch is a partial update; nil fields are left unchanged.
type ExercisePatch struct {
	Name        *string      `json:"name,omitempty"`
	MuscleGroup *MuscleGroup `json:"muscle_group,omitempty"`
	Category    *Category    `json:"category,omitempty"`
	Notes       *string      `json:"notes,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ExercisePatch) Empty() bool {
	return p.Name == nil && p.MuscleGroup == nil && p.Category == nil && p.Notes == nil
}

// ValidateName checks the 1-100 character limit shared by exercises and
// routines.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 1 || n > 100 {
		return fmt.Errorf("name must be 1-100 characters")
	}
	return nil
}
