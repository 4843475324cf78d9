package api

import (
	"context"
	"net/url"

	"github.com/verte-zerg/tuilift/internal/model"
)

// ListExercises returns the catalog, optionally filtered by muscle group.
func (c *Client) ListExercises(ctx context.Context, muscleGroup model.MuscleGroup) ([]model.Exercise, error) {
	params := url.Values{}
	if muscleGroup != "" {
		params.Set("muscle_group", string(muscleGroup))
	}
	var out []model.Exercise
	if err := c.get(ctx, "/exercises", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateExercise adds an exercise to the catalog.
func (c *Client) CreateExercise(ctx context.Context, in model.ExerciseInput) (*model.Exercise, error) {
	var out model.Exercise
	if err := c.post(ctx, "/exercises", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateExercise applies a partial update.
func (c *Client) UpdateExercise(ctx context.Context, id string, patch model.ExercisePatch) (*model.Exercise, error) {
	var out model.Exercise
	if err := c.patch(ctx, "/exercises/"+escape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteExercise removes an exercise. Past sessions keep its name.
func (c *Client) DeleteExercise(ctx context.Context, id string) error {
	return c.delete(ctx, "/exercises/"+escape(id))
}
