package api

import (
	"context"
	"net/url"

	"github.com/verte-zerg/tuilift/internal/model"
)

// ListRoutines returns routines; activeOnly limits to routines scheduled for today.
func (c *Client) ListRoutines(ctx context.Context, activeOnly bool) ([]model.Routine, error) {
	params := url.Values{}
	if activeOnly {
		params.Set("active_only", "true")
	}
	var out []model.Routine
	if err := c.get(ctx, "/routines", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRoutine fetches a single routine.
func (c *Client) GetRoutine(ctx context.Context, id string) (*model.Routine, error) {
	var out model.Routine
	if err := c.get(ctx, "/routines/"+escape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRoutine stores a new routine.
func (c *Client) CreateRoutine(ctx context.Context, in model.RoutineInput) (*model.Routine, error) {
	if in.Provisions == nil {
		in.Provisions = model.Provisions{}
	}
	var out model.Routine
	if err := c.post(ctx, "/routines", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRoutine applies a partial update.
func (c *Client) UpdateRoutine(ctx context.Context, id string, patch model.RoutinePatch) (*model.Routine, error) {
	var out model.Routine
	if err := c.patch(ctx, "/routines/"+escape(id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRoutine removes a routine.
func (c *Client) DeleteRoutine(ctx context.Context, id string) error {
	return c.delete(ctx, "/routines/"+escape(id))
}
