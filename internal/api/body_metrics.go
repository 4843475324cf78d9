package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/verte-zerg/tuilift/internal/model"
)

// DefaultWeightMonths is the trailing window used when months is not positive.
const DefaultWeightMonths = 3

// GetProfile returns the user's profile; the server creates it on first access.
func (c *Client) GetProfile(ctx context.Context) (*model.UserProfile, error) {
	var out model.UserProfile
	if err := c.get(ctx, "/body-metrics/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (*model.UserProfile, error) {
	var out model.UserProfile
	if err := c.patch(ctx, "/body-metrics/profile", patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListWeightLogs returns weight logs from the trailing window of months.
func (c *Client) ListWeightLogs(ctx context.Context, months int) ([]model.WeightLog, error) {
	if months <= 0 {
		months = DefaultWeightMonths
	}
	params := url.Values{}
	params.Set("months", strconv.Itoa(months))
	var out []model.WeightLog
	if err := c.get(ctx, "/body-metrics/weight", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateWeightLog records a body-weight measurement.
func (c *Client) CreateWeightLog(ctx context.Context, in model.WeightLogInput) (*model.WeightLog, error) {
	var out model.WeightLog
	if err := c.post(ctx, "/body-metrics/weight", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWeightLog removes a measurement.
func (c *Client) DeleteWeightLog(ctx context.Context, id string) error {
	return c.delete(ctx, "/body-metrics/weight/"+escape(id))
}
