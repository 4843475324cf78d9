package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/verte-zerg/tuilift/internal/model"
)

// DefaultSessionLimit is the page size used when SessionFilter.Limit is unset.
const DefaultSessionLimit = 50

// SessionFilter narrows ListSessions. Zero values are omitted.
type SessionFilter struct {
	Start *model.Date
	End   *model.Date
	Limit int
}

func (f SessionFilter) values() url.Values {
	params := url.Values{}
	if f.Start != nil {
		params.Set("start_date", f.Start.String())
	}
	if f.End != nil {
		params.Set("end_date", f.End.String())
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	params.Set("limit", strconv.Itoa(limit))
	return params
}

// ListSessions returns sessions, newest first.
func (c *Client) ListSessions(ctx context.Context, filter SessionFilter) ([]model.WorkoutSession, error) {
	var out []model.WorkoutSession
	if err := c.get(ctx, "/sessions", filter.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetActiveSession returns the unfinished session, or nil when there is none.
func (c *Client) GetActiveSession(ctx context.Context) (*model.WorkoutSession, error) {
	var out *model.WorkoutSession
	if err := c.get(ctx, "/sessions/active", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession starts a session.
func (c *Client) CreateSession(ctx context.Context, in model.SessionInput) (*model.WorkoutSession, error) {
	var out model.WorkoutSession
	if err := c.post(ctx, "/sessions", in, &out); err != nil {
		return nil, err
	}
	return checkSession(http.MethodPost, "/sessions", &out)
}

// FinishSession sets the end time of a session.
func (c *Client) FinishSession(ctx context.Context, id string) (*model.WorkoutSession, error) {
	path := "/sessions/" + escape(id) + "/finish"
	var out model.WorkoutSession
	if err := c.post(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return checkSession(http.MethodPost, path, &out)
}

// AddExercise appends a performed exercise and returns the updated session.
func (c *Client) AddExercise(ctx context.Context, sessionID string, in model.AddExerciseInput) (*model.WorkoutSession, error) {
	path := "/sessions/" + escape(sessionID) + "/exercises"
	var out model.WorkoutSession
	if err := c.post(ctx, path, in, &out); err != nil {
		return nil, err
	}
	return checkSession(http.MethodPost, path, &out)
}

// AddSet appends a set to a performed exercise and returns the updated session.
func (c *Client) AddSet(ctx context.Context, sessionID, performedExerciseID string, in model.SetInput) (*model.WorkoutSession, error) {
	path := "/sessions/" + escape(sessionID) + "/exercises/" + escape(performedExerciseID) + "/sets"
	var out model.WorkoutSession
	if err := c.post(ctx, path, in, &out); err != nil {
		return nil, err
	}
	return checkSession(http.MethodPost, path, &out)
}

// checkSession rejects a decoded session without an id.
func checkSession(method, path string, s *model.WorkoutSession) (*model.WorkoutSession, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("api: decode %s %s: session has no id", method, path)
	}
	return s, nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.delete(ctx, "/sessions/"+escape(id))
}
