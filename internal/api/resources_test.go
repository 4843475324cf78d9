package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuilift/internal/api"
	"github.com/verte-zerg/tuilift/internal/model"
)

func TestListExercises_MuscleGroupFilter(t *testing.T) {
	name := gofakeit.Name()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/exercises": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "chest", r.URL.Query().Get("muscle_group"))
			writeTestJSON(t, w, http.StatusOK, []map[string]any{
				{"id": "e1", "user_id": "u1", "name": name, "muscle_group": "chest", "category": "compound"},
			})
		},
	})

	out, err := newTestClient(ts, nil).ListExercises(context.Background(), model.MuscleChest)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, name, out[0].Name)
	assert.Equal(t, model.CategoryCompound, out[0].Category)
}

func TestListRoutines_ActiveOnly(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/routines": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("active_only"))
			_, _ = w.Write([]byte(`[{"id":"r1","name":"Push","provisions":[
				{"type":"exercise","id":"p1","exercise_id":"e1","target_sets":3,"target_reps":10,"rest_seconds":60,"order":0},
				{"type":"superset","id":"p2","items":[],"rest_seconds":90,"order":1}
			]}]`))
		},
	})

	out, err := newTestClient(ts, nil).ListRoutines(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Provisions, 2)
	assert.IsType(t, model.ExerciseProvision{}, out[0].Provisions[0])
	assert.IsType(t, model.SupersetProvision{}, out[0].Provisions[1])
}

func TestCreateRoutine_SendsEmptyProvisions(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/routines": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]json.RawMessage
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.JSONEq(t, `[]`, string(body["provisions"]))
			writeTestJSON(t, w, http.StatusCreated, map[string]any{"id": "r1", "name": "Legs", "provisions": []any{}})
		},
	})

	out, err := newTestClient(ts, nil).CreateRoutine(context.Background(), model.RoutineInput{Name: "Legs"})
	require.NoError(t, err)
	assert.Equal(t, "r1", out.ID)
}

func TestListSessions_Filter(t *testing.T) {
	start := model.Date{Year: 2024, Month: 1, Day: 1}
	end := model.Date{Year: 2024, Month: 1, Day: 31}
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/sessions": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "2024-01-01", q.Get("start_date"))
			assert.Equal(t, "2024-01-31", q.Get("end_date"))
			assert.Equal(t, "50", q.Get("limit"))
			writeTestJSON(t, w, http.StatusOK, []any{})
		},
	})

	_, err := newTestClient(ts, nil).ListSessions(context.Background(), api.SessionFilter{Start: &start, End: &end})
	require.NoError(t, err)
}

func TestGetActiveSession(t *testing.T) {
	serve := func(body string) *api.Client {
		ts := newTestServer(t, map[string]http.HandlerFunc{
			"GET /api/sessions/active": func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			},
		})
		return newTestClient(ts, nil)
	}

	got, err := serve("null").GetActiveSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = serve(`{"id":"s1","date":"2024-03-01","start_time":"2024-03-01T10:00:00Z","performed_exercises":[]}`).
		GetActiveSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s1", got.ID)
	assert.True(t, got.InProgress())
}

func TestAddSet_Route(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/sessions/s1/exercises/pe1/sets": func(w http.ResponseWriter, r *http.Request) {
			var in model.SetInput
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, 8, in.Reps)
			assert.InDelta(t, 100.0, in.Weight, 0.001)
			writeTestJSON(t, w, http.StatusOK, model.WorkoutSession{
				ID: "s1",
				PerformedExercises: []model.PerformedExercise{{
					ID:   "pe1",
					Sets: []model.PerformedSet{{SetNumber: 1, Reps: 8, Weight: 100, Completed: true}},
				}},
			})
		},
	})

	out, err := newTestClient(ts, nil).AddSet(context.Background(), "s1", "pe1", model.SetInput{Reps: 8, Weight: 100})
	require.NoError(t, err)
	require.Len(t, out.PerformedExercises, 1)
	assert.Len(t, out.PerformedExercises[0].Sets, 1)
}

func TestFinishSession(t *testing.T) {
	end := time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC)
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/sessions/s1/finish": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, model.WorkoutSession{ID: "s1", EndTime: &end})
		},
	})

	out, err := newTestClient(ts, nil).FinishSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, out.InProgress())
}

func TestSessionMutation_RejectsEmptyBody(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/sessions/s1/finish": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		"POST /api/sessions/s1/exercises": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusOK, map[string]any{})
		},
	})
	client := newTestClient(ts, nil)

	out, err := client.FinishSession(context.Background(), "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrEmptyResponse)
	assert.Nil(t, out)

	out, err = client.AddExercise(context.Background(), "s1", model.AddExerciseInput{ExerciseID: "e1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session has no id")
	assert.Nil(t, out)
}

func TestListWeightLogs_DefaultMonths(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/body-metrics/weight": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.URL.Query().Get("months"))
			_, _ = w.Write([]byte(`[{"id":"w1","weight":80.5,"date":"2024-01-02"}]`))
		},
	})

	out, err := newTestClient(ts, nil).ListWeightLogs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2024-01-02", out[0].Date.String())
}

func TestUpdateProfile_OmitsUnsetFields(t *testing.T) {
	height := 180.0
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"PATCH /api/body-metrics/profile": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]any{"height_cm": 180.0}, body)
			writeTestJSON(t, w, http.StatusOK, model.UserProfile{UID: "u1", HeightCm: &height})
		},
	})

	out, err := newTestClient(ts, nil).UpdateProfile(context.Background(), model.ProfilePatch{HeightCm: &height})
	require.NoError(t, err)
	require.NotNil(t, out.HeightCm)
	assert.InDelta(t, 180.0, *out.HeightCm, 0.001)
}
