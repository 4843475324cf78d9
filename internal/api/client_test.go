package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/tuilift/internal/api"
	"github.com/verte-zerg/tuilift/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestServer routes requests to handlers keyed by "METHOD path".
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestClient(ts *httptest.Server, tokens api.TokenFunc) *api.Client {
	return api.New(ts.URL, tokens, api.WithHTTPClient(ts.Client()))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

func staticToken(token string) api.TokenFunc {
	return func(context.Context) (string, error) { return token, nil }
}

func TestClient_SendsBearerToken(t *testing.T) {
	token := gofakeit.UUID()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/exercises": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Empty(t, r.Header.Get("Content-Type"))
			writeTestJSON(t, w, http.StatusOK, []model.Exercise{})
		},
	})

	out, err := newTestClient(ts, staticToken(token)).ListExercises(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestClient_NoProviderSendsNoAuthorization(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/exercises": func(w http.ResponseWriter, r *http.Request) {
			_, present := r.Header["Authorization"]
			assert.False(t, present)
			writeTestJSON(t, w, http.StatusOK, []model.Exercise{})
		},
	})

	_, err := newTestClient(ts, nil).ListExercises(context.Background(), "")
	require.NoError(t, err)

	_, err = newTestClient(ts, staticToken("")).ListExercises(context.Background(), "")
	require.NoError(t, err)
}

func TestClient_ProviderErrorAbortsCall(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{})
	providerErr := errors.New("login required")

	_, err := newTestClient(ts, func(context.Context) (string, error) {
		return "", providerErr
	}).ListExercises(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, providerErr)
}

func TestClient_NoContent(t *testing.T) {
	id := gofakeit.UUID()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"DELETE /api/exercises/" + id: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})

	require.NoError(t, newTestClient(ts, nil).DeleteExercise(context.Background(), id))
}

func TestClient_ErrorDetail(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/sessions": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusConflict, map[string]string{
				"detail": "An active session already exists",
			})
		},
	})

	_, err := newTestClient(ts, nil).CreateSession(context.Background(), model.SessionInput{
		Date: model.Date{Year: 2024, Month: 3, Day: 1},
	})
	require.Error(t, err)
	assert.Equal(t, "An active session already exists", err.Error())
	assert.True(t, api.IsConflict(err))
	assert.False(t, api.IsNotFound(err))

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, http.MethodPost, apiErr.Method)
	assert.Equal(t, "/sessions", apiErr.Path)
}

func TestClient_ErrorWithoutDetail(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/routines/missing": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "<html>not found</html>")
		},
	})

	_, err := newTestClient(ts, nil).GetRoutine(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "HTTP error 404", err.Error())
	assert.True(t, api.IsNotFound(err))
}

func TestClient_ValidationDetailList(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"POST /api/body-metrics/weight": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusUnprocessableEntity, map[string]any{
				"detail": []map[string]string{{"msg": "weight too large"}},
			})
		},
	})

	_, err := newTestClient(ts, nil).CreateWeightLog(context.Background(), model.WeightLogInput{
		Weight: 80, Date: model.Date{Year: 2024, Month: 1, Day: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weight too large")
}

func TestClient_Unauthorized(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/body-metrics/profile": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token"})
		},
	})

	_, err := newTestClient(ts, staticToken("expired")).GetProfile(context.Background())
	assert.True(t, api.IsUnauthorized(err))
}

func TestClient_EscapesPathSegments(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"DELETE /api/routines/a b": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/routines/a%20b", r.URL.EscapedPath())
			w.WriteHeader(http.StatusNoContent)
		},
	})

	require.NoError(t, newTestClient(ts, nil).DeleteRoutine(context.Background(), "a b"))
}

func TestClient_BaseURLTrailingSlash(t *testing.T) {
	c := api.New("http://localhost:8000/", nil)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
}
