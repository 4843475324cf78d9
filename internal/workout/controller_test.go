package workout_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/verte-zerg/tuilift/internal/api"
	"github.com/verte-zerg/tuilift/internal/model"
	"github.com/verte-zerg/tuilift/internal/workout"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newSession(id string, exercises ...model.PerformedExercise) *model.WorkoutSession {
	return &model.WorkoutSession{
		ID:                 id,
		Date:               model.DateOf(testNow),
		StartTime:          testNow,
		PerformedExercises: exercises,
	}
}

func performed(id string, sets ...model.PerformedSet) model.PerformedExercise {
	return model.PerformedExercise{
		ID:           id,
		ExerciseID:   "ex-" + id,
		ExerciseName: strPtr(gofakeit.Word()),
		IsAdhoc:      true,
		Sets:         sets,
	}
}

func newController(t *testing.T) (*workout.Controller, *MockSessionAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	sessions := NewMockSessionAPI(ctrl)
	c := workout.NewController(sessions,
		workout.WithRestDuration(90*time.Second),
		workout.WithClock(func() time.Time { return testNow }),
	)
	return c, sessions
}

// inProgress resumes s so the controller holds it.
func inProgress(t *testing.T, c *workout.Controller, sessions *MockSessionAPI, s *model.WorkoutSession) {
	t.Helper()
	sessions.EXPECT().GetActiveSession(gomock.Any()).Return(s, nil)
	_, err := c.Resume(context.Background())
	require.NoError(t, err)
	require.Equal(t, workout.PhaseInProgress, c.Phase())
}

func TestController_ResumeSelectsLastExercise(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1"), performed("pe2")))

	assert.Equal(t, "pe2", c.ActiveExerciseID())
	assert.False(t, c.Rest().Active())
}

func TestController_WarnsOnSetNumberGaps(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1",
		performed("pe1", model.PerformedSet{SetNumber: 1}, model.PerformedSet{SetNumber: 2}),
		performed("pe2", model.PerformedSet{SetNumber: 1}, model.PerformedSet{SetNumber: 3}),
	))

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "pe2", entry.Data["performed_exercise_id"])
	assert.Equal(t, "pe2", c.ActiveExerciseID())
}

func TestController_ResumeWithoutActiveSession(t *testing.T) {
	c, sessions := newController(t)
	sessions.EXPECT().GetActiveSession(gomock.Any()).Return(nil, nil)

	got, err := c.Resume(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, workout.PhaseNone, c.Phase())
	assert.Nil(t, c.Session())
}

func TestController_StartFromRoutine(t *testing.T) {
	c, sessions := newController(t)
	routine := &model.Routine{ID: "r1", Name: "Push Day"}

	sessions.EXPECT().GetActiveSession(gomock.Any()).Return(nil, nil)
	sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in model.SessionInput) (*model.WorkoutSession, error) {
			require.NotNil(t, in.RoutineID)
			assert.Equal(t, "r1", *in.RoutineID)
			assert.Equal(t, "Push Day", *in.RoutineName)
			assert.Equal(t, "2024-03-01", in.Date.String())
			s := newSession("s1")
			s.RoutineID, s.RoutineName = in.RoutineID, in.RoutineName
			return s, nil
		})

	got, err := c.Start(context.Background(), routine)
	require.NoError(t, err)
	assert.Equal(t, "Push Day", got.Title())
	assert.Equal(t, workout.PhaseInProgress, c.Phase())
	assert.Empty(t, c.ActiveExerciseID())
}

func TestController_StartQuickWorkout(t *testing.T) {
	c, sessions := newController(t)
	sessions.EXPECT().GetActiveSession(gomock.Any()).Return(nil, nil)
	sessions.EXPECT().CreateSession(gomock.Any(), model.SessionInput{Date: model.DateOf(testNow)}).
		Return(newSession("s1"), nil)

	got, err := c.Start(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Quick Workout", got.Title())
}

func TestController_StartSurfacesServerActiveSession(t *testing.T) {
	c, sessions := newController(t)
	existing := newSession("old", performed("pe1"))
	sessions.EXPECT().GetActiveSession(gomock.Any()).Return(existing, nil)

	_, err := c.Start(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, workout.ErrSessionActive)

	var active *workout.ActiveSessionError
	require.ErrorAs(t, err, &active)
	assert.Equal(t, "old", active.Session.ID)
	assert.Equal(t, workout.PhaseNone, c.Phase())
	assert.False(t, c.Busy())
}

func TestController_StartConflictMapsToActiveSession(t *testing.T) {
	c, sessions := newController(t)
	gomock.InOrder(
		sessions.EXPECT().GetActiveSession(gomock.Any()).Return(nil, nil),
		sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
			Return(nil, &api.Error{Status: http.StatusConflict, Message: "An active session already exists"}),
		sessions.EXPECT().GetActiveSession(gomock.Any()).Return(newSession("race"), nil),
	)

	_, err := c.Start(context.Background(), nil)
	var active *workout.ActiveSessionError
	require.ErrorAs(t, err, &active)
	assert.Equal(t, "race", active.Session.ID)
	assert.Equal(t, workout.PhaseNone, c.Phase())
}

func TestController_StartWhileHoldingSession(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1"))

	_, err := c.Start(context.Background(), nil)
	assert.ErrorIs(t, err, workout.ErrSessionInProgress)
}

func TestController_AddExerciseBecomesActive(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1")))
	require.NoError(t, c.Select("pe1"))

	sessions.EXPECT().AddExercise(gomock.Any(), "s1", model.AddExerciseInput{ExerciseID: "bench", IsAdhoc: true}).
		Return(newSession("s1", performed("pe1"), performed("pe2")), nil)

	_, err := c.AddExercise(context.Background(), "bench", "")
	require.NoError(t, err)
	assert.Equal(t, "pe2", c.ActiveExerciseID())
}

func TestController_AddExerciseFromRoutineItem(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1"))

	sessions.EXPECT().AddExercise(gomock.Any(), "s1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, in model.AddExerciseInput) (*model.WorkoutSession, error) {
			assert.False(t, in.IsAdhoc)
			require.NotNil(t, in.RoutineItemID)
			assert.Equal(t, "item-1", *in.RoutineItemID)
			return newSession("s1", performed("pe1")), nil
		})

	_, err := c.AddExercise(context.Background(), "bench", "item-1")
	require.NoError(t, err)
}

func TestController_LogSetReplacesSnapshotAndStartsRest(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1"), performed("pe2")))
	require.NoError(t, c.Select("pe1"))

	in := model.SetInput{Reps: 8, Weight: 100}
	sessions.EXPECT().AddSet(gomock.Any(), "s1", "pe1", in).
		Return(newSession("s1",
			performed("pe1", model.PerformedSet{SetNumber: 1, Reps: 8, Weight: 100, Completed: true}),
			performed("pe2"),
		), nil)

	_, err := c.LogSet(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "pe1", c.ActiveExerciseID())
	active, ok := c.ActiveExercise()
	require.True(t, ok)
	require.Len(t, active.Sets, 1)
	assert.Equal(t, 1, active.Sets[0].SetNumber)

	rest := c.Rest()
	assert.True(t, rest.Active())
	assert.Equal(t, 90, rest.Remaining())
	assert.Equal(t, "1:30", rest.Format())
}

func TestController_FailedLogSetLeavesStateUnchanged(t *testing.T) {
	c, sessions := newController(t)
	start := newSession("s1", performed("pe1", model.PerformedSet{SetNumber: 1, Reps: 5, Weight: 60, Completed: true}))
	inProgress(t, c, sessions, start)
	before := c.Session()
	restBefore := c.Rest()

	sessions.EXPECT().AddSet(gomock.Any(), "s1", "pe1", gomock.Any()).
		Return(nil, &api.Error{Status: http.StatusInternalServerError, Message: "HTTP error 500"})

	_, err := c.LogSet(context.Background(), model.SetInput{Reps: 5, Weight: 60})
	require.Error(t, err)
	assert.Equal(t, "HTTP error 500", err.Error())

	assert.Equal(t, before, c.Session())
	assert.Equal(t, "pe1", c.ActiveExerciseID())
	assert.Equal(t, restBefore, c.Rest())
	assert.False(t, c.Busy())
}

func TestController_LogSetValidation(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1")))

	_, err := c.LogSet(context.Background(), model.SetInput{Reps: 201})
	require.Error(t, err)
	assert.False(t, c.Busy())
}

func TestController_LogSetWithoutExercise(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1"))

	_, err := c.LogSet(context.Background(), model.SetInput{Reps: 5})
	assert.ErrorIs(t, err, workout.ErrNoActiveExercise)
}

func TestController_SecondSetResetsRest(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1")))

	sessions.EXPECT().AddSet(gomock.Any(), "s1", "pe1", gomock.Any()).
		Return(newSession("s1", performed("pe1", model.PerformedSet{SetNumber: 1})), nil)
	_, err := c.LogSet(context.Background(), model.SetInput{Reps: 5})
	require.NoError(t, err)
	firstGen := c.Rest().Generation()
	for i := 0; i < 30; i++ {
		require.True(t, c.TickRest(firstGen))
	}
	assert.Equal(t, 60, c.Rest().Remaining())

	sessions.EXPECT().AddSet(gomock.Any(), "s1", "pe1", gomock.Any()).
		Return(newSession("s1", performed("pe1", model.PerformedSet{SetNumber: 1}, model.PerformedSet{SetNumber: 2})), nil)
	_, err = c.LogSet(context.Background(), model.SetInput{Reps: 5})
	require.NoError(t, err)

	assert.Equal(t, 90, c.Rest().Remaining())
	assert.False(t, c.TickRest(firstGen), "tick from the replaced countdown must be ignored")
	assert.Equal(t, 90, c.Rest().Remaining())
	assert.True(t, c.TickRest(c.Rest().Generation()))
	assert.Equal(t, 89, c.Rest().Remaining())
}

func TestController_BusyGuard(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1")))

	pending, err := c.BeginLogSet(model.SetInput{Reps: 5})
	require.NoError(t, err)
	assert.True(t, c.Busy())
	assert.Equal(t, workout.OpLogSet, c.InFlight())

	_, err = c.BeginLogSet(model.SetInput{Reps: 5})
	assert.ErrorIs(t, err, workout.ErrBusy)
	_, err = c.BeginFinish()
	assert.ErrorIs(t, err, workout.ErrBusy)
	_, err = c.BeginStart(nil)
	assert.ErrorIs(t, err, workout.ErrBusy)

	sessions.EXPECT().AddSet(gomock.Any(), "s1", "pe1", gomock.Any()).
		Return(newSession("s1", performed("pe1", model.PerformedSet{SetNumber: 1})), nil)
	_, err = c.Apply(pending.Run(context.Background()))
	require.NoError(t, err)
	assert.False(t, c.Busy())
}

func TestController_RunOnAnotherGoroutine(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1")))

	pending, err := c.BeginFinish()
	require.NoError(t, err)

	end := testNow.Add(time.Hour)
	finished := newSession("s1", performed("pe1"))
	finished.EndTime = &end
	sessions.EXPECT().FinishSession(gomock.Any(), "s1").Return(finished, nil)

	done := make(chan workout.Outcome)
	go func() { done <- pending.Run(context.Background()) }()
	outcome := <-done

	got, err := c.Apply(outcome)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.InProgress())
}

func TestController_FinishClearsState(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1")))
	sessions.EXPECT().AddSet(gomock.Any(), "s1", "pe1", gomock.Any()).
		Return(newSession("s1", performed("pe1", model.PerformedSet{SetNumber: 1})), nil)
	_, err := c.LogSet(context.Background(), model.SetInput{Reps: 5})
	require.NoError(t, err)
	staleGen := c.Rest().Generation()

	end := testNow.Add(time.Hour)
	finished := newSession("s1")
	finished.EndTime = &end
	sessions.EXPECT().FinishSession(gomock.Any(), "s1").Return(finished, nil)

	got, err := c.Finish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, workout.PhaseNone, c.Phase())
	assert.Nil(t, c.Session())
	assert.Empty(t, c.ActiveExerciseID())
	assert.False(t, c.Rest().Active())
	assert.False(t, c.TickRest(staleGen))
}

func TestController_FinishFailureKeepsSession(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1")))
	sessions.EXPECT().FinishSession(gomock.Any(), "s1").Return(nil, errors.New("connection refused"))

	_, err := c.Finish(context.Background())
	require.Error(t, err)
	assert.Equal(t, workout.PhaseInProgress, c.Phase())
	assert.Equal(t, "pe1", c.ActiveExerciseID())
}

func TestController_Discard(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1"))
	sessions.EXPECT().DeleteSession(gomock.Any(), "s1").Return(nil)

	require.NoError(t, c.Discard(context.Background()))
	assert.Equal(t, workout.PhaseNone, c.Phase())
}

func TestController_ActionsWithoutSession(t *testing.T) {
	c, _ := newController(t)

	_, err := c.AddExercise(context.Background(), "bench", "")
	assert.ErrorIs(t, err, workout.ErrNoSession)
	_, err = c.LogSet(context.Background(), model.SetInput{Reps: 5})
	assert.ErrorIs(t, err, workout.ErrNoSession)
	_, err = c.Finish(context.Background())
	assert.ErrorIs(t, err, workout.ErrNoSession)
	assert.ErrorIs(t, c.Discard(context.Background()), workout.ErrNoSession)
	assert.ErrorIs(t, c.Select("pe1"), workout.ErrNoSession)
}

func TestController_SelectAndCycle(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1"), performed("pe2"), performed("pe3")))

	assert.ErrorIs(t, c.Select("nope"), workout.ErrUnknownExercise)
	assert.Equal(t, "pe3", c.ActiveExerciseID())

	c.SelectNext()
	assert.Equal(t, "pe1", c.ActiveExerciseID())
	c.SelectPrev()
	assert.Equal(t, "pe3", c.ActiveExerciseID())
	c.SelectPrev()
	assert.Equal(t, "pe2", c.ActiveExerciseID())
}

func TestController_SessionIsACopy(t *testing.T) {
	c, sessions := newController(t)
	inProgress(t, c, sessions, newSession("s1", performed("pe1", model.PerformedSet{SetNumber: 1, Reps: 5})))

	s := c.Session()
	s.PerformedExercises[0].Sets[0].Reps = 99
	s.PerformedExercises = nil

	again := c.Session()
	require.Len(t, again.PerformedExercises, 1)
	assert.Equal(t, 5, again.PerformedExercises[0].Sets[0].Reps)
}
