package workout

import (
	"errors"

	"github.com/verte-zerg/tuilift/internal/model"
)

var (
	ErrNoSession         = errors.New("no workout in progress")
	ErrSessionInProgress = errors.New("a workout is already open")
	ErrSessionActive     = errors.New("an active workout already exists on the server")
	ErrBusy              = errors.New("another workout action is still running")
	ErrNoActiveExercise  = errors.New("no exercise selected")
	ErrUnknownExercise   = errors.New("exercise is not part of this workout")
)

// ActiveSessionError is returned by Start when the server already holds an
// unfinished session. Session is nil when it could not be fetched.
type ActiveSessionError struct {
	Session *model.WorkoutSession
}

func (e *ActiveSessionError) Error() string {
	if e.Session == nil {
		return ErrSessionActive.Error()
	}
	return ErrSessionActive.Error() + " (" + e.Session.Title() + ", started " + e.Session.StartTime.Local().Format("15:04") + ")"
}

func (e *ActiveSessionError) Unwrap() error {
	return ErrSessionActive
}
