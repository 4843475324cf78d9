// Package workout manages the client side of a live workout session: the
// session snapshot, the exercise being worked on and the rest countdown.
package workout

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/verte-zerg/tuilift/internal/api"
	"github.com/verte-zerg/tuilift/internal/model"
)

// DefaultRestDuration is the countdown started after each logged set.
const DefaultRestDuration = 90 * time.Second

// SessionAPI is the subset of the remote API the controller needs.
//
//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=workout_test
type SessionAPI interface {
	GetActiveSession(ctx context.Context) (*model.WorkoutSession, error)
	CreateSession(ctx context.Context, in model.SessionInput) (*model.WorkoutSession, error)
	AddExercise(ctx context.Context, sessionID string, in model.AddExerciseInput) (*model.WorkoutSession, error)
	AddSet(ctx context.Context, sessionID, performedExerciseID string, in model.SetInput) (*model.WorkoutSession, error)
	FinishSession(ctx context.Context, id string) (*model.WorkoutSession, error)
	DeleteSession(ctx context.Context, id string) error
}

// Phase is the lifecycle state of the held session.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseInProgress
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseInProgress:
		return "in progress"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Op names a remote workout action.
type Op int

const (
	OpResume Op = iota + 1
	OpStart
	OpAddExercise
	OpLogSet
	OpFinish
	OpDiscard
)

func (o Op) String() string {
	switch o {
	case OpResume:
		return "resume"
	case OpStart:
		return "start"
	case OpAddExercise:
		return "add exercise"
	case OpLogSet:
		return "log set"
	case OpFinish:
		return "finish"
	case OpDiscard:
		return "discard"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Pending is a validated action waiting for its remote round trip. Run may
// be called from any goroutine; it never touches the controller.
type Pending struct {
	op        Op
	sessionID string
	call      func(ctx context.Context) (*model.WorkoutSession, error)
}

// Op returns the action kind.
func (p *Pending) Op() Op {
	return p.op
}

// Run performs the round trip.
func (p *Pending) Run(ctx context.Context) Outcome {
	session, err := p.call(ctx)
	return Outcome{Op: p.op, SessionID: p.sessionID, Session: session, Err: err}
}

// Outcome is the result of a Pending, handed back to Controller.Apply.
type Outcome struct {
	Op        Op
	SessionID string
	Session   *model.WorkoutSession
	Err       error
}

// Option configures a Controller.
type Option func(*Controller)

// WithRestDuration sets the countdown started after each set.
func WithRestDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.restDuration = d
		}
	}
}

// WithClock replaces time.Now, used for the session date.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller holds the in-progress session. It is not safe for concurrent
// use: Begin*, Apply and the accessors belong to one goroutine, while
// Pending.Run may execute elsewhere.
type Controller struct {
	api          SessionAPI
	restDuration time.Duration
	now          func() time.Time

	session  *model.WorkoutSession
	activeID string
	rest     RestTimer
	inFlight Op
}

// NewController creates a controller with no session.
func NewController(sessions SessionAPI, opts ...Option) *Controller {
	c := &Controller{
		api:          sessions,
		restDuration: DefaultRestDuration,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase reports whether a session is held.
func (c *Controller) Phase() Phase {
	if c.session == nil {
		return PhaseNone
	}
	return PhaseInProgress
}

// Busy reports whether an action is awaiting Apply.
func (c *Controller) Busy() bool {
	return c.inFlight != 0
}

// InFlight returns the action awaiting Apply, or zero.
func (c *Controller) InFlight() Op {
	return c.inFlight
}

// Session returns a copy of the held session, or nil.
func (c *Controller) Session() *model.WorkoutSession {
	if c.session == nil {
		return nil
	}
	s := c.session.Clone()
	return &s
}

// ActiveExerciseID returns the selected performed exercise id.
func (c *Controller) ActiveExerciseID() string {
	return c.activeID
}

// ActiveExercise returns a copy of the selected performed exercise.
func (c *Controller) ActiveExercise() (model.PerformedExercise, bool) {
	if c.session == nil || c.activeID == "" {
		return model.PerformedExercise{}, false
	}
	e, ok := c.session.Exercise(c.activeID)
	if !ok {
		return model.PerformedExercise{}, false
	}
	e.Sets = append([]model.PerformedSet(nil), e.Sets...)
	return e, true
}

// Rest returns the rest timer state.
func (c *Controller) Rest() RestTimer {
	return c.rest
}

// TickRest advances the rest countdown; see RestTimer.Tick.
func (c *Controller) TickRest(gen uint64) bool {
	return c.rest.Tick(gen)
}

// SkipRest cancels the rest countdown.
func (c *Controller) SkipRest() {
	c.rest.Cancel()
}

// Select makes the performed exercise with the given id active.
func (c *Controller) Select(performedExerciseID string) error {
	if c.session == nil {
		return ErrNoSession
	}
	if _, ok := c.session.Exercise(performedExerciseID); !ok {
		return ErrUnknownExercise
	}
	c.activeID = performedExerciseID
	return nil
}

// SelectNext moves the selection one exercise to the right, wrapping around.
func (c *Controller) SelectNext() {
	c.step(1)
}

// SelectPrev moves the selection one exercise to the left, wrapping around.
func (c *Controller) SelectPrev() {
	c.step(-1)
}

func (c *Controller) step(delta int) {
	if c.session == nil {
		return
	}
	exercises := c.session.PerformedExercises
	if len(exercises) == 0 {
		return
	}
	idx := 0
	for i, e := range exercises {
		if e.ID == c.activeID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(exercises)) % len(exercises)
	c.activeID = exercises[idx].ID
}

func (c *Controller) begin(op Op) error {
	if c.inFlight != 0 {
		return ErrBusy
	}
	c.inFlight = op
	return nil
}

func (c *Controller) requireSession() error {
	if c.inFlight != 0 {
		return ErrBusy
	}
	if c.session == nil {
		return ErrNoSession
	}
	return nil
}

// BeginResume prepares fetching the server's active session.
func (c *Controller) BeginResume() (*Pending, error) {
	if c.inFlight == 0 && c.session != nil {
		return nil, ErrSessionInProgress
	}
	if err := c.begin(OpResume); err != nil {
		return nil, err
	}
	sessions := c.api
	return &Pending{op: OpResume, call: sessions.GetActiveSession}, nil
}

// BeginStart prepares starting a session, optionally from a routine. The
// round trip refuses to start when the server already has an unfinished
// session and reports it as an *ActiveSessionError instead.
func (c *Controller) BeginStart(routine *model.Routine) (*Pending, error) {
	if c.inFlight == 0 && c.session != nil {
		return nil, ErrSessionInProgress
	}
	in := model.SessionInput{Date: model.DateOf(c.now())}
	if routine != nil {
		id, name := routine.ID, routine.Name
		in.RoutineID = &id
		in.RoutineName = &name
	}
	if err := c.begin(OpStart); err != nil {
		return nil, err
	}
	sessions := c.api
	return &Pending{op: OpStart, call: func(ctx context.Context) (*model.WorkoutSession, error) {
		return startSession(ctx, sessions, in)
	}}, nil
}

func startSession(ctx context.Context, sessions SessionAPI, in model.SessionInput) (*model.WorkoutSession, error) {
	active, err := sessions.GetActiveSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("check active session: %w", err)
	}
	if active != nil {
		return nil, &ActiveSessionError{Session: active}
	}
	created, err := sessions.CreateSession(ctx, in)
	if err != nil {
		if api.IsConflict(err) {
			// Someone started a session between the check and the create.
			active, _ = sessions.GetActiveSession(ctx)
			return nil, &ActiveSessionError{Session: active}
		}
		return nil, err
	}
	return created, nil
}

// BeginAddExercise prepares appending an exercise. The exercise is ad hoc
// unless routineItemID is set.
func (c *Controller) BeginAddExercise(exerciseID, routineItemID string) (*Pending, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	if exerciseID == "" {
		return nil, fmt.Errorf("exercise id is required")
	}
	in := model.AddExerciseInput{ExerciseID: exerciseID, IsAdhoc: routineItemID == ""}
	if routineItemID != "" {
		in.RoutineItemID = &routineItemID
	}
	_ = c.begin(OpAddExercise)
	sessions, id := c.api, c.session.ID
	return &Pending{op: OpAddExercise, sessionID: id, call: func(ctx context.Context) (*model.WorkoutSession, error) {
		return sessions.AddExercise(ctx, id, in)
	}}, nil
}

// BeginLogSet prepares logging a set on the active exercise.
func (c *Controller) BeginLogSet(in model.SetInput) (*Pending, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	if _, ok := c.session.Exercise(c.activeID); !ok {
		return nil, ErrNoActiveExercise
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	_ = c.begin(OpLogSet)
	sessions, id, peID := c.api, c.session.ID, c.activeID
	return &Pending{op: OpLogSet, sessionID: id, call: func(ctx context.Context) (*model.WorkoutSession, error) {
		return sessions.AddSet(ctx, id, peID, in)
	}}, nil
}

// BeginFinish prepares finishing the session.
func (c *Controller) BeginFinish() (*Pending, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	_ = c.begin(OpFinish)
	sessions, id := c.api, c.session.ID
	return &Pending{op: OpFinish, sessionID: id, call: func(ctx context.Context) (*model.WorkoutSession, error) {
		return sessions.FinishSession(ctx, id)
	}}, nil
}

// BeginDiscard prepares deleting the unfinished session.
func (c *Controller) BeginDiscard() (*Pending, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	_ = c.begin(OpDiscard)
	sessions, id := c.api, c.session.ID
	return &Pending{op: OpDiscard, sessionID: id, call: func(ctx context.Context) (*model.WorkoutSession, error) {
		return nil, sessions.DeleteSession(ctx, id)
	}}, nil
}

// Apply commits the outcome of a Pending. A failed outcome leaves the
// session, selection and rest timer as they were. It returns a copy of the
// session the action produced: the held session, or for OpFinish the
// finished one.
func (c *Controller) Apply(o Outcome) (*model.WorkoutSession, error) {
	c.inFlight = 0
	if o.Err != nil {
		log.WithFields(log.Fields{
			"op":         o.Op.String(),
			"session_id": o.SessionID,
		}).WithError(o.Err).Warn("workout action failed")
		return nil, o.Err
	}

	switch o.Op {
	case OpResume:
		if o.Session == nil || !o.Session.InProgress() {
			c.clear()
			return nil, nil
		}
		c.adopt(o.Session)
		c.selectLast()
	case OpStart, OpAddExercise:
		if o.Session == nil {
			return nil, fmt.Errorf("%s: empty response", o.Op)
		}
		c.adopt(o.Session)
		c.selectLast()
	case OpLogSet:
		if o.Session == nil {
			return nil, fmt.Errorf("%s: empty response", o.Op)
		}
		c.adopt(o.Session)
		if _, ok := c.session.Exercise(c.activeID); !ok {
			c.selectLast()
		}
		c.rest.Start(int(c.restDuration / time.Second))
	case OpFinish:
		c.clear()
		if o.Session == nil {
			return nil, nil
		}
		finished := o.Session.Clone()
		return &finished, nil
	case OpDiscard:
		c.clear()
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown workout action %s", o.Op)
	}
	return c.Session(), nil
}

func (c *Controller) adopt(s *model.WorkoutSession) {
	snapshot := s.Clone()
	c.session = &snapshot
	for _, e := range snapshot.PerformedExercises {
		if !model.SetNumbersContiguous(e.Sets) {
			log.WithFields(log.Fields{
				"session_id":            snapshot.ID,
				"performed_exercise_id": e.ID,
			}).Warn("set numbers are not contiguous")
		}
	}
}

func (c *Controller) selectLast() {
	c.activeID = ""
	if n := len(c.session.PerformedExercises); n > 0 {
		c.activeID = c.session.PerformedExercises[n-1].ID
	}
}

func (c *Controller) clear() {
	c.session = nil
	c.activeID = ""
	c.rest.Cancel()
}

func (c *Controller) complete(ctx context.Context, p *Pending, err error) (*model.WorkoutSession, error) {
	if err != nil {
		return nil, err
	}
	return c.Apply(p.Run(ctx))
}

// Resume adopts the server's active session, if any.
func (c *Controller) Resume(ctx context.Context) (*model.WorkoutSession, error) {
	p, err := c.BeginResume()
	return c.complete(ctx, p, err)
}

// Start starts a session, from routine when it is not nil.
func (c *Controller) Start(ctx context.Context, routine *model.Routine) (*model.WorkoutSession, error) {
	p, err := c.BeginStart(routine)
	return c.complete(ctx, p, err)
}

// AddExercise appends an exercise and makes it active.
func (c *Controller) AddExercise(ctx context.Context, exerciseID, routineItemID string) (*model.WorkoutSession, error) {
	p, err := c.BeginAddExercise(exerciseID, routineItemID)
	return c.complete(ctx, p, err)
}

// LogSet logs a set on the active exercise and starts the rest countdown.
func (c *Controller) LogSet(ctx context.Context, in model.SetInput) (*model.WorkoutSession, error) {
	p, err := c.BeginLogSet(in)
	return c.complete(ctx, p, err)
}

// Finish ends the session and returns it.
func (c *Controller) Finish(ctx context.Context) (*model.WorkoutSession, error) {
	p, err := c.BeginFinish()
	return c.complete(ctx, p, err)
}

// Discard deletes the unfinished session.
func (c *Controller) Discard(ctx context.Context) error {
	p, err := c.BeginDiscard()
	_, err = c.complete(ctx, p, err)
	return err
}
