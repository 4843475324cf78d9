package stats

import (
	"context"
	"sort"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/tuilift/internal/api"
	"github.com/verte-zerg/tuilift/internal/model"
)

// Source is the part of the API the history report reads.
type Source interface {
	ListSessions(ctx context.Context, filter api.SessionFilter) ([]model.WorkoutSession, error)
	ListWeightLogs(ctx context.Context, months int) ([]model.WeightLog, error)
}

// HistoryConfig selects what the report covers.
type HistoryConfig struct {
	Start  *model.Date
	End    *model.Date
	Limit  int
	Months int
}

// Report contains precomputed data for history rendering.
type Report struct {
	// Sessions are finished sessions, newest first.
	Sessions []model.WorkoutSession
	// WeightLogs are ordered by date, oldest first.
	WeightLogs []model.WeightLog
}

// BuildReport loads sessions and weight logs concurrently. In-progress
// sessions are left out.
func BuildReport(ctx context.Context, src Source, cfg HistoryConfig) (Report, error) {
	var (
		sessions []model.WorkoutSession
		logs     []model.WeightLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = src.ListSessions(gctx, api.SessionFilter{Start: cfg.Start, End: cfg.End, Limit: cfg.Limit})
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = src.ListWeightLogs(gctx, cfg.Months)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	finished := make([]model.WorkoutSession, 0, len(sessions))
	for _, s := range sessions {
		if !s.InProgress() {
			finished = append(finished, s)
		}
	}
	sort.SliceStable(finished, func(i, j int) bool {
		return finished[i].StartTime.After(finished[j].StartTime)
	})
	SortWeightLogs(logs)

	log.WithFields(log.Fields{
		"sessions":    len(finished),
		"weight_logs": len(logs),
	}).Debug("history report built")
	return Report{Sessions: finished, WeightLogs: logs}, nil
}

// SortWeightLogs orders logs by date, oldest first.
func SortWeightLogs(logs []model.WeightLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Date.Before(logs[j].Date)
	})
}

// Chronological returns the sessions oldest first.
func (r Report) Chronological() []model.WorkoutSession {
	out := make([]model.WorkoutSession, len(r.Sessions))
	for i, s := range r.Sessions {
		out[len(r.Sessions)-1-i] = s
	}
	return out
}

// Session finds a session by id.
func (r Report) Session(id string) (model.WorkoutSession, bool) {
	for _, s := range r.Sessions {
		if s.ID == id {
			return s, true
		}
	}
	return model.WorkoutSession{}, false
}
