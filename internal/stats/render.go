package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/verte-zerg/tuilift/internal/model"
)

// RenderOptions size the plots of a rendered report.
type RenderOptions struct {
	TotalWidth int
	Height     int
	Window     int
	ForceColor bool
}

func (o RenderOptions) plot(unit string) PlotOptions {
	width := 0
	if o.TotalWidth > 0 {
		width = PlotWidthFor(o.TotalWidth)
	}
	return PlotOptions{Width: width, Height: o.Height, ForceColor: o.ForceColor, Unit: unit}
}

// RenderSummary prints totals for the sessions, given newest first.
func RenderSummary(w io.Writer, sessions []model.WorkoutSession) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No workouts found.")
		return err
	}
	var volume float64
	var sets int
	var elapsed time.Duration
	timed := 0
	for _, s := range sessions {
		volume += TotalVolume(s)
		sets += TotalSets(s)
		if d, ok := SessionDuration(s); ok {
			elapsed += d
			timed++
		}
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Workouts: %d", len(sessions)),
		fmt.Sprintf("Sets: %d", sets),
		fmt.Sprintf("Volume: %s", FormatNumber(volume)),
	}
	if timed > 0 {
		lines = append(lines, fmt.Sprintf("Avg Duration: %s", FormatDuration(elapsed/time.Duration(timed))))
	}
	if len(sessions) > 1 {
		volumes := make([]float64, len(sessions))
		for i, s := range sessions {
			volumes[len(sessions)-1-i] = TotalVolume(s)
		}
		lines = append(lines, fmt.Sprintf("Volume Trend: [%s]", Sparkline(volumes)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// HistoryRows returns one table row per session, matching HistoryHeaders.
func HistoryRows(sessions []model.WorkoutSession) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		duration := "-"
		if d, ok := SessionDuration(s); ok {
			duration = FormatDuration(d)
		}
		rows = append(rows, []string{
			s.Date.String(),
			TruncateCell(s.Title()),
			strconv.Itoa(len(s.PerformedExercises)),
			strconv.Itoa(TotalSets(s)),
			FormatNumber(TotalVolume(s)),
			duration,
		})
	}
	return rows
}

// HistoryHeaders are the column titles of HistoryRows.
var HistoryHeaders = []string{"Date", "Workout", "Exercises", "Sets", "Volume", "Duration"}

// RenderHistory prints one line per session.
func RenderHistory(w io.Writer, sessions []model.WorkoutSession) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No workouts found.")
		return err
	}
	return WriteTable(w, HistoryHeaders, HistoryRows(sessions), map[int]bool{2: true, 3: true, 4: true, 5: true})
}

// RenderSessionDetail prints every exercise and set of a session.
func RenderSessionDetail(w io.Writer, s model.WorkoutSession) error {
	header := fmt.Sprintf("%s  %s  started %s", s.Title(), s.Date, s.StartTime.Local().Format("15:04"))
	if d, ok := SessionDuration(s); ok {
		header += "  " + FormatDuration(d)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Volume: %s  Sets: %d\n", FormatNumber(TotalVolume(s)), TotalSets(s)); err != nil {
		return err
	}
	if s.Notes != nil && *s.Notes != "" {
		if _, err := fmt.Fprintf(w, "Notes: %s\n", *s.Notes); err != nil {
			return err
		}
	}
	for _, e := range s.PerformedExercises {
		if _, err := fmt.Fprintf(w, "\n%s (%s)\n", e.DisplayName(), FormatNumber(ExerciseVolume(e))); err != nil {
			return err
		}
		if len(e.Sets) == 0 {
			if _, err := fmt.Fprintln(w, "  no sets"); err != nil {
				return err
			}
			continue
		}
		rows := make([][]string, 0, len(e.Sets))
		for _, set := range e.Sets {
			rows = append(rows, []string{
				"  " + strconv.Itoa(set.SetNumber),
				FormatNumber(set.Weight),
				strconv.Itoa(set.Reps),
				formatRPE(set.RPE),
			})
		}
		if err := WriteTable(w, []string{"  Set", "Weight", "Reps", "RPE"}, rows, map[int]bool{1: true, 2: true, 3: true}); err != nil {
			return err
		}
	}
	return nil
}

// RenderVolumeTrend plots per-session volume, oldest first, with a moving
// average.
func RenderVolumeTrend(w io.Writer, chronological []model.WorkoutSession, opts RenderOptions) error {
	if len(chronological) == 0 {
		_, err := fmt.Fprintln(w, "No workouts to plot.")
		return err
	}
	volumes := make([]float64, len(chronological))
	for i, s := range chronological {
		volumes[i] = TotalVolume(s)
	}
	series := []Series{{Name: "Volume", Values: volumes}}
	if opts.Window > 1 {
		series = append(series, Series{Name: fmt.Sprintf("Avg (%d)", opts.Window), Values: MovingAverage(volumes, opts.Window)})
	}
	return PlotTrend(w, "Volume per Workout", series, opts.plot("kg"))
}

// RenderWeight prints the weight change, a trend plot and the log table.
func RenderWeight(w io.Writer, logs []model.WeightLog, opts RenderOptions) error {
	if len(logs) == 0 {
		_, err := fmt.Fprintln(w, "No weight logs found.")
		return err
	}
	latest := logs[len(logs)-1]
	line := fmt.Sprintf("Current: %s kg (%s)", FormatNumber(latest.Weight), latest.Date)
	if change, ok := WeightChange(logs); ok {
		line += fmt.Sprintf("  Change: %s kg", change)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	if len(logs) > 1 {
		weights := make([]float64, len(logs))
		for i, l := range logs {
			weights[i] = l.Weight
		}
		series := []Series{{Name: "Weight", Values: weights}}
		if opts.Window > 1 {
			series = append(series, Series{Name: fmt.Sprintf("Avg (%d)", opts.Window), Values: MovingAverage(weights, opts.Window)})
		}
		if err := PlotTrend(w, "Body Weight", series, opts.plot("kg")); err != nil {
			return err
		}
	}
	return RenderWeightTable(w, logs)
}

// RenderWeightTable prints weight logs newest first.
func RenderWeightTable(w io.Writer, logs []model.WeightLog) error {
	rows := make([][]string, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		l := logs[i]
		notes := ""
		if l.Notes != nil {
			notes = TruncateCell(*l.Notes)
		}
		rows = append(rows, []string{l.Date.String(), FormatNumber(l.Weight), notes, l.ID})
	}
	return WriteTable(w, []string{"Date", "Weight", "Notes", "ID"}, rows, map[int]bool{1: true})
}

// FormatNumber trims trailing zeros and keeps at most one decimal.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func formatRPE(rpe *float64) string {
	if rpe == nil {
		return "-"
	}
	return FormatNumber(*rpe)
}
