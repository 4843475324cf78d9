package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/tuilift/internal/model"
)

const sparkChars = " .:-=+*#%@"

// TotalVolume is the sum of weight × reps over every set of the session.
func TotalVolume(s model.WorkoutSession) float64 {
	var total float64
	for _, e := range s.PerformedExercises {
		total += ExerciseVolume(e)
	}
	return total
}

// ExerciseVolume is the sum of weight × reps over the exercise's sets.
func ExerciseVolume(e model.PerformedExercise) float64 {
	var total float64
	for _, set := range e.Sets {
		total += set.Volume()
	}
	return total
}

// TotalSets counts the sets logged in the session.
func TotalSets(s model.WorkoutSession) int {
	n := 0
	for _, e := range s.PerformedExercises {
		n += len(e.Sets)
	}
	return n
}

// SessionDuration returns the elapsed time of a finished session. It reports
// false while the session is in progress.
func SessionDuration(s model.WorkoutSession) (time.Duration, bool) {
	if s.EndTime == nil {
		return 0, false
	}
	d := s.EndTime.Sub(s.StartTime)
	if d < 0 {
		return 0, false
	}
	return d, true
}

// FormatDuration renders d rounded to whole minutes as "45m" or "1h 5m".
func FormatDuration(d time.Duration) string {
	minutes := int(math.Round(d.Minutes()))
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Change is the difference between the oldest and latest weight logs.
type Change struct {
	Value  float64
	IsLoss bool
}

// WeightChange compares the first and last of logs ordered by date. It
// reports false with fewer than two logs.
func WeightChange(logs []model.WeightLog) (Change, bool) {
	if len(logs) < 2 {
		return Change{}, false
	}
	oldest, latest := logs[0].Weight, logs[len(logs)-1].Weight
	return Change{Value: math.Abs(latest - oldest), IsLoss: latest < oldest}, true
}

// String renders the change with a sign, e.g. "-1.5".
func (c Change) String() string {
	sign := "+"
	if c.IsLoss {
		sign = "-"
	}
	return fmt.Sprintf("%s%.1f", sign, c.Value)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := seriesMinMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}
	return b.String()
}
