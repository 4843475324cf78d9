package workout

import "fmt"

// RestTimer counts down the rest period between sets. Every Start or Cancel
// bumps the generation so ticks scheduled for an earlier countdown are
// ignored.
type RestTimer struct {
	remaining int
	gen       uint64
	counting  bool
}

// Start replaces any running countdown with a new one of the given length
// and returns its generation. A non-positive length leaves the timer idle.
func (t *RestTimer) Start(seconds int) uint64 {
	t.gen++
	t.remaining = max(seconds, 0)
	t.counting = seconds > 0
	return t.gen
}

// Tick advances the countdown by one second when gen is current. It reports
// whether the countdown is still running and needs another tick.
func (t *RestTimer) Tick(gen uint64) bool {
	if !t.counting || gen != t.gen {
		return false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.counting = false
	}
	return t.counting
}

// Cancel stops the countdown.
func (t *RestTimer) Cancel() {
	t.gen++
	t.remaining = 0
	t.counting = false
}

func (t RestTimer) Active() bool       { return t.counting }
func (t RestTimer) Remaining() int     { return t.remaining }
func (t RestTimer) Generation() uint64 { return t.gen }

// Format renders the remaining time as m:ss.
func (t RestTimer) Format() string {
	return fmt.Sprintf("%d:%02d", t.remaining/60, t.remaining%60)
}
