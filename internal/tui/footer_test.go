package tui

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderFooterShowsError(t *testing.T) {
	m := &Model{screen: screenWorkout, status: "Set logged"}
	m.setError("log set", errors.New("reps are required"))
	out := m.renderFooter()
	if !containsAll(out, []string{"reps are required", "enter log set"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
	if strings.Contains(out, "Set logged") {
		t.Fatalf("error should replace status: %s", out)
	}
}

func TestRenderFooterDashboardHints(t *testing.T) {
	m := &Model{screen: screenDashboard, status: "Workout discarded"}
	out := m.renderFooter()
	if !containsAll(out, []string{"Workout discarded", "enter start"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
