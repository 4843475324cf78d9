package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/verte-zerg/tuilift/internal/model"
)

type exerciseItem struct {
	model.Exercise
}

func (i exerciseItem) Title() string { return i.Name }

func (i exerciseItem) Description() string {
	if i.Category == "" {
		return string(i.MuscleGroup)
	}
	return string(i.MuscleGroup) + " · " + string(i.Category)
}

func (i exerciseItem) FilterValue() string { return i.Name + " " + string(i.MuscleGroup) }

func exerciseItems(exercises []model.Exercise) []list.Item {
	items := make([]list.Item, len(exercises))
	for i, e := range exercises {
		items[i] = exerciseItem{Exercise: e}
	}
	return items
}

func newPicker() list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Add exercise"
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("exercise", "exercises")
	return l
}
