package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/model"
)

// resolveTask finds a task by id, id prefix or exact title
func resolveTask(a *app.App, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if t, ok := a.Mirror.Task(ref); ok {
		return t, nil
	}

	var matches []model.Task
	for _, t := range a.Mirror.Tasks() {
		if strings.HasPrefix(t.ID, ref) || strings.EqualFold(t.Title, ref) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("no task matches %q", ref)
	case 1:
		return matches[0], nil
	}
	return model.Task{}, fmt.Errorf("%q matches %d tasks, use more of the id", ref, len(matches))
}

// resolveSubtask finds a subtask by id or 1-based position
func resolveSubtask(t model.Task, ref string) (model.Subtask, error) {
	if i, ok := t.SubtaskIndex(ref); ok {
		return t.Subtasks[i], nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(t.Subtasks) {
		return t.Subtasks[n-1], nil
	}
	return model.Subtask{}, fmt.Errorf("%q has no subtask %q", t.Title, ref)
}

// resolveQuote finds a stored quote by id or 1-based position in the
// effective list
func resolveQuote(a *app.App, ref string) (model.Quote, int, error) {
	quotes := a.Mirror.EffectiveQuotes()
	for i, q := range quotes {
		if q.ID == ref {
			return q, i, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(quotes) {
		return quotes[n-1], n - 1, nil
	}
	return model.Quote{}, -1, fmt.Errorf("no quote %q", ref)
}
