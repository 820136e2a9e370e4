package views

import (
	"sort"
	"time"

	"github.com/dori/slowly/internal/model"
)

// RecordKind distinguishes history record shapes
type RecordKind string

const (
	RecordSingle  RecordKind = "single"
	RecordGrouped RecordKind = "grouped"
)

// Record is one row of the history timeline: a completed leaf task, or the
// subtasks of one container completed on the same day.
type Record struct {
	Kind     RecordKind
	Task     model.Task
	Subtasks []model.Subtask // grouped only, in list order
	SortTime time.Time
}

// ActualMinutes returns the time spent recorded on the record
func (r Record) ActualMinutes() int {
	if r.Kind == RecordSingle {
		return r.Task.ActualMinutes()
	}
	total := 0
	for _, s := range r.Subtasks {
		total += s.ActualMinutes()
	}
	return total
}

// Items returns how many completions the record covers
func (r Record) Items() int {
	if r.Kind == RecordSingle {
		return 1
	}
	return len(r.Subtasks)
}

// Day is every record completed on one calendar date
type Day struct {
	Date    string // YYYY-MM-DD in the history location
	Records []Record
}

// Completed returns the number of completions on the day
func (d Day) Completed() int {
	n := 0
	for _, r := range d.Records {
		n += r.Items()
	}
	return n
}

// ActualMinutes returns the total time spent recorded on the day
func (d Day) ActualMinutes() int {
	total := 0
	for _, r := range d.Records {
		total += r.ActualMinutes()
	}
	return total
}

// BuildHistory groups completed work by the calendar day in loc, most recent
// day first and most recent record first within a day. Completions without a
// recorded time are treated as happening at now. A nil result means there is
// no history.
func BuildHistory(tasks []model.Task, loc *time.Location, now time.Time) []Day {
	if loc == nil {
		loc = time.Local
	}

	byDate := make(map[string][]Record)
	add := func(r Record) {
		key := model.DateKey(r.SortTime, loc)
		byDate[key] = append(byDate[key], r)
	}

	for _, t := range tasks {
		if t.IsLeaf() {
			if t.IsCompleted() {
				add(Record{Kind: RecordSingle, Task: t, SortTime: t.CompletedAtOr(now)})
			}
			continue
		}

		groups := make(map[string]*Record)
		var order []string
		for _, s := range t.Subtasks {
			if !s.IsCompleted {
				continue
			}
			at := s.CompletedAtOr(now)
			key := model.DateKey(at, loc)
			g, ok := groups[key]
			if !ok {
				g = &Record{Kind: RecordGrouped, Task: t, SortTime: at}
				groups[key] = g
				order = append(order, key)
			}
			g.Subtasks = append(g.Subtasks, s)
			if at.Before(g.SortTime) {
				g.SortTime = at
			}
		}
		for _, key := range order {
			add(*groups[key])
		}
	}

	if len(byDate) == 0 {
		return nil
	}

	days := make([]Day, 0, len(byDate))
	for date, records := range byDate {
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].SortTime.After(records[j].SortTime)
		})
		days = append(days, Day{Date: date, Records: records})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})

	return days
}
