// Package quickadd parses one-line task capture like
//
//	Review notes @school ~45m !high due:friday ; outline ; draft
//
// Words starting with @ pick the tag, ~ sets the estimate, !high or !low
// sets the energy and due: sets the deadline. Segments after a semicolon
// become subtasks. Without a tag the task goes to the inbox.
package quickadd

import (
	"strings"
	"time"

	"github.com/dori/slowly/internal/editor"
	"github.com/dori/slowly/internal/model"
)

// Result is a parsed quick add line
type Result struct {
	Title    string
	Tag      string // tag name without @, empty for the inbox
	EstTime  *int
	Energy   model.Energy
	Deadline *time.Time
	Subtasks []string
}

// Parse reads a quick add line. Relative dates resolve against now.
func Parse(text string, now time.Time) Result {
	var r Result

	segments := strings.Split(text, ";")
	for _, seg := range segments[1:] {
		if title := strings.TrimSpace(seg); title != "" {
			r.Subtasks = append(r.Subtasks, title)
		}
	}

	var titleParts []string
	for _, word := range strings.Fields(segments[0]) {
		lower := strings.ToLower(word)
		switch {
		// Tag (@school, @work)
		case strings.HasPrefix(word, "@") && len(word) > 1:
			r.Tag = strings.TrimPrefix(word, "@")

		// Estimate (~45m, ~1h30m, ~90)
		case strings.HasPrefix(word, "~"):
			if m := ParseMinutes(word[1:]); m > 0 {
				r.EstTime = &m
			} else {
				titleParts = append(titleParts, word)
			}

		// Energy (!high, !low)
		case strings.HasPrefix(word, "!"):
			switch strings.TrimPrefix(lower, "!") {
			case "high", "hi", "h":
				r.Energy = model.EnergyHigh
			case "low", "lo", "l":
				r.Energy = model.EnergyLow
			default:
				titleParts = append(titleParts, word)
			}

		// Deadline (due:tomorrow, due:friday, due:2026-01-15)
		case strings.HasPrefix(lower, "due:"):
			if d := ParseDate(strings.TrimPrefix(lower, "due:"), now); d != nil {
				r.Deadline = d
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	r.Title = strings.Join(titleParts, " ")
	return r
}

// Draft turns the result into an edit draft, resolving the tag by name
// against the effective tag set.
func (r Result) Draft(tags []model.Tag) (*editor.Draft, error) {
	d := editor.New()
	d.Title = r.Title
	d.EstTime = r.EstTime
	d.Energy = r.Energy
	d.Deadline = r.Deadline

	if r.Tag == "" {
		d.IsTemp = true
	} else {
		tag, ok := model.FindTagByName(tags, r.Tag)
		if !ok {
			return nil, model.ErrUnknownTag
		}
		d.TagID = tag.ID
	}

	for _, title := range r.Subtasks {
		d.AddSubtask(model.Subtask{Title: title})
	}

	if err := d.Validate(tags); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseMinutes parses durations like 30m, 1h, 1h30m, 1.5h or a bare number
// of minutes. It returns 0 when nothing usable is found.
func ParseMinutes(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	if d, err := time.ParseDuration(s); err == nil {
		return int(d.Minutes())
	}

	total := 0
	current := 0
	digits := false
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			current = current*10 + int(c-'0')
			digits = true
		case c == 'h':
			total += current * 60
			current, digits = 0, false
		case c == 'm':
			total += current
			current, digits = 0, false
		default:
			return 0
		}
	}

	// Bare number means minutes
	if digits {
		total += current
	}
	return total
}

// ParseDate parses natural deadline words and common date layouts into a
// calendar date at midnight in now's location.
func ParseDate(s string, now time.Time) *time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return &today
	case "tomorrow", "tom":
		t := today.AddDate(0, 0, 1)
		return &t
	case "monday", "mon":
		return nextWeekday(today, time.Monday)
	case "tuesday", "tue":
		return nextWeekday(today, time.Tuesday)
	case "wednesday", "wed":
		return nextWeekday(today, time.Wednesday)
	case "thursday", "thu":
		return nextWeekday(today, time.Thursday)
	case "friday", "fri":
		return nextWeekday(today, time.Friday)
	case "saturday", "sat":
		return nextWeekday(today, time.Saturday)
	case "sunday", "sun":
		return nextWeekday(today, time.Sunday)
	case "nextweek", "next-week":
		t := today.AddDate(0, 0, 7)
		return &t
	}

	formats := []string{
		"2006-01-02",
		"01/02/2006",
		"01-02-2006",
		"Jan 2",
		"Jan 2, 2006",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, now.Location()); err == nil {
			// No year given
			if t.Year() == 0 {
				t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
			}
			return &t
		}
	}

	return nil
}

func nextWeekday(today time.Time, day time.Weekday) *time.Time {
	daysUntil := int(day - today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	t := today.AddDate(0, 0, daysUntil)
	return &t
}
