package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dori/slowly/internal/model"
	"github.com/tidwall/gjson"
)

// Layouts accepted for string timestamps, most specific first
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	model.DateLayout,
}

// ParseTime normalizes a timestamp in any of the shapes records arrive in:
// RFC3339 or date strings, unix seconds or milliseconds, and
// {seconds,nanoseconds} style objects from document store exports.
func ParseTime(v gjson.Result) (time.Time, bool) {
	switch v.Type {
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			var t time.Time
			var err error
			if layout == model.DateLayout || layout == "2006-01-02 15:04:05" || layout == "2006-01-02T15:04:05" {
				t, err = time.ParseInLocation(layout, s, time.Local)
			} else {
				t, err = time.Parse(layout, s)
			}
			if err == nil {
				return t, true
			}
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return unixTime(n), true
		}
		return time.Time{}, false

	case gjson.Number:
		return unixTime(v.Float()), true

	case gjson.JSON:
		if !v.IsObject() {
			return time.Time{}, false
		}
		if d := v.Get("$date"); d.Exists() {
			return ParseTime(d)
		}
		secs := firstOf(v, "seconds", "_seconds")
		if !secs.Exists() {
			return time.Time{}, false
		}
		nanos := firstOf(v, "nanoseconds", "_nanoseconds")
		return time.Unix(secs.Int(), nanos.Int()), true
	}

	return time.Time{}, false
}

// ParseTimePtr is ParseTime returning nil for absent values
func ParseTimePtr(v gjson.Result) *time.Time {
	t, ok := ParseTime(v)
	if !ok || t.IsZero() {
		return nil
	}
	return &t
}

// parseMinutes accepts numbers and numeric strings; "" and 0 mean unset
func parseMinutes(v gjson.Result) *int {
	switch v.Type {
	case gjson.Number:
		return model.Minutes(int(v.Int()))
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return nil
		}
		return model.Minutes(n)
	}
	return nil
}

func unixTime(n float64) time.Time {
	// Values past year 5138 in seconds are taken as milliseconds
	if n > 1e11 {
		return time.UnixMilli(int64(n))
	}
	secs := int64(n)
	return time.Unix(secs, int64((n-float64(secs))*1e9))
}

func firstOf(v gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

func parseRetrospective(v gjson.Result) model.Retrospective {
	return model.Retrospective{
		CompletedAt: ParseTimePtr(v.Get("completedAt")),
		ActualTime:  parseMinutes(v.Get("actualTime")),
		Reflection:  v.Get("reflection").String(),
	}
}

// DecodeSubtasks reads a JSON array of subtasks, normalizing every timestamp
func DecodeSubtasks(raw string) ([]model.Subtask, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return []model.Subtask{}, nil
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("decode subtasks: invalid json")
	}

	arr := gjson.Parse(raw)
	if !arr.IsArray() {
		return nil, fmt.Errorf("decode subtasks: expected array")
	}

	subtasks := []model.Subtask{}
	arr.ForEach(func(_, item gjson.Result) bool {
		subtasks = append(subtasks, decodeSubtask(item))
		return true
	})
	return subtasks, nil
}

func decodeSubtask(v gjson.Result) model.Subtask {
	return model.Subtask{
		ID:            v.Get("id").String(),
		Title:         v.Get("title").String(),
		Time:          parseMinutes(v.Get("time")),
		Energy:        model.Energy(v.Get("energy").String()),
		Deadline:      ParseTimePtr(v.Get("deadline")),
		Note:          v.Get("note").String(),
		IsCompleted:   v.Get("isCompleted").Bool(),
		Retrospective: parseRetrospective(v),
	}
}

// DecodeTask reads one task document
func DecodeTask(v gjson.Result) (model.Task, error) {
	if !v.IsObject() {
		return model.Task{}, fmt.Errorf("decode task: expected object")
	}

	subtasks := []model.Subtask{}
	if raw := v.Get("subtasks"); raw.IsArray() {
		raw.ForEach(func(_, item gjson.Result) bool {
			subtasks = append(subtasks, decodeSubtask(item))
			return true
		})
	}

	t := model.Task{
		ID:            v.Get("id").String(),
		Title:         v.Get("title").String(),
		IsTemp:        v.Get("isTemp").Bool(),
		TagID:         v.Get("tagId").String(),
		Status:        model.Status(v.Get("status").String()),
		EstTime:       parseMinutes(v.Get("estTime")),
		Energy:        model.Energy(v.Get("energy").String()),
		Deadline:      ParseTimePtr(v.Get("deadline")),
		Note:          v.Get("note").String(),
		Subtasks:      subtasks,
		Retrospective: parseRetrospective(v),
	}
	if created, ok := ParseTime(v.Get("createdAt")); ok {
		t.CreatedAt = created
	}
	if t.Status != model.StatusCompleted {
		t.Status = model.StatusPending
	}
	return t, nil
}

// DecodeTag reads one tag document
func DecodeTag(v gjson.Result) model.Tag {
	t := model.Tag{
		ID:    v.Get("id").String(),
		Name:  v.Get("name").String(),
		Color: normalizeColor(v.Get("color").String()),
	}
	if created, ok := ParseTime(v.Get("createdAt")); ok {
		t.CreatedAt = created
	}
	return t
}

// DecodeQuote reads one quote document. Bare strings are accepted too.
func DecodeQuote(v gjson.Result) model.Quote {
	if v.Type == gjson.String {
		return model.Quote{Text: v.Str}
	}
	q := model.Quote{
		ID:   v.Get("id").String(),
		Text: v.Get("text").String(),
	}
	if created, ok := ParseTime(v.Get("createdAt")); ok {
		q.CreatedAt = created
	}
	return q
}

// normalizeColor maps css-ish class names like "bg-rose-200" onto palette
// tokens. Unknown values fall back to stone.
func normalizeColor(s string) model.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range model.Palette {
		if s == string(c) || strings.Contains(s, "-"+string(c)+"-") || strings.HasSuffix(s, "-"+string(c)) {
			return c
		}
	}
	return model.ColorStone
}
