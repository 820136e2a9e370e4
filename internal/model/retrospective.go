package model

import (
	"time"
)

// Retrospective is what gets recorded when a task or subtask is completed
type Retrospective struct {
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	ActualTime  *int       `json:"actualTime,omitempty" yaml:"actualTime,omitempty"` // Minutes
	Reflection  string     `json:"reflection,omitempty" yaml:"reflection,omitempty"`
}

// ActualMinutes returns the recorded time spent, or 0 when not recorded
func (r Retrospective) ActualMinutes() int {
	if r.ActualTime == nil {
		return 0
	}
	return *r.ActualTime
}

// CompletedAtOr returns the completion time, or fallback when none was recorded
func (r Retrospective) CompletedAtOr(fallback time.Time) time.Time {
	if r.CompletedAt == nil || r.CompletedAt.IsZero() {
		return fallback
	}
	return *r.CompletedAt
}
