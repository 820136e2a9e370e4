package model

import (
	"math"
	"strconv"
	"time"
)

// DateLayout is the calendar date key format used for history grouping
const DateLayout = "2006-01-02"

// DateKey returns the calendar date of t in loc
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// FormatMinutes renders a duration like 45m or 1.5h
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return strconv.Itoa(minutes) + "m"
	}
	hours := math.Round(float64(minutes)/6) / 10
	return strconv.FormatFloat(hours, 'f', -1, 64) + "h"
}

// Minutes returns a pointer to m, or nil when m is not positive
func Minutes(m int) *int {
	if m <= 0 {
		return nil
	}
	return &m
}
