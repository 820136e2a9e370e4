// Package views derives what the shells display from the mirrored task set.
// Everything here is a pure function of its inputs.
package views

import (
	"github.com/dori/slowly/internal/model"
)

// OtherBucket is the key of the bucket for tasks whose tag is unknown
const OtherBucket = "other"

// Bucket is one tag's column on the dashboard
type Bucket struct {
	Key   string // tag id, or OtherBucket
	Tag   model.Tag
	Tasks []model.Task
}

// IsOther returns true for the fallback bucket
func (b Bucket) IsOther() bool {
	return b.Key == OtherBucket
}

// Title returns the heading shown for the bucket
func (b Bucket) Title() string {
	if b.IsOther() {
		return "Other"
	}
	return b.Tag.DisplayName()
}

// Dashboard is the partition of pending work
type Dashboard struct {
	Inbox   []model.Task
	Buckets []Bucket
}

// IsEmpty returns true when there is nothing pending
func (d Dashboard) IsEmpty() bool {
	return len(d.Inbox) == 0 && len(d.Buckets) == 0
}

// Count returns the number of tasks shown
func (d Dashboard) Count() int {
	n := len(d.Inbox)
	for _, b := range d.Buckets {
		n += len(b.Tasks)
	}
	return n
}

// Bucket returns the bucket with the given key
func (d Dashboard) Bucket(key string) (Bucket, bool) {
	for _, b := range d.Buckets {
		if b.Key == key {
			return b, true
		}
	}
	return Bucket{}, false
}

// BuildDashboard partitions pending tasks into the inbox and one bucket per
// effective tag. Tasks keep store order inside each bucket. Empty buckets
// are dropped and the other bucket always comes last.
func BuildDashboard(tasks []model.Task, storedTags []model.Tag) Dashboard {
	tags := model.EffectiveTags(storedTags)

	byKey := make(map[string][]model.Task, len(tags)+1)
	known := make(map[string]bool, len(tags))
	for _, tag := range tags {
		known[tag.ID] = true
	}

	var d Dashboard
	for _, t := range tasks {
		if t.Status != model.StatusPending {
			continue
		}
		if t.IsTemp {
			d.Inbox = append(d.Inbox, t)
			continue
		}
		// Containers show while any subtask is open, whatever their status says
		if t.IsContainer() && !t.HasOpenSubtasks() {
			continue
		}

		key := t.TagID
		if !known[key] {
			key = OtherBucket
		}
		byKey[key] = append(byKey[key], t)
	}

	for _, tag := range tags {
		if len(byKey[tag.ID]) == 0 {
			continue
		}
		d.Buckets = append(d.Buckets, Bucket{Key: tag.ID, Tag: tag, Tasks: byKey[tag.ID]})
	}
	if other := byKey[OtherBucket]; len(other) > 0 {
		d.Buckets = append(d.Buckets, Bucket{Key: OtherBucket, Tasks: other})
	}

	return d
}
