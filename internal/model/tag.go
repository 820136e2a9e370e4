package model

import (
	"strings"
	"time"
)

// Tag represents a bucket tasks are filed under, like @school or @work
type Tag struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     Color     `json:"color,omitempty" yaml:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// DisplayName returns the tag name with @ prefix if not already present
func (t *Tag) DisplayName() string {
	if len(t.Name) > 0 && t.Name[0] == '@' {
		return t.Name
	}
	return "@" + t.Name
}

// Matches reports whether name refers to this tag, ignoring case and a
// leading @.
func (t *Tag) Matches(name string) bool {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	return strings.EqualFold(strings.TrimPrefix(t.Name, "@"), name) || t.ID == name
}

// DefaultTags returns the built-in tags shown while no tag has been saved.
// They are never written to the store.
func DefaultTags() []Tag {
	return []Tag{
		{ID: "default-misc", Name: "Misc", Color: ColorStone},
		{ID: "default-weekend", Name: "Weekend", Color: ColorRose},
		{ID: "default-internship", Name: "Internship", Color: ColorBlue},
		{ID: "default-school", Name: "School", Color: ColorEmerald},
		{ID: "default-life", Name: "Life", Color: ColorAmber},
	}
}

// EffectiveTags returns stored when it has any tags, otherwise the defaults
func EffectiveTags(stored []Tag) []Tag {
	if len(stored) > 0 {
		return stored
	}
	return DefaultTags()
}

// FindTag looks a tag up by id
func FindTag(tags []Tag, id string) (Tag, bool) {
	for _, t := range tags {
		if t.ID == id {
			return t, true
		}
	}
	return Tag{}, false
}

// FindTagByName looks a tag up by name, ignoring case and a leading @
func FindTagByName(tags []Tag, name string) (Tag, bool) {
	for _, t := range tags {
		if t.Matches(name) {
			return t, true
		}
	}
	return Tag{}, false
}
