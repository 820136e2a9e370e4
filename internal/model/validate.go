package model

import (
	"errors"
	"strings"
)

// Validation errors. These are raised before any write is attempted.
var (
	ErrEmptyTitle   = errors.New("title is required")
	ErrTagRequired  = errors.New("a tag is required unless the task goes to the inbox")
	ErrUnknownTag   = errors.New("tag does not exist")
	ErrEmptyName    = errors.New("name is required")
	ErrEmptyQuote   = errors.New("quote text is required")
	ErrBadEnergy    = errors.New("energy must be high or low")
	ErrBadDuration  = errors.New("minutes must be positive")
	ErrInvalidIndex = errors.New("index out of range")
)

// ValidateTask checks a task against the given effective tag set
func ValidateTask(t Task, tags []Tag) error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if !t.IsTemp {
		if t.TagID == "" {
			return ErrTagRequired
		}
		if _, ok := FindTag(tags, t.TagID); !ok {
			return ErrUnknownTag
		}
	}
	if !t.Energy.Valid() {
		return ErrBadEnergy
	}
	if t.EstTime != nil && *t.EstTime <= 0 {
		return ErrBadDuration
	}
	for _, s := range t.Subtasks {
		if err := ValidateSubtask(s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSubtask checks a single subtask
func ValidateSubtask(s Subtask) error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if !s.Energy.Valid() {
		return ErrBadEnergy
	}
	if s.Time != nil && *s.Time <= 0 {
		return ErrBadDuration
	}
	return nil
}

// ValidateTagName checks a tag name
func ValidateTagName(name string) error {
	if strings.TrimSpace(strings.TrimPrefix(name, "@")) == "" {
		return ErrEmptyName
	}
	return nil
}

// ValidateQuoteText checks quote text
func ValidateQuoteText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyQuote
	}
	return nil
}
