package views

import (
	"github.com/dori/slowly/internal/completion"
)

// Messages shared between the views and the root model. They live here so
// the views do not import the ui package.

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// CompleteRequest asks the root to open the completion form. Correction
// edits the retrospective of work that is already done.
type CompleteRequest struct {
	Kind       completion.Kind
	TaskID     string
	SubtaskID  string
	Correction bool
}

// EditRequest asks the root to open the task editor. An empty TaskID
// creates a new task.
type EditRequest struct {
	TaskID string
}

// CompletedMsg reports a confirmed completion. Event is nil when the draft
// no longer applied.
type CompletedMsg struct {
	Event      *completion.Event
	Correction bool
}

// TaskDeletedMsg reports a deletion and whether it cancelled an open draft
type TaskDeletedMsg struct {
	Title     string
	Cancelled bool
}
