// Package notify sends desktop notifications through notify-send
package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/dori/slowly/internal/model"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Runner executes an external command
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     Runner
}

// NewNotifier creates a new notifier
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		run:     execRunner,
	}
}

// SetRunner replaces the command runner, for tests
func (n *Notifier) SetRunner(run Runner) {
	n.run = run
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Args builds the notify-send arguments for a notification
func Args(notification Notification) []string {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Timeout is in milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "slowly")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}
	return n.run("notify-send", Args(notification)...)
}

// SendCompletion celebrates a finished task or subtask. parent is the
// container's title when finishing a subtask also finished its parent.
func (n *Notifier) SendCompletion(title, parent string, actualMinutes int) error {
	body := title
	if actualMinutes > 0 {
		body = fmt.Sprintf("%s (%s)", title, model.FormatMinutes(actualMinutes))
	}

	heading := "Done, gently"
	if parent != "" {
		heading = "All of " + parent + " is done"
	}

	return n.Send(Notification{
		Title:   heading,
		Body:    body,
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "emblem-ok-symbolic",
	})
}

// SendFailure reports a write that did not land
func (n *Notifier) SendFailure(message string) error {
	return n.Send(Notification{
		Title:   "slowly could not save",
		Body:    message,
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "dialog-warning-symbolic",
	})
}

// SendOverdue reminds about pending work past its deadline
func (n *Notifier) SendOverdue(count int) error {
	if count == 0 {
		return nil
	}
	body := "1 task is past its deadline"
	if count > 1 {
		body = fmt.Sprintf("%d tasks are past their deadline", count)
	}

	return n.Send(Notification{
		Title:   "Overdue",
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 15 * time.Second,
		Icon:    "emblem-important-symbolic",
	})
}
