package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/completion"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/quickadd"
	"github.com/dori/slowly/internal/views"
	"github.com/spf13/cobra"
)

func newAddCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Capture a task",
		Long: `Capture a task from one line.

  @tag         file it under a tag (no tag puts it in the inbox)
  ~45m         estimate
  !high !low   energy
  due:friday   deadline
  ; step       each segment after a semicolon becomes a subtask`,
		Example: `  slowly add Review notes @school ~45m due:friday
  slowly add "Move flat @life ; pack books ; book van"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			text := strings.Join(args, " ")
			id, err := a.QuickAdd(cmd.Context(), text)
			if err != nil {
				return err
			}
			title := quickadd.Parse(text, a.Now()).Title
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", Green("Added"), Dim(ShortID(id)), title)
			return nil
		},
	}
}

func newLsCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Show the dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			quiet, _ := cmd.Flags().GetBool("quiet")
			printDashboard(cmd.OutOrStdout(), a, !quiet)
			return nil
		},
	}
	cmd.Flags().BoolP("quiet", "q", false, "leave out the quote")
	return cmd
}

func printDashboard(w io.Writer, a *app.App, withQuote bool) {
	if withQuote {
		fmt.Fprintf(w, "%s\n\n", Italic(Dim(a.RefreshQuote().Text)))
	}

	d := a.Dashboard()
	if d.IsEmpty() {
		fmt.Fprintln(w, Dim("Nothing here. Add something with `slowly add`."))
		return
	}

	now := a.Now().In(a.Location)
	if len(d.Inbox) > 0 {
		fmt.Fprintln(w, Bold("Inbox"))
		for _, t := range d.Inbox {
			fmt.Fprintf(w, "  %s\n", TaskLine(t, now))
		}
		fmt.Fprintln(w)
	}
	for _, b := range d.Buckets {
		fmt.Fprintln(w, bucketHeading(b))
		for _, t := range b.Tasks {
			fmt.Fprintf(w, "  %s\n", TaskLine(t, now))
		}
		fmt.Fprintln(w)
	}
}

func bucketHeading(b views.Bucket) string {
	if b.IsOther() {
		return Bold(b.Title())
	}
	return TagLabel(b.Title(), b.Tag.Color)
}

func newShowCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task>",
		Short: "Show one task with its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := resolveTask(a, args[0])
			if err != nil {
				return err
			}
			printTask(cmd.OutOrStdout(), a, t)
			return nil
		},
	}
}

func printTask(w io.Writer, a *app.App, t model.Task) {
	fmt.Fprintf(w, "%s %s\n", Bold(t.Title), Dim(t.ID))

	tag := "inbox"
	if !t.IsTemp {
		tag = views.OtherBucket
		if found, ok := model.FindTag(a.Mirror.EffectiveTags(), t.TagID); ok {
			tag = TagLabel(found.DisplayName(), found.Color)
		}
	}
	fmt.Fprintf(w, "  tag:      %s\n", tag)
	fmt.Fprintf(w, "  status:   %s\n", t.Status)
	if est := t.TotalEstimate(); est > 0 {
		fmt.Fprintf(w, "  estimate: %s\n", model.FormatMinutes(est))
	}
	if t.Energy != "" {
		fmt.Fprintf(w, "  energy:   %s\n", t.Energy)
	}
	if t.Deadline != nil {
		fmt.Fprintf(w, "  due:      %s\n", t.Deadline.In(a.Location).Format(model.DateLayout))
	}
	if t.Note != "" {
		fmt.Fprintf(w, "  note:     %s\n", t.Note)
	}
	if t.IsCompleted() && t.IsLeaf() {
		printRetrospective(w, a, t.Retrospective)
	}

	for i, s := range t.Subtasks {
		mark := "[ ]"
		if s.IsCompleted {
			mark = Green("[x]")
		}
		line := fmt.Sprintf("  %d. %s %s %s", i+1, mark, s.Title, Dim(s.ID))
		if s.Time != nil {
			line += "  " + Dim(model.FormatMinutes(*s.Time))
		}
		fmt.Fprintln(w, line)
		if s.IsCompleted {
			printRetrospective(w, a, s.Retrospective)
		}
	}
}

func printRetrospective(w io.Writer, a *app.App, r model.Retrospective) {
	if r.CompletedAt != nil {
		fmt.Fprintf(w, "      done %s", r.CompletedAt.In(a.Location).Format("Mon Jan 2 15:04"))
		if m := r.ActualMinutes(); m > 0 {
			fmt.Fprintf(w, " in %s", model.FormatMinutes(m))
		}
		fmt.Fprintln(w)
	}
	if r.Reflection != "" {
		fmt.Fprintf(w, "      %s\n", Italic(r.Reflection))
	}
}

func newDoneCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task> [subtask]",
		Short: "Complete a task or one of its subtasks",
		Long: `Complete a task, or a subtask given by id or position. Completing the
last open subtask completes the task too.`,
		Example: `  slowly done 3f2a --time 40m --note "easier than expected"
  slowly done "Move flat" 2`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := resolveTask(a, args[0])
			if err != nil {
				return err
			}
			subID := ""
			if len(args) == 2 {
				s, err := resolveSubtask(t, args[1])
				if err != nil {
					return err
				}
				subID = s.ID
			}

			minutes, note, err := retroFlags(cmd)
			if err != nil {
				return err
			}

			ev, err := a.CompleteNow(cmd.Context(), t.ID, subID, minutes, note)
			if errors.Is(err, app.ErrNotCompletable) {
				if t.IsContainer() && subID == "" {
					return fmt.Errorf("%q has subtasks; complete them one at a time", t.Title)
				}
				return fmt.Errorf("%q is already done", t.Title)
			}
			if err != nil {
				return err
			}
			printEvent(cmd.OutOrStdout(), ev)
			return nil
		},
	}
	addRetroFlags(cmd)
	return cmd
}

func newFixCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix <task> [subtask]",
		Short: "Correct the retrospective of finished work",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := resolveTask(a, args[0])
			if err != nil {
				return err
			}
			kind, subID := completion.KindMain, ""
			if len(args) == 2 {
				s, err := resolveSubtask(t, args[1])
				if err != nil {
					return err
				}
				kind, subID = completion.KindSub, s.ID
			}
			if !a.Engine.BeginCorrection(kind, t.ID, subID) {
				return fmt.Errorf("%q has nothing finished to correct", t.Title)
			}

			if cmd.Flags().Changed("time") || cmd.Flags().Changed("note") {
				minutes, note, err := retroFlags(cmd)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("time") {
					a.Engine.SetActualTime(minutes)
				}
				if cmd.Flags().Changed("note") {
					a.Engine.SetReflection(note)
				}
			}
			if on, _ := cmd.Flags().GetString("on"); on != "" {
				at, err := completionDate(on, a.Now().In(a.Location))
				if err != nil {
					return err
				}
				a.Engine.SetCompletedAt(at)
			}

			if _, err := a.ConfirmCompletion(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Green("Updated"), t.Title)
			return nil
		},
	}
	addRetroFlags(cmd)
	cmd.Flags().String("on", "", "date it was finished (2025-03-14, yesterday, friday)")
	return cmd
}

func addRetroFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("time", "t", "", "time it actually took (40m, 1h30m)")
	cmd.Flags().StringP("note", "n", "", "a short reflection")
}

func retroFlags(cmd *cobra.Command) (int, string, error) {
	raw, _ := cmd.Flags().GetString("time")
	note, _ := cmd.Flags().GetString("note")
	minutes := 0
	if raw != "" {
		minutes = quickadd.ParseMinutes(raw)
		if minutes <= 0 {
			return 0, "", fmt.Errorf("%w: %q", model.ErrBadDuration, raw)
		}
	}
	return minutes, strings.TrimSpace(note), nil
}

// completionDate keeps the current time of day on the given date
func completionDate(s string, now time.Time) (time.Time, error) {
	day := quickadd.ParseDate(s, now)
	if day == nil {
		return time.Time{}, fmt.Errorf("could not read date %q", s)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), 0, 0, now.Location()), nil
}

func printEvent(w io.Writer, ev *completion.Event) {
	if ev == nil {
		fmt.Fprintln(w, Dim("Nothing changed."))
		return
	}
	line := fmt.Sprintf("%s %s", BoldGreen("Done"), ev.Title)
	if m := ev.ActualMinutes(); m > 0 {
		line += Dim(" in " + model.FormatMinutes(m))
	}
	fmt.Fprintln(w, line)
	if ev.ParentCompleted {
		fmt.Fprintf(w, "%s %s\n", BoldGreen("All of"), ev.ParentTitle+" is done")
	}
}

func newRmCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := resolveTask(a, args[0])
			if err != nil {
				return err
			}
			if _, err := a.DeleteTask(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Yellow("Deleted"), t.Title)
			return nil
		},
	}
}
