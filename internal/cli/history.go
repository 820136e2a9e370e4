package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/model"
	"github.com/dori/slowly/internal/views"
	"github.com/spf13/cobra"
)

func newHistoryCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show finished work day by day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			days, _ := cmd.Flags().GetInt("days")
			printHistory(cmd.OutOrStdout(), a, days)
			return nil
		},
	}
	cmd.Flags().IntP("days", "d", 7, "number of days with completions to show (0 for all)")
	return cmd
}

func printHistory(w io.Writer, a *app.App, limit int) {
	days := a.History()
	if len(days) == 0 {
		fmt.Fprintln(w, Dim("No history yet. Finished work shows up here."))
		return
	}
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}

	for _, d := range days {
		heading := d.Date
		if t, err := time.ParseInLocation(model.DateLayout, d.Date, a.Location); err == nil {
			heading = t.Format("Monday, Jan 2 2006")
		}
		summary := fmt.Sprintf("%d done", d.Completed())
		if m := d.ActualMinutes(); m > 0 {
			summary += ", " + model.FormatMinutes(m)
		}
		fmt.Fprintf(w, "%s  %s\n", Bold(heading), Dim(summary))

		for _, r := range d.Records {
			printRecord(w, a, r)
		}
		fmt.Fprintln(w)
	}
}

func printRecord(w io.Writer, a *app.App, r views.Record) {
	if r.Kind == views.RecordSingle {
		fmt.Fprintf(w, "  %s %s%s\n", Green("✓"), r.Task.Title, recordMeta(a, r.Task.Retrospective))
		if r.Task.Reflection != "" {
			fmt.Fprintf(w, "      %s\n", Italic(r.Task.Reflection))
		}
		return
	}

	fmt.Fprintf(w, "  %s %s\n", Green("✓"), Bold(r.Task.Title))
	for _, s := range r.Subtasks {
		fmt.Fprintf(w, "    · %s%s\n", s.Title, recordMeta(a, s.Retrospective))
		if s.Reflection != "" {
			fmt.Fprintf(w, "        %s\n", Italic(s.Reflection))
		}
	}
}

func recordMeta(a *app.App, r model.Retrospective) string {
	meta := ""
	if r.CompletedAt != nil {
		meta = r.CompletedAt.In(a.Location).Format("15:04")
	}
	if m := r.ActualMinutes(); m > 0 {
		meta += " · " + model.FormatMinutes(m)
	}
	if meta == "" {
		return ""
	}
	return "  " + Dim(meta)
}
