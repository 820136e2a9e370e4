package cli

import (
	"fmt"
	"strings"

	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/quote"
	"github.com/spf13/cobra"
)

func newQuoteCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Show or manage dashboard quotes",
		Args:  cobra.NoArgs,
		RunE: withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), Italic(a.RefreshQuote().Text))
			return nil
		}),
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List quotes",
		Args:  cobra.NoArgs,
		RunE: withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", Dim("mode:"), a.Quotes.Mode())
			if len(a.Mirror.Quotes()) == 0 {
				fmt.Fprintln(w, Dim("No quotes yet, showing the defaults."))
			}
			fixed := a.Quotes.Mode() == quote.ModeFixed
			for i, q := range a.Quotes.Quotes() {
				marker := " "
				if fixed && i == a.Quotes.Index() {
					marker = Green("*")
				}
				fmt.Fprintf(w, "%s %2d. %s\n", marker, i+1, q.Text)
			}
			return nil
		}),
	}

	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a quote",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
			if _, err := a.AddQuote(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), Green("Added quote"))
			return nil
		}),
	}

	edit := &cobra.Command{
		Use:   "edit <n> <text>",
		Short: "Replace a quote's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: withStoredQuote(g, func(cmd *cobra.Command, a *app.App, id string, args []string) error {
			if err := a.EditQuote(cmd.Context(), id, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), Green("Updated quote"))
			return nil
		}),
	}

	rm := &cobra.Command{
		Use:   "rm <n>",
		Short: "Delete a quote",
		Args:  cobra.ExactArgs(1),
		RunE: withStoredQuote(g, func(cmd *cobra.Command, a *app.App, id string, args []string) error {
			if err := a.DeleteQuote(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), Yellow("Deleted quote"))
			return nil
		}),
	}

	pick := &cobra.Command{
		Use:   "pick <n>",
		Short: "Always show quote n",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
			q, index, err := resolveQuote(a, args[0])
			if err != nil {
				return err
			}
			if err := a.SelectQuote(index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Green("Pinned"), Italic(q.Text))
			return nil
		}),
	}

	mode := &cobra.Command{
		Use:       "mode <random|fixed>",
		Short:     "Choose how the dashboard quote is picked",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(quote.ModeRandom), string(quote.ModeFixed)},
		RunE: withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
			m, err := quote.ParseMode(args[0])
			if err != nil {
				return err
			}
			if err := a.SetQuoteMode(m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Green("Quote mode"), m)
			return nil
		}),
	}

	cmd.AddCommand(ls, add, edit, rm, pick, mode)
	return cmd
}

// withStoredQuote resolves args[0] to a stored quote id. Default quotes are
// not stored and cannot be edited or deleted.
func withStoredQuote(g *globals, fn func(cmd *cobra.Command, a *app.App, id string, args []string) error) func(*cobra.Command, []string) error {
	return withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
		q, _, err := resolveQuote(a, args[0])
		if err != nil {
			return err
		}
		if len(a.Mirror.Quotes()) == 0 {
			return fmt.Errorf("default quotes cannot be changed; add your own first")
		}
		return fn(cmd, a, q.ID, args)
	})
}
