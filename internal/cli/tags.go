package cli

import (
	"fmt"

	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/model"
	"github.com/spf13/cobra"
)

func newTagCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
			w := cmd.OutOrStdout()
			if len(a.Mirror.Tags()) == 0 {
				fmt.Fprintln(w, Dim("No tags yet, showing the defaults."))
			}
			for _, t := range a.Mirror.EffectiveTags() {
				fmt.Fprintf(w, "%s  %s %s\n", Dim(ShortID(t.ID)), TagLabel(t.DisplayName(), t.Color), Dim(string(t.Color)))
			}
			return nil
		}),
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
			c, _ := cmd.Flags().GetString("color")
			color, err := parseColor(c)
			if err != nil {
				return err
			}
			id, err := a.CreateTag(cmd.Context(), args[0], color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s @%s %s\n", Green("Created"), args[0], Dim(ShortID(id)))
			return nil
		}),
	}
	add.Flags().StringP("color", "c", "", "palette color (default: next unused)")

	rename := &cobra.Command{
		Use:   "rename <tag> <name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: withTag(g, func(cmd *cobra.Command, a *app.App, t model.Tag, args []string) error {
			if err := a.RenameTag(cmd.Context(), t.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Green("Renamed"), t.DisplayName())
			return nil
		}),
	}

	recolor := &cobra.Command{
		Use:   "color <tag> <color>",
		Short: "Change a tag's color",
		Args:  cobra.ExactArgs(2),
		RunE: withTag(g, func(cmd *cobra.Command, a *app.App, t model.Tag, args []string) error {
			color, err := parseColor(args[1])
			if err != nil {
				return err
			}
			if err := a.RecolorTag(cmd.Context(), t.ID, color); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Green("Recolored"), TagLabel(t.DisplayName(), color))
			return nil
		}),
	}

	rm := &cobra.Command{
		Use:   "rm <tag>",
		Short: "Delete a tag (its tasks move to other)",
		Args:  cobra.ExactArgs(1),
		RunE: withTag(g, func(cmd *cobra.Command, a *app.App, t model.Tag, args []string) error {
			if err := a.DeleteTag(cmd.Context(), t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", Yellow("Deleted"), t.DisplayName())
			return nil
		}),
	}

	cmd.AddCommand(ls, add, rename, recolor, rm)
	return cmd
}

func parseColor(s string) (model.Color, error) {
	if s == "" {
		return "", nil
	}
	c := model.Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown color %q (choose from %v)", s, model.Palette)
	}
	return c, nil
}

// withApp opens the application around a command body
func withApp(g *globals, fn func(cmd *cobra.Command, a *app.App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := g.open(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

// withTag resolves args[0] to a stored tag. Default tags only exist until
// the first tag is created, so they cannot be edited.
func withTag(g *globals, fn func(cmd *cobra.Command, a *app.App, t model.Tag, args []string) error) func(*cobra.Command, []string) error {
	return withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
		t, ok := a.FindTag(args[0])
		if !ok {
			return fmt.Errorf("no tag %q", args[0])
		}
		if _, stored := model.FindTag(a.Mirror.Tags(), t.ID); !stored {
			return fmt.Errorf("%s is a default tag; create your own tags first", t.DisplayName())
		}
		return fn(cmd, a, t, args)
	})
}
