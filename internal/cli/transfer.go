package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dori/slowly/internal/app"
	"github.com/dori/slowly/internal/transfer"
	"github.com/spf13/cobra"
)

func newExportCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task, tag and quote to a file or stdout",
		Args:  cobra.NoArgs,
		RunE: withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			name, _ := cmd.Flags().GetString("format")
			if name == "" {
				name = formatFromPath(output)
			}
			format, err := transfer.ParseFormat(name)
			if err != nil {
				return err
			}

			bundle, err := transfer.Collect(cmd.Context(), a.Store, a.Now())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := transfer.Write(w, bundle, format); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %d tasks to %s\n", Green("Exported"), len(bundle.Tasks), output)
			}
			return nil
		}),
	}
	cmd.Flags().StringP("output", "o", "", "file to write (default stdout)")
	cmd.Flags().StringP("format", "f", "", "json or yaml (default from the file extension, else json)")
	return cmd
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return string(transfer.FormatYAML)
	}
	return string(transfer.FormatJSON)
}

func newImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add tasks, tags and quotes from an export",
		Long: `Add tasks, tags and quotes from a JSON or YAML export. Everything is
added alongside what is already there under new ids.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(g, func(cmd *cobra.Command, a *app.App, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			bundle, err := transfer.Decode(data)
			if err != nil {
				return err
			}
			sum, err := transfer.Import(cmd.Context(), a.Store, bundle, a.Log)
			if err != nil {
				return fmt.Errorf("%w: import: %w", app.ErrPersist, err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %d tasks, %d tags, %d quotes\n", Green("Imported"), sum.Tasks, sum.Tags, sum.Quotes)
			if sum.Skipped > 0 {
				fmt.Fprintf(w, "%s %d invalid records\n", Yellow("Skipped"), sum.Skipped)
			}
			return nil
		}),
	}
}
